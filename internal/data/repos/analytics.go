package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/playdeck/gameguide-backend/internal/platform/logger"
)

type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

type MonthCount struct {
	Month time.Time `json:"month"`
	Count int64     `json:"count"`
}

type AgeCount struct {
	Age   int   `json:"age"`
	Count int64 `json:"count"`
}

type UserFeedbackCount struct {
	UserName string `json:"user_name"`
	Count    int64  `json:"count"`
}

type QuestionCount struct {
	Question string `json:"question"`
	Count    int64  `json:"count"`
}

type RelatedSplit struct {
	Related    int64 `json:"related"`
	NotRelated int64 `json:"not_related"`
}

// AnalyticsRepo serves the aggregate queries behind the analytics
// endpoints. Read-only; month buckets come back as date_trunc('month', ...)
// in ascending order.
type AnalyticsRepo interface {
	TotalUsers(ctx context.Context, tx *gorm.DB) (int64, error)
	UsersByGender(ctx context.Context, tx *gorm.DB) ([]LabelCount, error)
	UsersByAge(ctx context.Context, tx *gorm.DB) ([]AgeCount, error)
	UserRegistrationsByMonth(ctx context.Context, tx *gorm.DB) ([]MonthCount, error)

	TotalFeedback(ctx context.Context, tx *gorm.DB) (int64, error)
	FeedbackByType(ctx context.Context, tx *gorm.DB) ([]LabelCount, error)
	FeedbackByMonth(ctx context.Context, tx *gorm.DB) ([]MonthCount, error)
	TopUpvoters(ctx context.Context, tx *gorm.DB, limit int) ([]UserFeedbackCount, error)

	TotalSearchedGames(ctx context.Context, tx *gorm.DB) (int64, error)
	TopSearchedGames(ctx context.Context, tx *gorm.DB, limit int) ([]LabelCount, error)
	SearchedGamesByCategory(ctx context.Context, tx *gorm.DB) ([]LabelCount, error)
	SearchedGamesBySubcategory(ctx context.Context, tx *gorm.DB) ([]LabelCount, error)
	GameSearchesByMonth(ctx context.Context, tx *gorm.DB) ([]MonthCount, error)

	TotalChats(ctx context.Context, tx *gorm.DB) (int64, error)
	ChatsByMonth(ctx context.Context, tx *gorm.DB) ([]MonthCount, error)
	ChatRelatedSplit(ctx context.Context, tx *gorm.DB) (RelatedSplit, error)
	TopQuestions(ctx context.Context, tx *gorm.DB, limit int) ([]QuestionCount, error)
}

type analyticsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnalyticsRepo(db *gorm.DB, baseLog *logger.Logger) AnalyticsRepo {
	return &analyticsRepo{db: db, log: baseLog.With("repo", "AnalyticsRepo")}
}

func (r *analyticsRepo) TotalUsers(ctx context.Context, tx *gorm.DB) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var count int64
	err := t.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`).
		Scan(&count).Error
	return count, err
}

func (r *analyticsRepo) UsersByGender(ctx context.Context, tx *gorm.DB) ([]LabelCount, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []LabelCount
	err := t.WithContext(ctx).
		Raw(`
			SELECT gender AS label, COUNT(*) AS count
			FROM users
			WHERE deleted_at IS NULL
			GROUP BY gender
			ORDER BY count DESC
		`).Scan(&out).Error
	return out, err
}

func (r *analyticsRepo) UsersByAge(ctx context.Context, tx *gorm.DB) ([]AgeCount, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []AgeCount
	err := t.WithContext(ctx).
		Raw(`
			SELECT age, COUNT(*) AS count
			FROM users
			WHERE deleted_at IS NULL
			GROUP BY age
			ORDER BY age ASC
		`).Scan(&out).Error
	return out, err
}

func (r *analyticsRepo) UserRegistrationsByMonth(ctx context.Context, tx *gorm.DB) ([]MonthCount, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []MonthCount
	err := t.WithContext(ctx).
		Raw(`
			SELECT date_trunc('month', registration_time) AS month, COUNT(*) AS count
			FROM users
			WHERE deleted_at IS NULL
			GROUP BY month
			ORDER BY month ASC
		`).Scan(&out).Error
	return out, err
}

func (r *analyticsRepo) TotalFeedback(ctx context.Context, tx *gorm.DB) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var count int64
	err := t.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM feedback`).
		Scan(&count).Error
	return count, err
}

func (r *analyticsRepo) FeedbackByType(ctx context.Context, tx *gorm.DB) ([]LabelCount, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []LabelCount
	err := t.WithContext(ctx).
		Raw(`
			SELECT feedback_type AS label, COUNT(*) AS count
			FROM feedback
			GROUP BY feedback_type
			ORDER BY count DESC
		`).Scan(&out).Error
	return out, err
}

func (r *analyticsRepo) FeedbackByMonth(ctx context.Context, tx *gorm.DB) ([]MonthCount, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []MonthCount
	err := t.WithContext(ctx).
		Raw(`
			SELECT date_trunc('month', feedback_time) AS month, COUNT(*) AS count
			FROM feedback
			GROUP BY month
			ORDER BY month ASC
		`).Scan(&out).Error
	return out, err
}

func (r *analyticsRepo) TopUpvoters(ctx context.Context, tx *gorm.DB, limit int) ([]UserFeedbackCount, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if limit <= 0 {
		limit = 10
	}
	var out []UserFeedbackCount
	err := t.WithContext(ctx).
		Raw(`
			SELECT u.user_name, COUNT(f.id) AS count
			FROM users u
			JOIN feedback f ON f.user_id = u.id
			WHERE f.feedback_type = 'up' AND u.deleted_at IS NULL
			GROUP BY u.user_name
			ORDER BY count DESC
			LIMIT ?
		`, limit).Scan(&out).Error
	return out, err
}

func (r *analyticsRepo) TotalSearchedGames(ctx context.Context, tx *gorm.DB) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var count int64
	err := t.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM searched_games`).
		Scan(&count).Error
	return count, err
}

func (r *analyticsRepo) TopSearchedGames(ctx context.Context, tx *gorm.DB, limit int) ([]LabelCount, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if limit <= 0 {
		limit = 10
	}
	var out []LabelCount
	err := t.WithContext(ctx).
		Raw(`
			SELECT game_name AS label, COUNT(*) AS count
			FROM searched_games
			GROUP BY game_name
			ORDER BY count DESC
			LIMIT ?
		`, limit).Scan(&out).Error
	return out, err
}

func (r *analyticsRepo) SearchedGamesByCategory(ctx context.Context, tx *gorm.DB) ([]LabelCount, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []LabelCount
	err := t.WithContext(ctx).
		Raw(`
			SELECT category AS label, COUNT(*) AS count
			FROM searched_games
			GROUP BY category
			ORDER BY count DESC
		`).Scan(&out).Error
	return out, err
}

func (r *analyticsRepo) SearchedGamesBySubcategory(ctx context.Context, tx *gorm.DB) ([]LabelCount, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []LabelCount
	err := t.WithContext(ctx).
		Raw(`
			SELECT subcategory AS label, COUNT(*) AS count
			FROM searched_games
			GROUP BY subcategory
			ORDER BY count DESC
		`).Scan(&out).Error
	return out, err
}

func (r *analyticsRepo) GameSearchesByMonth(ctx context.Context, tx *gorm.DB) ([]MonthCount, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []MonthCount
	err := t.WithContext(ctx).
		Raw(`
			SELECT date_trunc('month', searched_time) AS month, COUNT(*) AS count
			FROM searched_games
			GROUP BY month
			ORDER BY month ASC
		`).Scan(&out).Error
	return out, err
}

func (r *analyticsRepo) TotalChats(ctx context.Context, tx *gorm.DB) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var count int64
	err := t.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM chat_history`).
		Scan(&count).Error
	return count, err
}

func (r *analyticsRepo) ChatsByMonth(ctx context.Context, tx *gorm.DB) ([]MonthCount, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []MonthCount
	err := t.WithContext(ctx).
		Raw(`
			SELECT date_trunc('month', timestamp) AS month, COUNT(*) AS count
			FROM chat_history
			GROUP BY month
			ORDER BY month ASC
		`).Scan(&out).Error
	return out, err
}

func (r *analyticsRepo) ChatRelatedSplit(ctx context.Context, tx *gorm.DB) (RelatedSplit, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out RelatedSplit
	err := t.WithContext(ctx).
		Raw(`
			SELECT
				COUNT(*) FILTER (WHERE is_related)     AS related,
				COUNT(*) FILTER (WHERE NOT is_related) AS not_related
			FROM chat_history
		`).Scan(&out).Error
	return out, err
}

func (r *analyticsRepo) TopQuestions(ctx context.Context, tx *gorm.DB, limit int) ([]QuestionCount, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if limit <= 0 {
		limit = 10
	}
	var out []QuestionCount
	err := t.WithContext(ctx).
		Raw(`
			SELECT question, COUNT(*) AS count
			FROM chat_history
			GROUP BY question
			ORDER BY count DESC
			LIMIT ?
		`, limit).Scan(&out).Error
	return out, err
}
