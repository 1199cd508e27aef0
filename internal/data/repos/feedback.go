package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/playdeck/gameguide-backend/internal/domain"
	"github.com/playdeck/gameguide-backend/internal/platform/logger"
)

type FeedbackRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Feedback) ([]*types.Feedback, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Feedback, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Feedback, error)
	UpdateType(ctx context.Context, tx *gorm.DB, id uuid.UUID, feedbackType string) error
}

type feedbackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackRepo {
	return &feedbackRepo{db: db, log: baseLog.With("repo", "FeedbackRepo")}
}

func (r *feedbackRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Feedback) ([]*types.Feedback, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Feedback{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *feedbackRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Feedback, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *feedbackRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Feedback, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Feedback
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *feedbackRepo) UpdateType(ctx context.Context, tx *gorm.DB, id uuid.UUID, feedbackType string) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || feedbackType == "" {
		return nil
	}
	return t.WithContext(ctx).
		Model(&types.Feedback{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"feedback_type": feedbackType,
			"feedback_time": time.Now().UTC(),
		}).Error
}
