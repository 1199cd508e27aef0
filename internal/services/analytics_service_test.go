package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/playdeck/gameguide-backend/internal/data/repos"
)

// stubAnalyticsRepo returns canned aggregates.
type stubAnalyticsRepo struct {
	gotTopN []int
}

func (s *stubAnalyticsRepo) TotalUsers(ctx context.Context, tx *gorm.DB) (int64, error) {
	return 7, nil
}
func (s *stubAnalyticsRepo) UsersByGender(ctx context.Context, tx *gorm.DB) ([]repos.LabelCount, error) {
	return []repos.LabelCount{{Label: "Female", Count: 4}, {Label: "Male", Count: 3}}, nil
}
func (s *stubAnalyticsRepo) UsersByAge(ctx context.Context, tx *gorm.DB) ([]repos.AgeCount, error) {
	return []repos.AgeCount{{Age: 25, Count: 2}}, nil
}
func (s *stubAnalyticsRepo) UserRegistrationsByMonth(ctx context.Context, tx *gorm.DB) ([]repos.MonthCount, error) {
	return []repos.MonthCount{{Month: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), Count: 7}}, nil
}
func (s *stubAnalyticsRepo) TotalFeedback(ctx context.Context, tx *gorm.DB) (int64, error) {
	return 5, nil
}
func (s *stubAnalyticsRepo) FeedbackByType(ctx context.Context, tx *gorm.DB) ([]repos.LabelCount, error) {
	return []repos.LabelCount{{Label: "up", Count: 3}, {Label: "neutral", Count: 2}}, nil
}
func (s *stubAnalyticsRepo) FeedbackByMonth(ctx context.Context, tx *gorm.DB) ([]repos.MonthCount, error) {
	return nil, nil
}
func (s *stubAnalyticsRepo) TopUpvoters(ctx context.Context, tx *gorm.DB, limit int) ([]repos.UserFeedbackCount, error) {
	s.gotTopN = append(s.gotTopN, limit)
	return []repos.UserFeedbackCount{{UserName: "player1", Count: 3}}, nil
}
func (s *stubAnalyticsRepo) TotalSearchedGames(ctx context.Context, tx *gorm.DB) (int64, error) {
	return 2, nil
}
func (s *stubAnalyticsRepo) TopSearchedGames(ctx context.Context, tx *gorm.DB, limit int) ([]repos.LabelCount, error) {
	s.gotTopN = append(s.gotTopN, limit)
	return nil, nil
}
func (s *stubAnalyticsRepo) SearchedGamesByCategory(ctx context.Context, tx *gorm.DB) ([]repos.LabelCount, error) {
	return nil, nil
}
func (s *stubAnalyticsRepo) SearchedGamesBySubcategory(ctx context.Context, tx *gorm.DB) ([]repos.LabelCount, error) {
	return nil, nil
}
func (s *stubAnalyticsRepo) GameSearchesByMonth(ctx context.Context, tx *gorm.DB) ([]repos.MonthCount, error) {
	return nil, nil
}
func (s *stubAnalyticsRepo) TotalChats(ctx context.Context, tx *gorm.DB) (int64, error) {
	return 9, nil
}
func (s *stubAnalyticsRepo) ChatsByMonth(ctx context.Context, tx *gorm.DB) ([]repos.MonthCount, error) {
	return nil, nil
}
func (s *stubAnalyticsRepo) ChatRelatedSplit(ctx context.Context, tx *gorm.DB) (repos.RelatedSplit, error) {
	return repos.RelatedSplit{Related: 6, NotRelated: 3}, nil
}
func (s *stubAnalyticsRepo) TopQuestions(ctx context.Context, tx *gorm.DB, limit int) ([]repos.QuestionCount, error) {
	s.gotTopN = append(s.gotTopN, limit)
	return nil, nil
}

func TestAnalyticsReportsAssemble(t *testing.T) {
	repo := &stubAnalyticsRepo{}
	svc := NewAnalyticsService(testLogger(t), repo)
	ctx := context.Background()

	users, err := svc.Users(ctx)
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	if users.TotalUsers != 7 || len(users.ByGender) != 2 || len(users.RegistrationsByMonth) != 1 {
		t.Errorf("users report = %+v", users)
	}

	feedback, err := svc.Feedback(ctx)
	if err != nil {
		t.Fatalf("Feedback: %v", err)
	}
	if feedback.TotalFeedback != 5 || len(feedback.TopUpvoters) != 1 {
		t.Errorf("feedback report = %+v", feedback)
	}

	chats, err := svc.Chats(ctx)
	if err != nil {
		t.Fatalf("Chats: %v", err)
	}
	if chats.TotalChats != 9 || chats.RelatedSplit.Related != 6 || chats.RelatedSplit.NotRelated != 3 {
		t.Errorf("chats report = %+v", chats)
	}

	if _, err := svc.Games(ctx); err != nil {
		t.Fatalf("Games: %v", err)
	}

	for _, n := range repo.gotTopN {
		if n != 10 {
			t.Errorf("ranking limit = %d, want 10", n)
		}
	}
}

func TestSearchPerformanceTable(t *testing.T) {
	svc := NewAnalyticsService(testLogger(t), &stubAnalyticsRepo{})

	rows := svc.SearchPerformance()
	want := []SearchBenchmark{
		{Method: "Text Search with MINSEARCH", HitRate: 0.5519, MRR: 0.2861},
		{Method: "Text Search with Boosting", HitRate: 0.8146, MRR: 0.5880},
		{Method: "Vector Search with Weaviate", HitRate: 0.9515, MRR: 0.7799},
		{Method: "Hybrid Search", HitRate: 0.9715, MRR: 0.8177},
		{Method: "Document Reranking", HitRate: 0.9715, MRR: 0.8146},
	}
	if len(rows) != len(want) {
		t.Fatalf("rows = %d, want %d", len(rows), len(want))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row[%d] = %+v, want %+v", i, rows[i], want[i])
		}
	}

	// Callers get a copy, never the table itself.
	rows[0].Method = "mutated"
	if again := svc.SearchPerformance(); again[0].Method != "Text Search with MINSEARCH" {
		t.Error("benchmark table aliased to caller slice")
	}
}
