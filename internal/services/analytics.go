package services

import (
	"context"
	"fmt"

	"github.com/playdeck/gameguide-backend/internal/data/repos"
	"github.com/playdeck/gameguide-backend/internal/platform/logger"
)

const analyticsTopN = 10

type UserAnalytics struct {
	TotalUsers           int64              `json:"total_users"`
	ByGender             []repos.LabelCount `json:"by_gender"`
	ByAge                []repos.AgeCount   `json:"by_age"`
	RegistrationsByMonth []repos.MonthCount `json:"registrations_by_month"`
}

type FeedbackAnalytics struct {
	TotalFeedback int64                     `json:"total_feedback"`
	ByType        []repos.LabelCount        `json:"by_type"`
	ByMonth       []repos.MonthCount        `json:"by_month"`
	TopUpvoters   []repos.UserFeedbackCount `json:"top_upvoters"`
}

type GameAnalytics struct {
	TotalSearchedGames int64              `json:"total_searched_games"`
	TopGames           []repos.LabelCount `json:"top_games"`
	ByCategory         []repos.LabelCount `json:"by_category"`
	BySubcategory      []repos.LabelCount `json:"by_subcategory"`
	SearchesByMonth    []repos.MonthCount `json:"searches_by_month"`
}

type ChatAnalytics struct {
	TotalChats   int64                 `json:"total_chats"`
	ByMonth      []repos.MonthCount    `json:"by_month"`
	RelatedSplit repos.RelatedSplit    `json:"related_split"`
	TopQuestions []repos.QuestionCount `json:"top_questions"`
}

// SearchBenchmark is one row of the fixed retrieval evaluation table.
type SearchBenchmark struct {
	Method  string  `json:"method"`
	HitRate float64 `json:"hitRate@10"`
	MRR     float64 `json:"mrr@10"`
}

// searchBenchmarks holds the offline evaluation results for the game
// dataset; the serving path is the plain vector search row.
var searchBenchmarks = []SearchBenchmark{
	{Method: "Text Search with MINSEARCH", HitRate: 0.5519, MRR: 0.2861},
	{Method: "Text Search with Boosting", HitRate: 0.8146, MRR: 0.5880},
	{Method: "Vector Search with Weaviate", HitRate: 0.9515, MRR: 0.7799},
	{Method: "Hybrid Search", HitRate: 0.9715, MRR: 0.8177},
	{Method: "Document Reranking", HitRate: 0.9715, MRR: 0.8146},
}

// AnalyticsService assembles the dashboard aggregates.
type AnalyticsService interface {
	Users(ctx context.Context) (*UserAnalytics, error)
	Feedback(ctx context.Context) (*FeedbackAnalytics, error)
	Games(ctx context.Context) (*GameAnalytics, error)
	Chats(ctx context.Context) (*ChatAnalytics, error)
	SearchPerformance() []SearchBenchmark
}

type analyticsService struct {
	log           *logger.Logger
	analyticsRepo repos.AnalyticsRepo
}

func NewAnalyticsService(baseLog *logger.Logger, analyticsRepo repos.AnalyticsRepo) AnalyticsService {
	return &analyticsService{
		log:           baseLog.With("service", "AnalyticsService"),
		analyticsRepo: analyticsRepo,
	}
}

func (s *analyticsService) Users(ctx context.Context) (*UserAnalytics, error) {
	out := &UserAnalytics{}
	var err error
	if out.TotalUsers, err = s.analyticsRepo.TotalUsers(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if out.ByGender, err = s.analyticsRepo.UsersByGender(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to bucket users by gender: %w", err)
	}
	if out.ByAge, err = s.analyticsRepo.UsersByAge(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to bucket users by age: %w", err)
	}
	if out.RegistrationsByMonth, err = s.analyticsRepo.UserRegistrationsByMonth(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to bucket registrations by month: %w", err)
	}
	return out, nil
}

func (s *analyticsService) Feedback(ctx context.Context) (*FeedbackAnalytics, error) {
	out := &FeedbackAnalytics{}
	var err error
	if out.TotalFeedback, err = s.analyticsRepo.TotalFeedback(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to count feedback: %w", err)
	}
	if out.ByType, err = s.analyticsRepo.FeedbackByType(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to bucket feedback by type: %w", err)
	}
	if out.ByMonth, err = s.analyticsRepo.FeedbackByMonth(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to bucket feedback by month: %w", err)
	}
	if out.TopUpvoters, err = s.analyticsRepo.TopUpvoters(ctx, nil, analyticsTopN); err != nil {
		return nil, fmt.Errorf("failed to rank upvoters: %w", err)
	}
	return out, nil
}

func (s *analyticsService) Games(ctx context.Context) (*GameAnalytics, error) {
	out := &GameAnalytics{}
	var err error
	if out.TotalSearchedGames, err = s.analyticsRepo.TotalSearchedGames(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to count searched games: %w", err)
	}
	if out.TopGames, err = s.analyticsRepo.TopSearchedGames(ctx, nil, analyticsTopN); err != nil {
		return nil, fmt.Errorf("failed to rank searched games: %w", err)
	}
	if out.ByCategory, err = s.analyticsRepo.SearchedGamesByCategory(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to bucket games by category: %w", err)
	}
	if out.BySubcategory, err = s.analyticsRepo.SearchedGamesBySubcategory(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to bucket games by subcategory: %w", err)
	}
	if out.SearchesByMonth, err = s.analyticsRepo.GameSearchesByMonth(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to bucket searches by month: %w", err)
	}
	return out, nil
}

func (s *analyticsService) Chats(ctx context.Context) (*ChatAnalytics, error) {
	out := &ChatAnalytics{}
	var err error
	if out.TotalChats, err = s.analyticsRepo.TotalChats(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to count chats: %w", err)
	}
	if out.ByMonth, err = s.analyticsRepo.ChatsByMonth(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to bucket chats by month: %w", err)
	}
	if out.RelatedSplit, err = s.analyticsRepo.ChatRelatedSplit(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to split chats by relatedness: %w", err)
	}
	if out.TopQuestions, err = s.analyticsRepo.TopQuestions(ctx, nil, analyticsTopN); err != nil {
		return nil, fmt.Errorf("failed to rank questions: %w", err)
	}
	return out, nil
}

func (s *analyticsService) SearchPerformance() []SearchBenchmark {
	out := make([]SearchBenchmark, len(searchBenchmarks))
	copy(out, searchBenchmarks)
	return out
}
