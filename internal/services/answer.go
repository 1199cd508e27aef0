package services

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/playdeck/gameguide-backend/internal/data/repos"
	types "github.com/playdeck/gameguide-backend/internal/domain"
	"github.com/playdeck/gameguide-backend/internal/platform/logger"
)

// User-facing pipeline messages. Fixed wording, asserted by tests.
const (
	notRelatedMessage = "Your question does not appear to be related to games. Please ask a game-related question."
	noMatchMessage    = "I couldn't find any games matching your question. Please try rephrasing or ask about another game."
)

// AnswerService runs the question pipeline: rewrite, relatedness gate,
// vector search, grounded generation, searched-game bookkeeping.
type AnswerService interface {
	Answer(ctx context.Context, question string, k int) types.AnswerResult
}

type answerService struct {
	log          *logger.Logger
	relatedness  RelatednessService
	rewrite      RewriteService
	search       GameSearchService
	generate     AnswerGenService
	searchedRepo repos.SearchedGameRepo
}

func NewAnswerService(
	baseLog *logger.Logger,
	relatedness RelatednessService,
	rewrite RewriteService,
	search GameSearchService,
	generate AnswerGenService,
	searchedRepo repos.SearchedGameRepo,
) AnswerService {
	return &answerService{
		log:          baseLog.With("service", "AnswerService"),
		relatedness:  relatedness,
		rewrite:      rewrite,
		search:       search,
		generate:     generate,
		searchedRepo: searchedRepo,
	}
}

// Answer never errors: every sub-step degrades to a safe default, so the
// result is always one of three well-formed outcomes (not related,
// related without a match, related with answers).
func (s *answerService) Answer(ctx context.Context, question string, k int) types.AnswerResult {
	// Rewritten exactly once; the same value feeds the second
	// relatedness check, the search, and the result.
	rewritten := s.rewrite.Rewrite(ctx, question)

	related := s.relatedness.IsGameRelated(ctx, question) || s.relatedness.IsGameRelated(ctx, rewritten)
	if !related {
		return types.AnswerResult{
			IsRelated:         false,
			Message:           notRelatedMessage,
			RewrittenQuestion: rewritten,
		}
	}

	hits := s.search.Search(ctx, rewritten, k)
	if len(hits) == 0 {
		return types.AnswerResult{
			IsRelated:         true,
			Message:           noMatchMessage,
			RewrittenQuestion: rewritten,
		}
	}

	answers := make([]types.Answer, 0, len(hits))
	for _, game := range hits {
		text := s.generate.Generate(ctx, game, rewritten)
		s.recordSearchedGame(ctx, game)
		answers = append(answers, types.Answer{
			GameName:    stringOr(game.GameName, "Unknown Game"),
			AnswerText:  text,
			GameID:      game.GameID,
			Subcategory: game.Subcategory,
			Level:       game.Level,
			Category:    game.Category,
		})
	}
	return types.AnswerResult{
		IsRelated:         true,
		Answers:           answers,
		RewrittenQuestion: rewritten,
	}
}

// recordSearchedGame persists the hit once per gameId; repeat matches are
// dropped by the repo. Persistence failures are logged, never surfaced.
func (s *answerService) recordSearchedGame(ctx context.Context, game types.GameRecord) {
	if game.GameID == "" {
		return
	}
	raw, err := json.Marshal(game)
	if err != nil {
		raw = []byte("{}")
	}
	row := &types.SearchedGame{
		GameID:       game.GameID,
		GameName:     game.GameName,
		Subcategory:  game.Subcategory,
		Level:        game.Level,
		Category:     game.Category,
		Attributes:   datatypes.JSON(raw),
		SearchedTime: time.Now().UTC(),
	}
	if err := s.searchedRepo.CreateIfAbsent(ctx, nil, row); err != nil {
		s.log.Warn("searched game record failed", "game_id", game.GameID, "error", err)
	}
}
