package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/playdeck/gameguide-backend/internal/data/repos"
	types "github.com/playdeck/gameguide-backend/internal/domain"
	"github.com/playdeck/gameguide-backend/internal/pkg/ctxutil"
	"github.com/playdeck/gameguide-backend/internal/platform/logger"
)

// QuestionLimitError rejects an ask once the user's persisted turn count
// reaches the cap. The text is the user-facing message.
type QuestionLimitError struct {
	Max int
}

func (e *QuestionLimitError) Error() string {
	return fmt.Sprintf("You have reached the maximum of %d questions allowed.", e.Max)
}

// ChatService runs the ask flow for the authenticated user and serves
// their history. Every persisted turn gets a neutral feedback row up
// front so the vote buttons always have a target.
type ChatService interface {
	Ask(ctx context.Context, question string) (*types.AskOutcome, error)
	History(ctx context.Context) ([]*types.ChatTurn, error)
	HistoryForUser(ctx context.Context, userID uuid.UUID) ([]*types.ChatTurn, error)
}

type chatService struct {
	log          *logger.Logger
	answer       AnswerService
	chatRepo     repos.ChatRepo
	feedbackRepo repos.FeedbackRepo
	maxQuestions int
	topK         int
}

func NewChatService(
	baseLog *logger.Logger,
	answer AnswerService,
	chatRepo repos.ChatRepo,
	feedbackRepo repos.FeedbackRepo,
	maxQuestions int,
	topK int,
) ChatService {
	if maxQuestions < 1 {
		maxQuestions = 3
	}
	if topK < 1 {
		topK = 1
	}
	return &chatService{
		log:          baseLog.With("service", "ChatService"),
		answer:       answer,
		chatRepo:     chatRepo,
		feedbackRepo: feedbackRepo,
		maxQuestions: maxQuestions,
		topK:         topK,
	}
}

func (s *chatService) Ask(ctx context.Context, question string) (*types.AskOutcome, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question required", ErrInvalidInput)
	}

	// The cap counts persisted turns, so it survives logout/login.
	count, err := s.chatRepo.CountByUserID(ctx, nil, rd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}
	if count >= int64(s.maxQuestions) {
		return nil, &QuestionLimitError{Max: s.maxQuestions}
	}

	result := s.answer.Answer(ctx, question, s.topK)

	out := &types.AskOutcome{AnswerResult: result}
	switch {
	case result.HasAnswers():
		for _, ans := range result.Answers {
			gameID := ans.GameID
			var gameIDPtr *string
			if gameID != "" {
				gameIDPtr = &gameID
			}
			turn, err := s.persistTurn(ctx, rd.UserID, question, result.RewrittenQuestion, ans.AnswerText, gameIDPtr, true)
			if err != nil {
				return nil, err
			}
			out.Turns = append(out.Turns, turn)
		}
	case result.IsRelated:
		turn, err := s.persistTurn(ctx, rd.UserID, question, result.RewrittenQuestion, result.Message, nil, true)
		if err != nil {
			return nil, err
		}
		out.Turns = append(out.Turns, turn)
	default:
		turn, err := s.persistTurn(ctx, rd.UserID, question, result.RewrittenQuestion, result.Message, nil, false)
		if err != nil {
			return nil, err
		}
		out.Turns = append(out.Turns, turn)
	}
	return out, nil
}

// persistTurn writes the neutral feedback row first, then the chat row
// pointing at it.
func (s *chatService) persistTurn(
	ctx context.Context,
	userID uuid.UUID,
	question, rewritten, answer string,
	gameID *string,
	isRelated bool,
) (types.AskTurn, error) {
	fb := &types.Feedback{
		UserID:       userID,
		FeedbackType: types.FeedbackNeutral,
		FeedbackTime: time.Now().UTC(),
	}
	created, err := s.feedbackRepo.Create(ctx, nil, []*types.Feedback{fb})
	if err != nil {
		return types.AskTurn{}, fmt.Errorf("failed to create feedback row: %w", err)
	}
	feedbackID := created[0].ID

	row := &types.ChatRecord{
		UserID:            userID,
		Question:          question,
		RewrittenQuestion: rewritten,
		Answer:            answer,
		GameID:            gameID,
		FeedbackID:        &feedbackID,
		IsRelated:         isRelated,
		Timestamp:         time.Now().UTC(),
	}
	rows, err := s.chatRepo.Create(ctx, nil, []*types.ChatRecord{row})
	if err != nil {
		return types.AskTurn{}, fmt.Errorf("failed to create chat row: %w", err)
	}

	turn := types.AskTurn{
		ChatID:     rows[0].ID,
		FeedbackID: feedbackID,
	}
	if gameID != nil {
		turn.GameID = *gameID
	}
	return turn, nil
}

func (s *chatService) History(ctx context.Context) ([]*types.ChatTurn, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}
	return s.HistoryForUser(ctx, rd.UserID)
}

// HistoryForUser joins the user's turns with their feedback state,
// oldest first. Turns without a feedback row read as neutral.
func (s *chatService) HistoryForUser(ctx context.Context, userID uuid.UUID) ([]*types.ChatTurn, error) {
	if userID == uuid.Nil {
		return []*types.ChatTurn{}, nil
	}
	rows, err := s.chatRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		if row.FeedbackID != nil {
			ids = append(ids, *row.FeedbackID)
		}
	}
	feedbackByID := map[uuid.UUID]string{}
	if len(ids) > 0 {
		fbs, err := s.feedbackRepo.GetByIDs(ctx, nil, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load feedback rows: %w", err)
		}
		for _, fb := range fbs {
			feedbackByID[fb.ID] = fb.FeedbackType
		}
	}

	turns := make([]*types.ChatTurn, 0, len(rows))
	for _, row := range rows {
		turn := &types.ChatTurn{ChatRecord: *row, FeedbackType: types.FeedbackNeutral}
		if row.FeedbackID != nil {
			if ft, ok := feedbackByID[*row.FeedbackID]; ok && ft != "" {
				turn.FeedbackType = ft
			}
		}
		turns = append(turns, turn)
	}
	return turns, nil
}
