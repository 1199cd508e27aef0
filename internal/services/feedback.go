package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/playdeck/gameguide-backend/internal/data/repos"
	types "github.com/playdeck/gameguide-backend/internal/domain"
	"github.com/playdeck/gameguide-backend/internal/pkg/ctxutil"
	"github.com/playdeck/gameguide-backend/internal/platform/logger"
)

var (
	ErrFeedbackNotFound = errors.New("feedback not found")
	ErrForbidden        = errors.New("forbidden")
)

// FeedbackService reads and updates the vote attached to a chat turn.
// Rows are created by the chat service; this only ever flips the type.
type FeedbackService interface {
	Get(ctx context.Context, id uuid.UUID) (*types.Feedback, error)
	UpdateType(ctx context.Context, id uuid.UUID, feedbackType string) (*types.Feedback, error)
}

type feedbackService struct {
	log          *logger.Logger
	feedbackRepo repos.FeedbackRepo
}

func NewFeedbackService(baseLog *logger.Logger, feedbackRepo repos.FeedbackRepo) FeedbackService {
	return &feedbackService{
		log:          baseLog.With("service", "FeedbackService"),
		feedbackRepo: feedbackRepo,
	}
}

func (s *feedbackService) Get(ctx context.Context, id uuid.UUID) (*types.Feedback, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}
	fb, err := s.feedbackRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load feedback: %w", err)
	}
	// Other users' rows read as absent.
	if fb == nil || fb.UserID != rd.UserID {
		return nil, ErrFeedbackNotFound
	}
	return fb, nil
}

func (s *feedbackService) UpdateType(ctx context.Context, id uuid.UUID, feedbackType string) (*types.Feedback, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}
	if !validFeedbackType(feedbackType) {
		return nil, fmt.Errorf("%w: feedbackType must be one of up, down, neutral", ErrInvalidInput)
	}

	fb, err := s.feedbackRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load feedback: %w", err)
	}
	if fb == nil {
		return nil, ErrFeedbackNotFound
	}
	if fb.UserID != rd.UserID {
		return nil, ErrForbidden
	}

	if err := s.feedbackRepo.UpdateType(ctx, nil, id, feedbackType); err != nil {
		return nil, fmt.Errorf("failed to update feedback: %w", err)
	}
	updated, err := s.feedbackRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload feedback: %w", err)
	}
	s.log.Info("feedback updated", "feedback_id", id, "feedback_type", feedbackType, "user_id", rd.UserID)
	return updated, nil
}

func validFeedbackType(feedbackType string) bool {
	for _, t := range types.FeedbackTypes {
		if feedbackType == t {
			return true
		}
	}
	return false
}
