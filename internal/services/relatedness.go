package services

import (
	"context"
	"strings"

	"github.com/playdeck/gameguide-backend/internal/clients/openai"
	"github.com/playdeck/gameguide-backend/internal/platform/logger"
)

// RelatednessService decides whether a question concerns games at all.
type RelatednessService interface {
	IsGameRelated(ctx context.Context, text string) bool
}

type relatednessService struct {
	log *logger.Logger
	ai  openai.Client
}

func NewRelatednessService(baseLog *logger.Logger, ai openai.Client) RelatednessService {
	return &relatednessService{
		log: baseLog.With("service", "RelatednessService"),
		ai:  ai,
	}
}

// IsGameRelated reports whether the model answered yes. The verdict is a
// case-insensitive substring match on "yes" anywhere in the response;
// anything else, including an empty response, counts as no. Model or
// transport failures also count as no (fail closed).
func (s *relatednessService) IsGameRelated(ctx context.Context, text string) bool {
	resp, err := s.ai.Complete(ctx, classifyRelatedPrompt(s.log, text))
	if err != nil {
		s.log.Warn("relatedness check failed; treating question as not related", "error", err)
		return false
	}
	return strings.Contains(strings.ToLower(resp), "yes")
}
