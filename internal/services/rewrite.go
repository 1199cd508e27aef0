package services

import (
	"context"
	"strings"

	"github.com/playdeck/gameguide-backend/internal/clients/openai"
	"github.com/playdeck/gameguide-backend/internal/platform/logger"
)

// RewriteService normalizes a raw user question before retrieval:
// spelling fixes, simplification, synonym broadening, negation handling,
// paraphrase.
type RewriteService interface {
	Rewrite(ctx context.Context, text string) string
}

type rewriteService struct {
	log *logger.Logger
	ai  openai.Client
}

func NewRewriteService(baseLog *logger.Logger, ai openai.Client) RewriteService {
	return &rewriteService{
		log: baseLog.With("service", "RewriteService"),
		ai:  ai,
	}
}

// Rewrite returns the model's rewrite, trimmed. A failed or empty rewrite
// returns the input unchanged; rewriting is an optimization and never
// blocks the pipeline.
func (s *rewriteService) Rewrite(ctx context.Context, text string) string {
	out, err := s.ai.Complete(ctx, rewriteQueryPrompt(s.log, text))
	if err != nil {
		s.log.Warn("query rewrite failed; keeping original question", "error", err)
		return text
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return text
	}
	return out
}
