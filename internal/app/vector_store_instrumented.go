package app

import (
	"context"
	"time"

	"github.com/playdeck/gameguide-backend/internal/platform/logger"
	"github.com/playdeck/gameguide-backend/internal/platform/weaviate"
)

// instrumentedVectorStore logs per-operation latency and status around the
// Weaviate client. Search latency dominates the ask path, so this is the
// first place to look when answers get slow.
type instrumentedVectorStore struct {
	log   *logger.Logger
	inner weaviate.VectorStore
}

func instrumentVectorStore(log *logger.Logger, inner weaviate.VectorStore) weaviate.VectorStore {
	if inner == nil {
		return nil
	}
	return &instrumentedVectorStore{
		log:   log.With("component", "VectorStore"),
		inner: inner,
	}
}

func (s *instrumentedVectorStore) Ready(ctx context.Context) error {
	start := time.Now()
	err := s.inner.Ready(ctx)
	s.observe("ready", err, time.Since(start))
	return err
}

func (s *instrumentedVectorStore) EnsureClass(ctx context.Context, def weaviate.ClassDefinition) (bool, error) {
	start := time.Now()
	created, err := s.inner.EnsureClass(ctx, def)
	s.observe("ensure_class", err, time.Since(start))
	return created, err
}

func (s *instrumentedVectorStore) Count(ctx context.Context) (int, error) {
	start := time.Now()
	n, err := s.inner.Count(ctx)
	s.observe("count", err, time.Since(start))
	return n, err
}

func (s *instrumentedVectorStore) PutObject(ctx context.Context, obj weaviate.Object) error {
	start := time.Now()
	err := s.inner.PutObject(ctx, obj)
	s.observe("put_object", err, time.Since(start))
	return err
}

func (s *instrumentedVectorStore) SearchNear(ctx context.Context, q weaviate.NearVectorQuery) ([]weaviate.Match, error) {
	start := time.Now()
	out, err := s.inner.SearchNear(ctx, q)
	s.observe("search_near", err, time.Since(start))
	return out, err
}

func (s *instrumentedVectorStore) ClassName() string { return s.inner.ClassName() }

func (s *instrumentedVectorStore) observe(operation string, err error, dur time.Duration) {
	if err != nil {
		s.log.Warn("weaviate operation failed",
			"operation", operation,
			"duration_ms", dur.Milliseconds(),
			"error", err,
		)
		return
	}
	s.log.Debug("weaviate operation",
		"operation", operation,
		"duration_ms", dur.Milliseconds(),
	)
}
