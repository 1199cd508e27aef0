package services

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/playdeck/gameguide-backend/internal/platform/weaviate"
)

func TestSearchQueryShape(t *testing.T) {
	ai := &stubAI{}
	store := &stubVectorStore{searchNearFn: func(ctx context.Context, q weaviate.NearVectorQuery) ([]weaviate.Match, error) {
		return []weaviate.Match{
			{ID: "w-1", Properties: map[string]any{"gameId": "game-001", "gameName": "Uno", "playersMax": float64(10)}},
		}, nil
	}}
	svc := NewGameSearchService(testLogger(t), ai, store)

	hits := svc.Search(context.Background(), "card games for parties", 3)
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(hits))
	}
	if hits[0].GameID != "game-001" || hits[0].GameName != "Uno" || hits[0].PlayersMax != 10 {
		t.Errorf("decoded hit = %+v", hits[0])
	}
	if hits[0].StoreID != "w-1" {
		t.Errorf("store id = %q", hits[0].StoreID)
	}

	if len(ai.embedInputs) != 1 || !reflect.DeepEqual(ai.embedInputs[0], []string{"card games for parties"}) {
		t.Errorf("embed inputs = %v", ai.embedInputs)
	}
	q := store.lastQuery
	if q.Certainty != 0.70 {
		t.Errorf("certainty = %v, want 0.70", q.Certainty)
	}
	if q.Limit != 3 {
		t.Errorf("limit = %d, want 3", q.Limit)
	}
	if !reflect.DeepEqual(q.Fields, gameFields) {
		t.Errorf("fields = %v", q.Fields)
	}
	if !reflect.DeepEqual(q.Vector, []float32{0.1, 0.2, 0.3}) {
		t.Errorf("vector = %v", q.Vector)
	}
}

func TestSearchCertaintyOverride(t *testing.T) {
	t.Setenv("SEARCH_CERTAINTY", "0.85")
	store := &stubVectorStore{}
	svc := NewGameSearchService(testLogger(t), &stubAI{}, store)

	svc.Search(context.Background(), "anything", 1)
	if store.lastQuery.Certainty != 0.85 {
		t.Errorf("certainty = %v, want override 0.85", store.lastQuery.Certainty)
	}
}

func TestSearchDegradesToEmpty(t *testing.T) {
	t.Run("blank question", func(t *testing.T) {
		store := &stubVectorStore{}
		svc := NewGameSearchService(testLogger(t), &stubAI{}, store)
		if hits := svc.Search(context.Background(), "   ", 1); len(hits) != 0 {
			t.Errorf("hits = %v, want none", hits)
		}
		if store.searchCalls != 0 {
			t.Errorf("store searched %d times for blank input", store.searchCalls)
		}
	})

	t.Run("embed failure", func(t *testing.T) {
		ai := &stubAI{embedFn: func(ctx context.Context, inputs []string) ([][]float32, error) {
			return nil, fmt.Errorf("embeddings down")
		}}
		store := &stubVectorStore{}
		svc := NewGameSearchService(testLogger(t), ai, store)
		if hits := svc.Search(context.Background(), "question", 1); len(hits) != 0 {
			t.Errorf("hits = %v, want none", hits)
		}
		if store.searchCalls != 0 {
			t.Errorf("store searched %d times after embed failure", store.searchCalls)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		store := &stubVectorStore{searchNearFn: func(ctx context.Context, q weaviate.NearVectorQuery) ([]weaviate.Match, error) {
			return nil, fmt.Errorf("weaviate unreachable")
		}}
		svc := NewGameSearchService(testLogger(t), &stubAI{}, store)
		if hits := svc.Search(context.Background(), "question", 1); len(hits) != 0 {
			t.Errorf("hits = %v, want none", hits)
		}
	})
}

func TestSearchClampsK(t *testing.T) {
	store := &stubVectorStore{}
	svc := NewGameSearchService(testLogger(t), &stubAI{}, store)

	svc.Search(context.Background(), "question", 0)
	if store.lastQuery.Limit != 1 {
		t.Errorf("limit = %d, want clamp to 1", store.lastQuery.Limit)
	}
}
