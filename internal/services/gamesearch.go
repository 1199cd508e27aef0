package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/playdeck/gameguide-backend/internal/clients/openai"
	types "github.com/playdeck/gameguide-backend/internal/domain"
	"github.com/playdeck/gameguide-backend/internal/platform/logger"
	"github.com/playdeck/gameguide-backend/internal/platform/weaviate"
	"github.com/playdeck/gameguide-backend/internal/utils"
)

const defaultSearchCertainty = 0.70

// gameFields lists every Game property requested from the vector store,
// in the stored order. The catalog schema is derived from the same list.
var gameFields = []string{
	"gameId",
	"gameName",
	"alternateNames",
	"subcategory",
	"level",
	"description",
	"playersMax",
	"ageRange",
	"duration",
	"equipmentNeeded",
	"objective",
	"skillsDeveloped",
	"setupTime",
	"place",
	"physicalIntensityLevel",
	"educationalBenefits",
	"category",
}

// GameSearchService finds the catalog games nearest to a question.
type GameSearchService interface {
	// Search returns 0..k records, best first. Zero hits is a valid
	// outcome: everything below the certainty threshold is excluded.
	Search(ctx context.Context, text string, k int) []types.GameRecord
}

type gameSearchService struct {
	log       *logger.Logger
	ai        openai.Client
	store     weaviate.VectorStore
	certainty float64
}

func NewGameSearchService(baseLog *logger.Logger, ai openai.Client, store weaviate.VectorStore) GameSearchService {
	log := baseLog.With("service", "GameSearchService")
	return &gameSearchService{
		log:       log,
		ai:        ai,
		store:     store,
		certainty: utils.GetEnvAsFloat("SEARCH_CERTAINTY", defaultSearchCertainty, log),
	}
}

// Search never fails the pipeline: embedding or store errors are logged
// and come back as no matches.
func (s *gameSearchService) Search(ctx context.Context, text string, k int) []types.GameRecord {
	if strings.TrimSpace(text) == "" {
		return []types.GameRecord{}
	}
	if k < 1 {
		k = 1
	}

	vectors, err := s.ai.Embed(ctx, []string{text})
	if err != nil || len(vectors) == 0 {
		s.log.Warn("question embedding failed", "error", err)
		return []types.GameRecord{}
	}

	matches, err := s.store.SearchNear(ctx, weaviate.NearVectorQuery{
		Vector:    vectors[0],
		Certainty: s.certainty,
		Limit:     k,
		Fields:    gameFields,
	})
	if err != nil {
		s.log.Warn("vector search failed", "error", err)
		return []types.GameRecord{}
	}

	out := make([]types.GameRecord, 0, len(matches))
	for _, m := range matches {
		rec, err := decodeGameRecord(m)
		if err != nil {
			s.log.Warn("dropping undecodable search hit", "store_id", m.ID, "error", err)
			continue
		}
		out = append(out, rec)
	}
	return out
}

// decodeGameRecord maps a raw match onto GameRecord through the shared
// JSON tags; the property names in the store are the tag names.
func decodeGameRecord(m weaviate.Match) (types.GameRecord, error) {
	raw, err := json.Marshal(m.Properties)
	if err != nil {
		return types.GameRecord{}, err
	}
	var rec types.GameRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return types.GameRecord{}, err
	}
	rec.StoreID = m.ID
	return rec, nil
}
