package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/playdeck/gameguide-backend/internal/clients/openai"
	"github.com/playdeck/gameguide-backend/internal/platform/logger"
	"github.com/playdeck/gameguide-backend/internal/platform/weaviate"
	"github.com/playdeck/gameguide-backend/internal/utils"
)

const (
	defaultDatasetPath = "data/game-dataset.csv"
	ingestConcurrency  = 4
)

var firstIntPattern = regexp.MustCompile(`\d+`)

// intGameFields are the Game properties stored as int; description is
// text and everything else string.
var intGameFields = map[string]bool{
	"playersMax": true,
	"duration":   true,
	"setupTime":  true,
}

// CatalogService makes the vector store serve searches: class present,
// dataset ingested. Safe to call repeatedly and from app startup.
type CatalogService interface {
	EnsureReady(ctx context.Context) error
}

type catalogService struct {
	log         *logger.Logger
	ai          openai.Client
	store       weaviate.VectorStore
	datasetPath string

	mu    sync.Mutex
	ready bool
}

func NewCatalogService(baseLog *logger.Logger, ai openai.Client, store weaviate.VectorStore) CatalogService {
	log := baseLog.With("service", "CatalogService")
	return &catalogService{
		log:         log,
		ai:          ai,
		store:       store,
		datasetPath: utils.GetEnv("GAME_DATASET_PATH", defaultDatasetPath, log),
	}
}

// EnsureReady creates the class when missing and ingests the dataset
// when the store is empty. Once both checks pass the service latches
// ready and later calls return immediately.
func (s *catalogService) EnsureReady(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return nil
	}

	if err := s.store.Ready(ctx); err != nil {
		return fmt.Errorf("vector store not ready: %w", err)
	}

	createdClass, err := s.store.EnsureClass(ctx, gameClassDefinition(s.store.ClassName()))
	if err != nil {
		return fmt.Errorf("failed to ensure class: %w", err)
	}
	if createdClass {
		s.log.Info("catalog class created", "class", s.store.ClassName())
	}

	count, err := s.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count catalog objects: %w", err)
	}
	if count == 0 {
		inserted, err := s.ingestDataset(ctx)
		if err != nil {
			return err
		}
		s.log.Info("catalog ingestion completed", "inserted", inserted, "path", s.datasetPath)
	}

	s.ready = true
	return nil
}

// gameClassDefinition builds the Game class from the searchable field
// list, vectorizer none: vectors are always supplied by the caller.
func gameClassDefinition(class string) weaviate.ClassDefinition {
	props := make([]weaviate.ClassProperty, 0, len(gameFields))
	for _, name := range gameFields {
		dataType := "string"
		if intGameFields[name] {
			dataType = "int"
		} else if name == "description" {
			dataType = "text"
		}
		props = append(props, weaviate.ClassProperty{Name: name, DataType: []string{dataType}})
	}
	return weaviate.ClassDefinition{
		Class:      class,
		Vectorizer: "none",
		Properties: props,
	}
}

// ingestDataset streams the CSV through a bounded worker group: each
// row is embedded on its description and stored with the vector. Bad
// rows are logged and skipped so one malformed line never aborts the
// load.
func (s *catalogService) ingestDataset(ctx context.Context) (int, error) {
	f, err := os.Open(s.datasetPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read dataset header: %w", err)
	}
	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.TrimSpace(name)] = i
	}

	var inserted int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ingestConcurrency)

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			s.log.Warn("skipping unreadable dataset row", "line", line, "error", err)
			continue
		}

		props, ok := normalizeGameRow(colIndex, record)
		if !ok {
			s.log.Warn("skipping dataset row without gameId", "line", line)
			continue
		}

		rowLine := line
		g.Go(func() error {
			description, _ := props["description"].(string)
			vectors, err := s.ai.Embed(gctx, []string{description})
			if err != nil || len(vectors) == 0 {
				s.log.Warn("failed to embed dataset row", "line", rowLine, "game_id", props["gameId"], "error", err)
				return nil
			}
			if err := s.store.PutObject(gctx, weaviate.Object{Properties: props, Vector: vectors[0]}); err != nil {
				s.log.Warn("failed to insert game", "line", rowLine, "game_name", props["gameName"], "error", err)
				return nil
			}
			atomic.AddInt32(&inserted, 1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(atomic.LoadInt32(&inserted)), fmt.Errorf("catalog ingestion aborted: %w", err)
	}
	return int(atomic.LoadInt32(&inserted)), nil
}

// normalizeGameRow maps one CSV record onto Game properties. Rows with
// no gameId are unusable; a missing gameName falls back to
// "Unknown Game"; int fields take the first integer found in the cell.
func normalizeGameRow(colIndex map[string]int, record []string) (map[string]any, bool) {
	cell := func(name string) string {
		i, ok := colIndex[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	if cell("gameId") == "" {
		return nil, false
	}

	props := make(map[string]any, len(gameFields))
	for _, name := range gameFields {
		raw := cell(name)
		switch {
		case intGameFields[name]:
			props[name] = firstInt(raw)
		case name == "gameName" && raw == "":
			props[name] = "Unknown Game"
		default:
			props[name] = raw
		}
	}
	return props, true
}

// firstInt pulls the first integer out of free-form cells like
// "2-6 players" or "about 30 minutes"; no digits means zero.
func firstInt(raw string) int {
	match := firstIntPattern.FindString(raw)
	if match == "" {
		return 0
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return n
}
