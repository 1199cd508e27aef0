package weaviate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/playdeck/gameguide-backend/internal/pkg/ctxutil"
	"github.com/playdeck/gameguide-backend/internal/platform/logger"
)

const (
	maxErrorBodyBytes    = 1024
	maxResponseBodyBytes = 1 << 20
)

// Object is a single record to store, always with a client-supplied vector
// (classes are created with vectorizer "none").
type Object struct {
	ID         string
	Properties map[string]any
	Vector     []float32
}

// Match is one nearVector hit: the Weaviate object id plus the requested
// property fields as returned by GraphQL.
type Match struct {
	ID         string
	Properties map[string]any
}

type NearVectorQuery struct {
	Vector    []float32
	Certainty float64
	Limit     int
	// Fields are the GraphQL property names to select; _additional { id }
	// is always appended.
	Fields []string
}

type ClassProperty struct {
	Name     string   `json:"name"`
	DataType []string `json:"dataType"`
}

type ClassDefinition struct {
	Class      string          `json:"class"`
	Vectorizer string          `json:"vectorizer"`
	Properties []ClassProperty `json:"properties"`
}

type VectorStore interface {
	Ready(ctx context.Context) error
	// EnsureClass creates the class when missing; reports whether it did.
	EnsureClass(ctx context.Context, def ClassDefinition) (bool, error)
	Count(ctx context.Context) (int, error)
	PutObject(ctx context.Context, obj Object) error
	SearchNear(ctx context.Context, q NearVectorQuery) ([]Match, error)
	ClassName() string
}

type vectorStore struct {
	log     *logger.Logger
	cfg     Config
	baseURL string
	http    *http.Client
}

func NewVectorStore(log *logger.Logger, cfg Config) (VectorStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	s := &vectorStore{
		log:     log.With("service", "WeaviateVectorStore"),
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.URL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
	}

	log.Info(
		"Weaviate vector store selected",
		"provider", "weaviate",
		"url", s.baseURL,
		"class", cfg.Class,
	)
	return s, nil
}

func (s *vectorStore) ClassName() string {
	if s == nil {
		return ""
	}
	return s.cfg.Class
}

func (s *vectorStore) Ready(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("weaviate vector store not initialized")
	}
	const op = "ready"

	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), http.MethodGet, s.baseURL+"/v1/.well-known/ready", nil)
	if err != nil {
		return opErr(op, OperationErrorTransportFailed, "build ready request failed", err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return classifyHTTPCallError(op, "weaviate ready check failed", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &OperationError{
			Code:       OperationErrorQueryFailed,
			Operation:  op,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("weaviate ready check returned status=%d", resp.StatusCode),
		}
	}
	return nil
}

func (s *vectorStore) EnsureClass(ctx context.Context, def ClassDefinition) (bool, error) {
	if s == nil {
		return false, fmt.Errorf("weaviate vector store not initialized")
	}
	const op = "ensure_class"

	if strings.TrimSpace(def.Class) == "" {
		def.Class = s.cfg.Class
	}
	if strings.TrimSpace(def.Vectorizer) == "" {
		def.Vectorizer = "none"
	}
	if def.Class != s.cfg.Class {
		return false, opErr(
			op,
			OperationErrorValidation,
			fmt.Sprintf("class mismatch: store configured for %q, definition is %q", s.cfg.Class, def.Class),
			nil,
		)
	}

	var schema struct {
		Classes []struct {
			Class string `json:"class"`
		} `json:"classes"`
	}
	if err := s.doJSON(ctx, op, http.MethodGet, "/v1/schema", nil, &schema); err != nil {
		return false, err
	}
	for _, c := range schema.Classes {
		if strings.EqualFold(strings.TrimSpace(c.Class), def.Class) {
			return false, nil
		}
	}

	if err := s.doJSON(ctx, op, http.MethodPost, "/v1/schema", def, nil); err != nil {
		return false, err
	}
	s.log.Info("Weaviate class created", "class", def.Class, "properties", len(def.Properties))
	return true, nil
}

func (s *vectorStore) Count(ctx context.Context) (int, error) {
	if s == nil {
		return 0, fmt.Errorf("weaviate vector store not initialized")
	}
	const op = "count"

	query := fmt.Sprintf("{ Aggregate { %s { meta { count } } } }", s.cfg.Class)
	data, err := s.doGraphQL(ctx, op, query)
	if err != nil {
		return 0, err
	}

	raw, ok := data["Aggregate"]
	if !ok || len(raw) == 0 {
		return 0, nil
	}
	var agg map[string][]struct {
		Meta struct {
			Count int `json:"count"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(raw, &agg); err != nil {
		return 0, opErr(op, OperationErrorDecodeFailed, "decode Aggregate payload failed", err)
	}
	rows := agg[s.cfg.Class]
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Meta.Count, nil
}

func (s *vectorStore) PutObject(ctx context.Context, obj Object) error {
	if s == nil {
		return fmt.Errorf("weaviate vector store not initialized")
	}
	const op = "put_object"

	if len(obj.Properties) == 0 {
		return opErr(op, OperationErrorValidation, "object properties required", nil)
	}
	if len(obj.Vector) == 0 {
		return opErr(op, OperationErrorValidation, "object vector required", nil)
	}

	body := map[string]any{
		"class":      s.cfg.Class,
		"properties": obj.Properties,
		"vector":     obj.Vector,
	}
	if id := strings.TrimSpace(obj.ID); id != "" {
		body["id"] = id
	}
	return s.doJSON(ctx, op, http.MethodPost, "/v1/objects", body, nil)
}

func (s *vectorStore) SearchNear(ctx context.Context, q NearVectorQuery) ([]Match, error) {
	if s == nil {
		return nil, fmt.Errorf("weaviate vector store not initialized")
	}
	const op = "search_near"

	if len(q.Vector) == 0 {
		return nil, opErr(op, OperationErrorValidation, "query vector required", nil)
	}
	if len(q.Fields) == 0 {
		return nil, opErr(op, OperationErrorValidation, "query fields required", nil)
	}
	if q.Certainty <= 0 || q.Certainty > 1 {
		return nil, opErr(
			op,
			OperationErrorValidation,
			fmt.Sprintf("certainty out of range: %v", q.Certainty),
			nil,
		)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 1
	}

	vecJSON, err := json.Marshal(q.Vector)
	if err != nil {
		return nil, opErr(op, OperationErrorEncodeFailed, "encode query vector failed", err)
	}

	query := fmt.Sprintf(
		"{ Get { %s(nearVector: {vector: %s, certainty: %s}, limit: %d) { %s _additional { id } } } }",
		s.cfg.Class,
		string(vecJSON),
		strconv.FormatFloat(q.Certainty, 'f', -1, 64),
		limit,
		strings.Join(q.Fields, " "),
	)

	data, err := s.doGraphQL(ctx, op, query)
	if err != nil {
		return nil, err
	}

	rawGet, ok := data["Get"]
	if !ok || len(rawGet) == 0 {
		return []Match{}, nil
	}
	var get map[string]json.RawMessage
	if err := json.Unmarshal(rawGet, &get); err != nil {
		return nil, opErr(op, OperationErrorDecodeFailed, "decode Get payload failed", err)
	}
	rawItems, ok := get[s.cfg.Class]
	if !ok || len(rawItems) == 0 || string(rawItems) == "null" {
		return []Match{}, nil
	}
	var items []map[string]any
	if err := json.Unmarshal(rawItems, &items); err != nil {
		return nil, opErr(op, OperationErrorDecodeFailed, "decode class results failed", err)
	}

	out := make([]Match, 0, len(items))
	for _, item := range items {
		m := Match{Properties: make(map[string]any, len(item))}
		for k, v := range item {
			if k == "_additional" {
				if add, ok := v.(map[string]any); ok {
					if id, ok := add["id"].(string); ok {
						m.ID = strings.TrimSpace(id)
					}
				}
				continue
			}
			m.Properties[k] = v
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *vectorStore) doGraphQL(ctx context.Context, op, query string) (map[string]json.RawMessage, error) {
	req := map[string]any{"query": query}

	var resp struct {
		Data   map[string]json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := s.doJSON(ctx, op, http.MethodPost, "/v1/graphql", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			if m := strings.TrimSpace(e.Message); m != "" {
				msgs = append(msgs, m)
			}
		}
		return nil, &OperationError{
			Code:      OperationErrorGraphQLFailed,
			Operation: op,
			Message:   strings.Join(msgs, "; "),
		}
	}
	return resp.Data, nil
}

func (s *vectorStore) doJSON(ctx context.Context, op, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(in); err != nil {
			return opErr(op, OperationErrorEncodeFailed, "encode request failed", err)
		}
		body = &buf
	}

	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), method, s.baseURL+path, body)
	if err != nil {
		return opErr(op, OperationErrorTransportFailed, "build request failed", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return classifyHTTPCallError(op, "weaviate request failed", err)
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if readErr != nil {
		return opErr(op, OperationErrorDecodeFailed, "read response failed", readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &OperationError{
			Code:       OperationErrorQueryFailed,
			Operation:  op,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("weaviate http status=%d body=%q", resp.StatusCode, truncateBody(raw)),
		}
	}

	if out == nil {
		return nil
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return opErr(op, OperationErrorDecodeFailed, "decode response failed", err)
	}
	return nil
}

func classifyHTTPCallError(op, message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return opErr(op, OperationErrorTimeout, message, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return opErr(op, OperationErrorTimeout, message, err)
	}
	return opErr(op, OperationErrorTransportFailed, message, err)
}

func truncateBody(raw []byte) string {
	if len(raw) <= maxErrorBodyBytes {
		return string(raw)
	}
	return string(raw[:maxErrorBodyBytes]) + "..."
}
