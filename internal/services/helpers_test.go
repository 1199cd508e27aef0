package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/playdeck/gameguide-backend/internal/domain"
	"github.com/playdeck/gameguide-backend/internal/platform/logger"
	"github.com/playdeck/gameguide-backend/internal/platform/weaviate"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

// stubAI scripts the model client. Complete routes on the prompt text so
// one stub can serve classify, rewrite, and generate calls in the same
// scenario. Call capture is mutex-guarded: catalog ingestion embeds
// concurrently.
type stubAI struct {
	completeFn func(ctx context.Context, prompt string) (string, error)
	embedFn    func(ctx context.Context, inputs []string) ([][]float32, error)

	mu              sync.Mutex
	completePrompts []string
	embedInputs     [][]string
}

func (s *stubAI) Complete(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.completePrompts = append(s.completePrompts, prompt)
	s.mu.Unlock()
	if s.completeFn == nil {
		return "", nil
	}
	return s.completeFn(ctx, prompt)
}

func (s *stubAI) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	s.mu.Lock()
	s.embedInputs = append(s.embedInputs, inputs)
	s.mu.Unlock()
	if s.embedFn == nil {
		out := make([][]float32, len(inputs))
		for i := range inputs {
			out[i] = []float32{0.1, 0.2, 0.3}
		}
		return out, nil
	}
	return s.embedFn(ctx, inputs)
}

// stubVectorStore scripts the vector store without HTTP.
type stubVectorStore struct {
	class string

	ensureClassFn func(ctx context.Context, def weaviate.ClassDefinition) (bool, error)
	countFn       func(ctx context.Context) (int, error)
	putObjectFn   func(ctx context.Context, obj weaviate.Object) error
	searchNearFn  func(ctx context.Context, q weaviate.NearVectorQuery) ([]weaviate.Match, error)

	ensureClassCalls int32
	countCalls       int32
	putCalls         int32
	searchCalls      int32
	lastQuery        weaviate.NearVectorQuery
}

func (s *stubVectorStore) Ready(ctx context.Context) error { return nil }

func (s *stubVectorStore) EnsureClass(ctx context.Context, def weaviate.ClassDefinition) (bool, error) {
	atomic.AddInt32(&s.ensureClassCalls, 1)
	if s.ensureClassFn == nil {
		return false, nil
	}
	return s.ensureClassFn(ctx, def)
}

func (s *stubVectorStore) Count(ctx context.Context) (int, error) {
	atomic.AddInt32(&s.countCalls, 1)
	if s.countFn == nil {
		return 0, nil
	}
	return s.countFn(ctx)
}

func (s *stubVectorStore) PutObject(ctx context.Context, obj weaviate.Object) error {
	atomic.AddInt32(&s.putCalls, 1)
	if s.putObjectFn == nil {
		return nil
	}
	return s.putObjectFn(ctx, obj)
}

func (s *stubVectorStore) SearchNear(ctx context.Context, q weaviate.NearVectorQuery) ([]weaviate.Match, error) {
	atomic.AddInt32(&s.searchCalls, 1)
	s.lastQuery = q
	if s.searchNearFn == nil {
		return nil, nil
	}
	return s.searchNearFn(ctx, q)
}

func (s *stubVectorStore) ClassName() string {
	if s.class == "" {
		return "Game"
	}
	return s.class
}

// Component stubs for orchestrator tests.

type stubRelatedness struct {
	verdict func(text string) bool
	calls   []string
}

func (s *stubRelatedness) IsGameRelated(ctx context.Context, text string) bool {
	s.calls = append(s.calls, text)
	if s.verdict == nil {
		return false
	}
	return s.verdict(text)
}

type stubRewrite struct {
	out string
}

func (s *stubRewrite) Rewrite(ctx context.Context, text string) string {
	if s.out == "" {
		return text
	}
	return s.out
}

type stubGameSearch struct {
	hits  []types.GameRecord
	calls int
	gotQ  string
	gotK  int
}

func (s *stubGameSearch) Search(ctx context.Context, text string, k int) []types.GameRecord {
	s.calls++
	s.gotQ = text
	s.gotK = k
	return s.hits
}

type stubAnswerGen struct {
	generate func(game types.GameRecord, question string) string
}

func (s *stubAnswerGen) Generate(ctx context.Context, game types.GameRecord, question string) string {
	if s.generate == nil {
		return "about " + game.GameID
	}
	return s.generate(game, question)
}

type stubAnswerService struct {
	result types.AnswerResult
	calls  int
	gotQ   string
	gotK   int
}

func (s *stubAnswerService) Answer(ctx context.Context, question string, k int) types.AnswerResult {
	s.calls++
	s.gotQ = question
	s.gotK = k
	return s.result
}

// In-memory repos. The tx argument is accepted and ignored, matching the
// nil-tx calls the services make.

type memUserRepo struct {
	users     map[uuid.UUID]*types.User
	createErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[uuid.UUID]*types.User{}}
}

func (m *memUserRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.User) ([]*types.User, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	for _, u := range rows {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		m.users[u.ID] = u
	}
	return rows, nil
}

func (m *memUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.User, error) {
	return m.users[id], nil
}

func (m *memUserRepo) GetByUserName(ctx context.Context, tx *gorm.DB, userName string) (*types.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.UserName, userName) {
			return u, nil
		}
	}
	return nil, nil
}

type memChatRepo struct {
	rows []*types.ChatRecord
}

func (m *memChatRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ChatRecord) ([]*types.ChatRecord, error) {
	for _, r := range rows {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		m.rows = append(m.rows, r)
	}
	return rows, nil
}

func (m *memChatRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ChatRecord, error) {
	var out []*types.ChatRecord
	for _, r := range m.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (m *memChatRepo) CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var n int64
	for _, r := range m.rows {
		if r.UserID == userID {
			n++
		}
	}
	return n, nil
}

type memFeedbackRepo struct {
	rows map[uuid.UUID]*types.Feedback
}

func newMemFeedbackRepo() *memFeedbackRepo {
	return &memFeedbackRepo{rows: map[uuid.UUID]*types.Feedback{}}
}

func (m *memFeedbackRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Feedback) ([]*types.Feedback, error) {
	for _, r := range rows {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		m.rows[r.ID] = r
	}
	return rows, nil
}

func (m *memFeedbackRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Feedback, error) {
	return m.rows[id], nil
}

func (m *memFeedbackRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Feedback, error) {
	var out []*types.Feedback
	for _, id := range ids {
		if r, ok := m.rows[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memFeedbackRepo) UpdateType(ctx context.Context, tx *gorm.DB, id uuid.UUID, feedbackType string) error {
	if r, ok := m.rows[id]; ok {
		r.FeedbackType = feedbackType
	}
	return nil
}

type memSearchedGameRepo struct {
	rows        map[string]*types.SearchedGame
	createCalls int
}

func newMemSearchedGameRepo() *memSearchedGameRepo {
	return &memSearchedGameRepo{rows: map[string]*types.SearchedGame{}}
}

func (m *memSearchedGameRepo) CreateIfAbsent(ctx context.Context, tx *gorm.DB, row *types.SearchedGame) error {
	m.createCalls++
	if _, ok := m.rows[row.GameID]; ok {
		return nil
	}
	m.rows[row.GameID] = row
	return nil
}

func (m *memSearchedGameRepo) GetByGameID(ctx context.Context, tx *gorm.DB, gameID string) (*types.SearchedGame, error) {
	return m.rows[gameID], nil
}
