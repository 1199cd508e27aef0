package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/playdeck/gameguide-backend/internal/platform/logger"
)

const sessionKeyPrefix = "session:"

// Session is the server-side login state. The Redis TTL is the source of
// truth for expiry; every authenticated request slides it forward.
type Session struct {
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionStore interface {
	Create(ctx context.Context, sessionID string, s Session) error
	// Get returns nil, nil when the session is absent or expired.
	Get(ctx context.Context, sessionID string) (*Session, error)
	// Touch extends the TTL and reports whether the session still exists.
	Touch(ctx context.Context, sessionID string) (bool, error)
	Delete(ctx context.Context, sessionID string) error
	TTL() time.Duration
	Close() error
}

type sessionStore struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewSessionStore(log *logger.Logger) (SessionStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	ttlMinutes := 15
	if v := strings.TrimSpace(os.Getenv("SESSION_TTL_MINUTES")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			ttlMinutes = parsed
		}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &sessionStore{
		log: log.With("service", "RedisSessionStore"),
		rdb: rdb,
		ttl: time.Duration(ttlMinutes) * time.Minute,
	}, nil
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (s *sessionStore) Create(ctx context.Context, sessionID string, sess Session) error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("redis session store not initialized")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return fmt.Errorf("session id required")
	}
	if sess.UserID == uuid.Nil {
		return fmt.Errorf("session user id required")
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now().UTC()
	}

	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKey(sessionID), raw, s.ttl).Err()
}

func (s *sessionStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	if s == nil || s.rdb == nil {
		return nil, fmt.Errorf("redis session store not initialized")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, nil
	}

	raw, err := s.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		s.log.Warn("bad session payload", "session_id", sessionID, "error", err)
		return nil, nil
	}
	return &sess, nil
}

func (s *sessionStore) Touch(ctx context.Context, sessionID string) (bool, error) {
	if s == nil || s.rdb == nil {
		return false, fmt.Errorf("redis session store not initialized")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return false, nil
	}
	return s.rdb.Expire(ctx, sessionKey(sessionID), s.ttl).Result()
}

func (s *sessionStore) Delete(ctx context.Context, sessionID string) error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("redis session store not initialized")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil
	}
	return s.rdb.Del(ctx, sessionKey(sessionID)).Err()
}

func (s *sessionStore) TTL() time.Duration {
	if s == nil {
		return 0
	}
	return s.ttl
}

func (s *sessionStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
