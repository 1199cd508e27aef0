package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	redisclient "github.com/playdeck/gameguide-backend/internal/clients/redis"
	"github.com/playdeck/gameguide-backend/internal/data/repos"
	types "github.com/playdeck/gameguide-backend/internal/domain"
	"github.com/playdeck/gameguide-backend/internal/pkg/ctxutil"
	"github.com/playdeck/gameguide-backend/internal/platform/logger"
)

// Sentinel errors the HTTP layer maps onto status codes.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrUserNameTaken    = errors.New("Username already exists. Please choose a different username.")
	ErrUserNotFound     = errors.New("Username not found. Please register first.")
	ErrSessionExpired   = errors.New("Session timed out due to inactivity.")
	ErrNotAuthenticated = errors.New("not authenticated")
)

var userNamePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

const pgUniqueViolation = "23505"

type AuthService interface {
	RegisterUser(ctx context.Context, user *types.User) (*types.User, error)
	// LoginUser is passwordless: a known username opens a session and
	// returns the signed token for it.
	LoginUser(ctx context.Context, userName string) (string, *types.User, error)
	LogoutUser(ctx context.Context) error
	// SetContextFromToken verifies the token, requires a live session,
	// slides its TTL forward, and attaches RequestData to the context.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	SessionTTL() time.Duration
}

type authService struct {
	log          *logger.Logger
	userRepo     repos.UserRepo
	sessions     redisclient.SessionStore
	jwtSecretKey string
	tokenTTL     time.Duration
}

type sessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

func NewAuthService(
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	sessions redisclient.SessionStore,
	jwtSecretKey string,
	tokenTTL time.Duration,
) AuthService {
	return &authService{
		log:          baseLog.With("service", "AuthService"),
		userRepo:     userRepo,
		sessions:     sessions,
		jwtSecretKey: jwtSecretKey,
		tokenTTL:     tokenTTL,
	}
}

func (as *authService) RegisterUser(ctx context.Context, user *types.User) (*types.User, error) {
	if user == nil {
		return nil, fmt.Errorf("%w: user required", ErrInvalidInput)
	}
	user.UserName = strings.TrimSpace(user.UserName)
	if vErr := validateRegistration(user); vErr != nil {
		return nil, vErr
	}

	// ILIKE pre-check keeps the common duplicate friendly; the unique
	// index still backstops races.
	existing, err := as.userRepo.GetByUserName(ctx, nil, user.UserName)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, ErrUserNameTaken
	}

	user.ID = uuid.New()
	if user.RegistrationTime.IsZero() {
		user.RegistrationTime = time.Now().UTC()
	}
	created, err := as.userRepo.Create(ctx, nil, []*types.User{user})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserNameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	as.log.Info("user registered", "user_id", created[0].ID, "user_name", created[0].UserName)
	return created[0], nil
}

func (as *authService) LoginUser(ctx context.Context, userName string) (string, *types.User, error) {
	userName = strings.TrimSpace(userName)
	if userName == "" {
		return "", nil, fmt.Errorf("%w: User Name cannot be empty.", ErrInvalidInput)
	}

	user, err := as.userRepo.GetByUserName(ctx, nil, userName)
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up username: %w", err)
	}
	if user == nil {
		return "", nil, ErrUserNotFound
	}

	sessionID := uuid.New().String()
	sess := redisclient.Session{
		UserID:    user.ID,
		UserName:  user.UserName,
		CreatedAt: time.Now().UTC(),
	}
	if err := as.sessions.Create(ctx, sessionID, sess); err != nil {
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := as.signToken(user.ID, sessionID)
	if err != nil {
		// Best effort: don't leave an orphaned session behind.
		_ = as.sessions.Delete(ctx, sessionID)
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	as.log.Info("user logged in", "user_id", user.ID, "session_id", sessionID)
	return token, user, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.SessionID == "" {
		return ErrNotAuthenticated
	}
	if err := as.sessions.Delete(ctx, rd.SessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	as.log.Info("user logged out", "user_id", rd.UserID, "session_id", rd.SessionID)
	return nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if strings.TrimSpace(tokenString) == "" {
		return ctx, ErrNotAuthenticated
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return ctx, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid || claims.SessionID == "" {
		return ctx, ErrNotAuthenticated
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", err)
	}

	// The Redis key is the source of truth for expiry: a valid token
	// whose session lapsed is still an expired login.
	sess, err := as.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return ctx, fmt.Errorf("failed to load session: %w", err)
	}
	if sess == nil || sess.UserID != userID {
		return ctx, ErrSessionExpired
	}
	alive, err := as.sessions.Touch(ctx, claims.SessionID)
	if err != nil {
		as.log.Warn("session touch failed", "session_id", claims.SessionID, "error", err)
	} else if !alive {
		return ctx, ErrSessionExpired
	}

	rd := &ctxutil.RequestData{
		UserID:    userID,
		UserName:  sess.UserName,
		SessionID: claims.SessionID,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) SessionTTL() time.Duration {
	return as.sessions.TTL()
}

func (as *authService) signToken(userID uuid.UUID, sessionID string) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		SessionID: sessionID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func validateRegistration(user *types.User) error {
	var msgs []string
	if user.UserName == "" {
		msgs = append(msgs, "User Name cannot be empty.")
	} else if !userNamePattern.MatchString(user.UserName) {
		msgs = append(msgs, "User Name can only contain letters and numbers (no spaces or symbols).")
	}
	validGender := false
	for _, g := range types.Genders {
		if user.Gender == g {
			validGender = true
			break
		}
	}
	if !validGender {
		msgs = append(msgs, "Gender must be selected.")
	}
	if user.Age < 1 || user.Age > 120 {
		msgs = append(msgs, "Age must be between 1 and 120.")
	}
	if len(msgs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, " "))
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
