package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	redisclient "github.com/playdeck/gameguide-backend/internal/clients/redis"
	types "github.com/playdeck/gameguide-backend/internal/domain"
	"github.com/playdeck/gameguide-backend/internal/pkg/ctxutil"
)

const testJWTSecret = "test-secret"

func newAuthFixture(t *testing.T) (AuthService, *memUserRepo, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	t.Setenv("REDIS_ADDR", mr.Addr())
	t.Setenv("REDIS_PASSWORD", "")
	t.Setenv("SESSION_TTL_MINUTES", "15")

	sessions, err := redisclient.NewSessionStore(testLogger(t))
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}
	t.Cleanup(func() { _ = sessions.Close() })

	userRepo := newMemUserRepo()
	svc := NewAuthService(testLogger(t), userRepo, sessions, testJWTSecret, 24*time.Hour)
	return svc, userRepo, mr
}

func validUser(name string) *types.User {
	return &types.User{UserName: name, Gender: types.GenderFemale, Age: 30}
}

func TestRegisterUserValidation(t *testing.T) {
	cases := []struct {
		name string
		user *types.User
		want string
	}{
		{name: "empty username", user: &types.User{UserName: "  ", Gender: types.GenderMale, Age: 20}, want: "User Name cannot be empty."},
		{name: "symbols in username", user: &types.User{UserName: "bad name!", Gender: types.GenderMale, Age: 20}, want: "letters and numbers"},
		{name: "missing gender", user: &types.User{UserName: "player1", Age: 20}, want: "Gender must be selected."},
		{name: "unknown gender", user: &types.User{UserName: "player1", Gender: "robot", Age: 20}, want: "Gender must be selected."},
		{name: "age too low", user: &types.User{UserName: "player1", Gender: types.GenderOther, Age: 0}, want: "between 1 and 120"},
		{name: "age too high", user: &types.User{UserName: "player1", Gender: types.GenderOther, Age: 121}, want: "between 1 and 120"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, _ := newAuthFixture(t)
			_, err := svc.RegisterUser(context.Background(), tc.user)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %q, want mention of %q", err.Error(), tc.want)
			}
		})
	}
}

func TestRegisterUserSuccess(t *testing.T) {
	svc, userRepo, _ := newAuthFixture(t)

	created, err := svc.RegisterUser(context.Background(), validUser("Player1"))
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("created user has no id")
	}
	if created.RegistrationTime.IsZero() {
		t.Error("registration time not set")
	}
	if stored, _ := userRepo.GetByID(context.Background(), nil, created.ID); stored == nil {
		t.Error("user not persisted")
	}
}

func TestRegisterUserDuplicateIsCaseInsensitive(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	if _, err := svc.RegisterUser(context.Background(), validUser("Player1")); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.RegisterUser(context.Background(), validUser("PLAYER1"))
	if !errors.Is(err, ErrUserNameTaken) {
		t.Errorf("err = %v, want ErrUserNameTaken", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	_, _, err := svc.LoginUser(context.Background(), "nosuchuser")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

func TestLoginIssuesTokenBoundToSession(t *testing.T) {
	svc, _, mr := newAuthFixture(t)
	registered, err := svc.RegisterUser(context.Background(), validUser("Player1"))
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	token, user, err := svc.LoginUser(context.Background(), "player1")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("login returned user %v, want %v", user.ID, registered.ID)
	}

	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	claims := parsed.Claims.(*sessionClaims)
	if claims.Subject != registered.ID.String() {
		t.Errorf("token subject = %q", claims.Subject)
	}
	if claims.SessionID == "" {
		t.Fatal("token carries no session id")
	}
	if !mr.Exists("session:" + claims.SessionID) {
		t.Error("session key missing in redis")
	}
}

func TestSetContextFromTokenRoundTrip(t *testing.T) {
	svc, _, mr := newAuthFixture(t)
	registered, err := svc.RegisterUser(context.Background(), validUser("Player1"))
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	token, _, err := svc.LoginUser(context.Background(), "Player1")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}

	ctx, err := svc.SetContextFromToken(context.Background(), token)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		t.Fatal("no request data attached")
	}
	if rd.UserID != registered.ID || rd.UserName != "Player1" || rd.SessionID == "" {
		t.Errorf("request data = %+v", rd)
	}

	// The touch must restore the full inactivity window.
	key := "session:" + rd.SessionID
	mr.SetTTL(key, time.Minute)
	if _, err := svc.SetContextFromToken(context.Background(), token); err != nil {
		t.Fatalf("second SetContextFromToken: %v", err)
	}
	if ttl := mr.TTL(key); ttl != 15*time.Minute {
		t.Errorf("ttl after touch = %v, want 15m", ttl)
	}
}

func TestSetContextFromTokenExpiredSession(t *testing.T) {
	svc, _, mr := newAuthFixture(t)
	if _, err := svc.RegisterUser(context.Background(), validUser("Player1")); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	token, _, err := svc.LoginUser(context.Background(), "Player1")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}

	// Simulate the inactivity timeout by expiring the redis key.
	mr.FastForward(16 * time.Minute)

	if _, err := svc.SetContextFromToken(context.Background(), token); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("err = %v, want ErrSessionExpired", err)
	}
}

func TestSetContextFromTokenRejectsGarbage(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	if _, err := svc.SetContextFromToken(context.Background(), ""); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("empty token err = %v, want ErrNotAuthenticated", err)
	}
	if _, err := svc.SetContextFromToken(context.Background(), "not-a-jwt"); err == nil {
		t.Error("malformed token accepted")
	}

	// A token signed with another key must not verify.
	other := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.New().String()},
		SessionID:        "sid",
	})
	forged, err := other.SignedString([]byte("wrong-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.SetContextFromToken(context.Background(), forged); err == nil {
		t.Error("forged token accepted")
	}
}

func TestLogoutDeletesSession(t *testing.T) {
	svc, _, mr := newAuthFixture(t)
	if _, err := svc.RegisterUser(context.Background(), validUser("Player1")); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	token, _, err := svc.LoginUser(context.Background(), "Player1")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	ctx, err := svc.SetContextFromToken(context.Background(), token)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	sessionID := ctxutil.GetRequestData(ctx).SessionID

	if err := svc.LogoutUser(ctx); err != nil {
		t.Fatalf("LogoutUser: %v", err)
	}
	if mr.Exists("session:" + sessionID) {
		t.Error("session key still present after logout")
	}

	if _, err := svc.SetContextFromToken(context.Background(), token); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("token after logout err = %v, want ErrSessionExpired", err)
	}
}

func TestLogoutRequiresAuth(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	if err := svc.LogoutUser(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("err = %v, want ErrNotAuthenticated", err)
	}
}
