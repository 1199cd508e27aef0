package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/playdeck/gameguide-backend/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, userName string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		UserName: userName,
		Gender:   types.GenderOther,
		Age:      30,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedFeedback(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, feedbackType string) *types.Feedback {
	tb.Helper()
	f := &types.Feedback{
		ID:           uuid.New(),
		UserID:       userID,
		FeedbackType: feedbackType,
		FeedbackTime: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(f).Error; err != nil {
		tb.Fatalf("seed feedback: %v", err)
	}
	return f
}

func SeedChatRecord(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, question string) *types.ChatRecord {
	tb.Helper()
	c := &types.ChatRecord{
		ID:                uuid.New(),
		UserID:            userID,
		Question:          question,
		RewrittenQuestion: question,
		Answer:            "answer",
		IsRelated:         true,
		Timestamp:         time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed chat record: %v", err)
	}
	return c
}

func SeedSearchedGame(tb testing.TB, ctx context.Context, tx *gorm.DB, gameID, gameName string) *types.SearchedGame {
	tb.Helper()
	g := &types.SearchedGame{
		GameID:       gameID,
		GameName:     gameName,
		Subcategory:  "Card Games",
		Level:        "Beginner",
		Category:     "Indoor",
		Attributes:   datatypes.JSON([]byte("{}")),
		SearchedTime: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed searched game: %v", err)
	}
	return g
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrString(v string) *string { return &v }
