package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/playdeck/gameguide-backend/internal/data/repos/testutil"
	types "github.com/playdeck/gameguide-backend/internal/domain"
	"gorm.io/datatypes"
)

func findLabel(rows []LabelCount, label string) int64 {
	for _, r := range rows {
		if r.Label == label {
			return r.Count
		}
	}
	return 0
}

func TestAnalyticsRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewAnalyticsRepo(db, testutil.Logger(t))

	baseUsers, err := repo.TotalUsers(ctx, tx)
	if err != nil {
		t.Fatalf("TotalUsers(base): %v", err)
	}
	baseFeedback, err := repo.TotalFeedback(ctx, tx)
	if err != nil {
		t.Fatalf("TotalFeedback(base): %v", err)
	}
	baseSearched, err := repo.TotalSearchedGames(ctx, tx)
	if err != nil {
		t.Fatalf("TotalSearchedGames(base): %v", err)
	}
	baseChats, err := repo.TotalChats(ctx, tx)
	if err != nil {
		t.Fatalf("TotalChats(base): %v", err)
	}
	baseSplit, err := repo.ChatRelatedSplit(ctx, tx)
	if err != nil {
		t.Fatalf("ChatRelatedSplit(base): %v", err)
	}

	u1 := &types.User{ID: uuid.New(), UserName: "An1" + uuid.NewString()[:8], Gender: types.GenderFemale, Age: 24}
	u2 := &types.User{ID: uuid.New(), UserName: "An2" + uuid.NewString()[:8], Gender: types.GenderMale, Age: 24}
	if err := tx.WithContext(ctx).Create([]*types.User{u1, u2}).Error; err != nil {
		t.Fatalf("seed users: %v", err)
	}

	testutil.SeedFeedback(t, ctx, tx, u1.ID, types.FeedbackUp)
	testutil.SeedFeedback(t, ctx, tx, u1.ID, types.FeedbackUp)
	testutil.SeedFeedback(t, ctx, tx, u2.ID, types.FeedbackDown)

	question := "How many players for " + uuid.NewString() + "?"
	for i := 0; i < 2; i++ {
		testutil.SeedChatRecord(t, ctx, tx, u1.ID, question)
	}
	off := &types.ChatRecord{ID: uuid.New(), UserID: u2.ID, Question: "Weather?", Answer: "n/a", IsRelated: false, Timestamp: time.Now().UTC()}
	if err := tx.WithContext(ctx).Create(off).Error; err != nil {
		t.Fatalf("seed unrelated chat: %v", err)
	}

	g1 := &types.SearchedGame{GameID: "an-" + uuid.NewString()[:8], GameName: "Charades", Subcategory: "Guessing Games", Level: "Beginner", Category: "Indoor", Attributes: datatypes.JSON([]byte(`{}`)), SearchedTime: time.Now().UTC()}
	g2 := &types.SearchedGame{GameID: "an-" + uuid.NewString()[:8], GameName: "Tag", Subcategory: "Running Games", Level: "Beginner", Category: "Indoor", Attributes: datatypes.JSON([]byte(`{}`)), SearchedTime: time.Now().UTC()}
	if err := tx.WithContext(ctx).Create([]*types.SearchedGame{g1, g2}).Error; err != nil {
		t.Fatalf("seed searched games: %v", err)
	}

	if total, err := repo.TotalUsers(ctx, tx); err != nil || total != baseUsers+2 {
		t.Fatalf("TotalUsers: err=%v total=%d want=%d", err, total, baseUsers+2)
	}
	if rows, err := repo.UsersByGender(ctx, tx); err != nil || findLabel(rows, types.GenderFemale) < 1 || findLabel(rows, types.GenderMale) < 1 {
		t.Fatalf("UsersByGender: err=%v rows=%v", err, rows)
	}
	ages, err := repo.UsersByAge(ctx, tx)
	if err != nil {
		t.Fatalf("UsersByAge: %v", err)
	}
	var age24 int64
	for _, a := range ages {
		if a.Age == 24 {
			age24 = a.Count
		}
	}
	if age24 < 2 {
		t.Fatalf("UsersByAge: age 24 count=%d rows=%v", age24, ages)
	}
	months, err := repo.UserRegistrationsByMonth(ctx, tx)
	if err != nil || len(months) == 0 {
		t.Fatalf("UserRegistrationsByMonth: err=%v len=%d", err, len(months))
	}
	for i := 1; i < len(months); i++ {
		if months[i].Month.Before(months[i-1].Month) {
			t.Fatalf("UserRegistrationsByMonth: not ascending: %v", months)
		}
	}

	if total, err := repo.TotalFeedback(ctx, tx); err != nil || total != baseFeedback+3 {
		t.Fatalf("TotalFeedback: err=%v total=%d want=%d", err, total, baseFeedback+3)
	}
	if rows, err := repo.FeedbackByType(ctx, tx); err != nil || findLabel(rows, types.FeedbackUp) < 2 || findLabel(rows, types.FeedbackDown) < 1 {
		t.Fatalf("FeedbackByType: err=%v rows=%v", err, rows)
	}
	if rows, err := repo.FeedbackByMonth(ctx, tx); err != nil || len(rows) == 0 {
		t.Fatalf("FeedbackByMonth: err=%v len=%d", err, len(rows))
	}
	upvoters, err := repo.TopUpvoters(ctx, tx, 10)
	if err != nil {
		t.Fatalf("TopUpvoters: %v", err)
	}
	var u1Ups int64
	for _, r := range upvoters {
		if r.UserName == u1.UserName {
			u1Ups = r.Count
		}
	}
	if u1Ups != 2 {
		t.Fatalf("TopUpvoters: count for %s = %d, want 2", u1.UserName, u1Ups)
	}

	if total, err := repo.TotalSearchedGames(ctx, tx); err != nil || total != baseSearched+2 {
		t.Fatalf("TotalSearchedGames: err=%v total=%d want=%d", err, total, baseSearched+2)
	}
	if rows, err := repo.TopSearchedGames(ctx, tx, 0); err != nil || findLabel(rows, "Charades") < 1 {
		t.Fatalf("TopSearchedGames: err=%v rows=%v", err, rows)
	}
	if rows, err := repo.SearchedGamesByCategory(ctx, tx); err != nil || findLabel(rows, "Indoor") < 2 {
		t.Fatalf("SearchedGamesByCategory: err=%v rows=%v", err, rows)
	}
	if rows, err := repo.SearchedGamesBySubcategory(ctx, tx); err != nil || findLabel(rows, "Guessing Games") < 1 {
		t.Fatalf("SearchedGamesBySubcategory: err=%v rows=%v", err, rows)
	}
	if rows, err := repo.GameSearchesByMonth(ctx, tx); err != nil || len(rows) == 0 {
		t.Fatalf("GameSearchesByMonth: err=%v len=%d", err, len(rows))
	}

	if total, err := repo.TotalChats(ctx, tx); err != nil || total != baseChats+3 {
		t.Fatalf("TotalChats: err=%v total=%d want=%d", err, total, baseChats+3)
	}
	if rows, err := repo.ChatsByMonth(ctx, tx); err != nil || len(rows) == 0 {
		t.Fatalf("ChatsByMonth: err=%v len=%d", err, len(rows))
	}
	split, err := repo.ChatRelatedSplit(ctx, tx)
	if err != nil {
		t.Fatalf("ChatRelatedSplit: %v", err)
	}
	if split.Related != baseSplit.Related+2 || split.NotRelated != baseSplit.NotRelated+1 {
		t.Fatalf("ChatRelatedSplit: got=%+v base=%+v", split, baseSplit)
	}
	questions, err := repo.TopQuestions(ctx, tx, 10)
	if err != nil {
		t.Fatalf("TopQuestions: %v", err)
	}
	var qCount int64
	for _, r := range questions {
		if r.Question == question {
			qCount = r.Count
		}
	}
	if qCount != 2 {
		t.Fatalf("TopQuestions: count for seeded question = %d, want 2", qCount)
	}
}
