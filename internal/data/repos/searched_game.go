package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/playdeck/gameguide-backend/internal/domain"
	"github.com/playdeck/gameguide-backend/internal/platform/logger"
)

type SearchedGameRepo interface {
	// CreateIfAbsent inserts the row unless its game_id already exists.
	CreateIfAbsent(ctx context.Context, tx *gorm.DB, row *types.SearchedGame) error
	GetByGameID(ctx context.Context, tx *gorm.DB, gameID string) (*types.SearchedGame, error)
}

type searchedGameRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSearchedGameRepo(db *gorm.DB, baseLog *logger.Logger) SearchedGameRepo {
	return &searchedGameRepo{db: db, log: baseLog.With("repo", "SearchedGameRepo")}
}

func (r *searchedGameRepo) CreateIfAbsent(ctx context.Context, tx *gorm.DB, row *types.SearchedGame) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.GameID == "" {
		return nil
	}
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error
}

func (r *searchedGameRepo) GetByGameID(ctx context.Context, tx *gorm.DB, gameID string) (*types.SearchedGame, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if gameID == "" {
		return nil, nil
	}
	var out []*types.SearchedGame
	if err := t.WithContext(ctx).Where("game_id = ?", gameID).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}
