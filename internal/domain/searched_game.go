package domain

import (
	"time"

	"gorm.io/datatypes"
)

// SearchedGame records that a catalog game was ever returned by search.
// Keyed by the catalog gameId; repeat matches leave the row untouched.
type SearchedGame struct {
	GameID       string         `gorm:"primaryKey;column:game_id" json:"game_id"`
	GameName     string         `gorm:"not null;column:game_name" json:"game_name"`
	Subcategory  string         `gorm:"column:subcategory" json:"subcategory"`
	Level        string         `gorm:"column:level" json:"level"`
	Category     string         `gorm:"column:category" json:"category"`
	Attributes   datatypes.JSON `gorm:"type:jsonb;column:attributes" json:"attributes"`
	SearchedTime time.Time      `gorm:"not null;default:now();column:searched_time" json:"searched_time"`
}

func (SearchedGame) TableName() string { return "searched_games" }
