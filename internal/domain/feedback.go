package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	FeedbackUp      = "up"
	FeedbackDown    = "down"
	FeedbackNeutral = "neutral"
)

var FeedbackTypes = []string{FeedbackUp, FeedbackDown, FeedbackNeutral}

// Feedback is one vote on a chat turn. Every turn gets a neutral row up
// front; the vote buttons only ever update it.
type Feedback struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	FeedbackType string    `gorm:"not null;column:feedback_type" json:"feedback_type"`
	FeedbackTime time.Time `gorm:"not null;default:now();column:feedback_time" json:"feedback_time"`
}

func (Feedback) TableName() string { return "feedback" }
