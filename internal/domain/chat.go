package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatRecord is one question/answer turn. Rejections and no-match turns
// are stored too, with the user-facing message as the answer text.
type ChatRecord struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID            uuid.UUID  `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Question          string     `gorm:"type:text;not null;column:question" json:"question"`
	RewrittenQuestion string     `gorm:"type:text;column:rewritten_question" json:"rewritten_question"`
	Answer            string     `gorm:"type:text;not null;column:answer" json:"answer"`
	GameID            *string    `gorm:"column:game_id" json:"game_id,omitempty"`
	FeedbackID        *uuid.UUID `gorm:"type:uuid;column:feedback_id" json:"feedback_id,omitempty"`
	IsRelated         bool       `gorm:"not null;default:false;column:is_related" json:"is_related"`
	Timestamp         time.Time  `gorm:"not null;default:now();index;column:timestamp" json:"timestamp"`
}

func (ChatRecord) TableName() string { return "chat_history" }

// ChatTurn is a history row joined with its feedback state.
type ChatTurn struct {
	ChatRecord
	FeedbackType string `json:"feedback_type"`
}

// AskTurn carries the ids a single persisted turn was stored under, so
// the client can target its feedback row.
type AskTurn struct {
	ChatID     uuid.UUID `json:"chat_id"`
	FeedbackID uuid.UUID `json:"feedback_id"`
	GameID     string    `json:"game_id,omitempty"`
}

// AskOutcome is the ask endpoint payload: the pipeline result plus one
// AskTurn per persisted row, in answer order.
type AskOutcome struct {
	AnswerResult
	Turns []AskTurn `json:"turns"`
}
