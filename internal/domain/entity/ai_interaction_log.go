package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AILogStatus tracks whether an AI chat interaction still needs a human answer
type AILogStatus string

const (
	AILogStatusAnswered    AILogStatus = "answered"
	AILogStatusNeedsReview AILogStatus = "needs_human_review"
)

// UncertainAnswerMarker is the phrase the assistant emits when it cannot
// answer; its presence escalates the interaction to a human expert.
const UncertainAnswerMarker = "Tôi không chắc về điều này"

// AIInteractionLog records a user's question to the AI assistant, the AI
// answer, and the expert's follow-up answer when one was needed. It is the
// target of human_response notifications via their related id.
type AIInteractionLog struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID        uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	UserQuery     string      `gorm:"type:text;not null" json:"user_query"`
	AIResponse    string      `gorm:"type:text;not null" json:"ai_response"`
	HumanResponse string      `gorm:"type:text" json:"human_response,omitempty"`
	Status        AILogStatus `gorm:"type:varchar(30);not null;index" json:"status"`
	CreatedAt     time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AIInteractionLog) TableName() string {
	return "ai_interaction_logs"
}

// NeedsHumanReview reports whether the AI answer contains the uncertainty marker
func NeedsHumanReview(aiResponse string) bool {
	return strings.Contains(aiResponse, UncertainAnswerMarker)
}
