package dto

import (
	"time"

	"github.com/google/uuid"
)

type TriageRequest struct {
	Symptoms string `json:"symptoms" validate:"required"`
}

type SpecialtySuggestionResponse struct {
	Specialty string `json:"specialty"`
	Reason    string `json:"reason"`
	RiskLevel string `json:"risk_level"`
}

type TriageResponse struct {
	Suggestions []SpecialtySuggestionResponse `json:"suggestions"`
	Doctors     []DoctorProfileResponse       `json:"doctors"`
}

type AILogResponse struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	UserQuery     string    `json:"user_query"`
	AIResponse    string    `json:"ai_response"`
	HumanResponse string    `json:"human_response,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type AnswerEscalationRequest struct {
	LogID    uuid.UUID `json:"log_id" validate:"required"`
	Response string    `json:"response" validate:"required"`
}

type AdminAlertRequest struct {
	RecipientID uuid.UUID `json:"recipient_id" validate:"required"`
	Message     string    `json:"message" validate:"required"`
}
