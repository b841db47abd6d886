package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubmitReviewRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id" validate:"required"`
	Rating        float64   `json:"rating" validate:"required,gte=1,lte=5"`
	Comment       string    `json:"comment" validate:"omitempty"`
}

type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	Author    string    `json:"author"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
