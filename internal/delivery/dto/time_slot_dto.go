package dto

import (
	"github.com/google/uuid"
)

type CreateTimeSlotRequest struct {
	// DoctorID is honored only for admin callers; doctors publish their own slots
	DoctorID    uuid.UUID `json:"doctor_id,omitempty"`
	Date        string    `json:"date" validate:"required"`
	StartTime   string    `json:"start_time" validate:"required"`
	EndTime     string    `json:"end_time" validate:"required"`
	Channel     string    `json:"channel" validate:"required,oneof=online offline"`
	MaxPatients int       `json:"max_patients" validate:"required,gte=1"`
}

type TimeSlotResponse struct {
	ID             uuid.UUID `json:"id"`
	DoctorID       uuid.UUID `json:"doctor_id"`
	Date           string    `json:"date"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
	Channel        string    `json:"channel"`
	MaxPatients    int       `json:"max_patients"`
	BookedCount    int       `json:"booked_count"`
	RemainingSeats int       `json:"remaining_seats"`
	Status         string    `json:"status"`
}
