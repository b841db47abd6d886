package entity

import (
	"time"

	"github.com/google/uuid"
)

// Review represents a patient's rating of a doctor after a completed
// appointment. One review per (doctor, patient).
type Review struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID      uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID     uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	AppointmentID uuid.UUID `gorm:"type:uuid;not null" json:"appointment_id"`
	Author        string    `gorm:"type:varchar(255);not null" json:"author"`
	Rating        float64   `gorm:"not null" json:"rating"`
	Comment       string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Review) TableName() string {
	return "reviews"
}
