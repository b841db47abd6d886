package entity

import (
	"time"

	"github.com/google/uuid"
)

// SlotStatus represents the availability of a time slot
type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusFull      SlotStatus = "full"
	SlotStatusCancelled SlotStatus = "cancelled"
)

// TimeSlot represents a doctor-published bookable window with finite capacity
type TimeSlot struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Date        time.Time  `gorm:"type:date;not null;index" json:"date"`
	StartTime   string     `gorm:"type:time;not null" json:"start_time"`
	EndTime     string     `gorm:"type:time;not null" json:"end_time"`
	Channel     Channel    `gorm:"type:varchar(10);not null" json:"channel"`
	MaxPatients int        `gorm:"not null" json:"max_patients"`
	BookedCount int        `gorm:"not null;default:0" json:"booked_count"`
	Status      SlotStatus `gorm:"type:varchar(20);not null;default:'available';index" json:"status"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor       DoctorProfile `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Appointments []Appointment `gorm:"foreignKey:SlotID" json:"appointments,omitempty"`
}

func (TimeSlot) TableName() string {
	return "time_slots"
}

// RemainingSeats returns how many patients can still book this slot
func (s *TimeSlot) RemainingSeats() int {
	remaining := s.MaxPatients - s.BookedCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsBookable reports whether the slot can accept another booking
func (s *TimeSlot) IsBookable() bool {
	return s.Status == SlotStatusAvailable && s.BookedCount < s.MaxPatients
}

// CapacityInvariantHolds verifies booked_count never exceeds max_patients.
// A violation is a programming error, not a recoverable state.
func (s *TimeSlot) CapacityInvariantHolds() bool {
	return s.BookedCount <= s.MaxPatients
}
