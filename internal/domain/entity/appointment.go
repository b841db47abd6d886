package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Channel represents how the consultation takes place
type Channel string

const (
	ChannelOnline  Channel = "online"
	ChannelOffline Channel = "offline"
)

// IsValid checks whether the channel is a known value
func (c Channel) IsValid() bool {
	return c == ChannelOnline || c == ChannelOffline
}

// AppointmentStatus represents the lifecycle state of an appointment.
// Storage identifiers are stable English tokens; the Vietnamese labels shown
// to users come from Label() and are never persisted.
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// statusLabels maps internal identifiers to user-facing Vietnamese labels
var statusLabels = map[AppointmentStatus]string{
	AppointmentStatusPending:   "Chờ xác nhận",
	AppointmentStatusConfirmed: "Đã xác nhận",
	AppointmentStatusCompleted: "Đã hoàn thành",
	AppointmentStatusCancelled: "Đã hủy",
}

// Label returns the display label for the status
func (s AppointmentStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// ParseAppointmentStatus resolves a stored or displayed status string to its
// internal identifier. The legacy label "Sắp diễn ra" (upcoming) is an alias
// of confirmed and is folded into it here.
func ParseAppointmentStatus(raw string) (AppointmentStatus, bool) {
	switch raw {
	case string(AppointmentStatusPending), "Chờ xác nhận":
		return AppointmentStatusPending, true
	case string(AppointmentStatusConfirmed), "Đã xác nhận", "upcoming", "Sắp diễn ra":
		return AppointmentStatusConfirmed, true
	case string(AppointmentStatusCompleted), "Đã hoàn thành":
		return AppointmentStatusCompleted, true
	case string(AppointmentStatusCancelled), "Đã hủy":
		return AppointmentStatusCancelled, true
	}
	return "", false
}

// CanTransitionTo reports whether moving from s to next follows the lifecycle
// graph: pending -> confirmed -> completed, with cancellation allowed from
// pending or confirmed. Completed and cancelled are terminal.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case AppointmentStatusPending:
		return next == AppointmentStatusConfirmed || next == AppointmentStatusCancelled
	case AppointmentStatusConfirmed:
		return next == AppointmentStatusCompleted || next == AppointmentStatusCancelled
	default:
		return false
	}
}

// IsTerminal reports whether no further status mutation is allowed
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled
}

// DoctorSnapshot is a point-in-time copy of the doctor's identity and pricing,
// frozen onto the appointment at booking time. Later edits to the live doctor
// profile must not alter historical appointments.
type DoctorSnapshot struct {
	DoctorName      string          `gorm:"type:varchar(255);not null" json:"doctor_name"`
	DoctorSpecialty string          `gorm:"type:varchar(100);not null" json:"doctor_specialty"`
	ConsultationFee decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"consultation_fee"`
}

// Appointment represents a patient's booked consultation with a doctor
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	SlotID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"slot_id"`
	Doctor          DoctorSnapshot    `gorm:"embedded" json:"doctor"`
	Date            time.Time         `gorm:"type:date;not null" json:"date"`
	Time            string            `gorm:"type:time;not null" json:"time"`
	Channel         Channel           `gorm:"type:varchar(10);not null" json:"channel"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	MedicalRecordID *uuid.UUID        `gorm:"type:uuid" json:"medical_record_id,omitempty"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Slot TimeSlot `gorm:"foreignKey:SlotID" json:"slot,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsPending checks if the appointment is awaiting doctor confirmation
func (a *Appointment) IsPending() bool {
	return a.Status == AppointmentStatusPending
}

// IsConfirmed checks if the appointment has been confirmed by the doctor
func (a *Appointment) IsConfirmed() bool {
	return a.Status == AppointmentStatusConfirmed
}

// CanStartConsultation reports whether a video consultation may begin
func (a *Appointment) CanStartConsultation() bool {
	return a.Status == AppointmentStatusConfirmed
}
