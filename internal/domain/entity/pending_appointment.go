package entity

import (
	"time"

	"github.com/google/uuid"
)

// PendingAppointment is the transient staging record held between booking
// intent and payment/confirmation. It is never persisted: it lives inside the
// payment session (online) or on the stack (offline) and is discarded once
// the booking is committed or abandoned.
type PendingAppointment struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	SlotID    uuid.UUID
	Doctor    DoctorSnapshot
	Date      time.Time
	Time      string
	Channel   Channel
}
