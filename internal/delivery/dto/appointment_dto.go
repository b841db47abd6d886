package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AppointmentResponse struct {
	ID              uuid.UUID       `json:"id"`
	PatientID       uuid.UUID       `json:"patient_id"`
	DoctorID        uuid.UUID       `json:"doctor_id"`
	SlotID          uuid.UUID       `json:"slot_id"`
	DoctorName      string          `json:"doctor_name"`
	DoctorSpecialty string          `json:"doctor_specialty"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
	Date            string          `json:"date"`
	Time            string          `json:"time"`
	Channel         string          `json:"channel"`
	Status          string          `json:"status"`
	StatusLabel     string          `json:"status_label"`
	MedicalRecordID *uuid.UUID      `json:"medical_record_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

type InitiateBookingRequest struct {
	SlotID uuid.UUID `json:"slot_id" validate:"required"`
}

// BookingInitiationResponse carries exactly one of the two fields: an
// appointment for offline bookings, a payment session for online ones.
type BookingInitiationResponse struct {
	Appointment *AppointmentResponse    `json:"appointment,omitempty"`
	Payment     *PaymentSessionResponse `json:"payment,omitempty"`
}

type PaymentSessionResponse struct {
	OrderCode       string          `json:"order_code"`
	Status          string          `json:"status"`
	ErrorMessage    string          `json:"error_message,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	QRUrl           string          `json:"qr_url,omitempty"`
	BankCode        string          `json:"bank_code,omitempty"`
	AccountNumber   string          `json:"account_number,omitempty"`
	AccountName     string          `json:"account_name,omitempty"`
	TransferContent string          `json:"transfer_content,omitempty"`
}
