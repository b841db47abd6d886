package dto

import (
	"time"

	"github.com/google/uuid"
)

type EndConsultationRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id" validate:"required"`
	Transcript    string    `json:"transcript" validate:"omitempty"`
}

type ConsultationEndResponse struct {
	Appointment AppointmentResponse `json:"appointment"`
	Summary     string              `json:"summary"`
	// NextStep is create_record for the doctor, view_summary for the patient
	NextStep string `json:"next_step"`
}

type PrescriptionRequest struct {
	DrugName  string `json:"drug_name" validate:"required,max=255"`
	Dosage    string `json:"dosage" validate:"omitempty,max=100"`
	Frequency string `json:"frequency" validate:"omitempty,max=100"`
	Duration  string `json:"duration" validate:"omitempty,max=100"`
}

type AttachmentRequest struct {
	FileName string `json:"file_name" validate:"required,max=255"`
	FileURL  string `json:"file_url" validate:"required,url"`
}

type SaveMedicalRecordRequest struct {
	AppointmentID       uuid.UUID             `json:"appointment_id" validate:"required"`
	Subjective          string                `json:"subjective" validate:"omitempty"`
	Objective           string                `json:"objective" validate:"omitempty"`
	Assessment          string                `json:"assessment" validate:"required"`
	Plan                string                `json:"plan" validate:"omitempty"`
	ConsultationSummary string                `json:"consultation_summary" validate:"omitempty"`
	Prescriptions       []PrescriptionRequest `json:"prescriptions" validate:"omitempty,dive"`
	Attachments         []AttachmentRequest   `json:"attachments" validate:"omitempty,dive"`
}

type PrescriptionResponse struct {
	ID        uuid.UUID `json:"id"`
	DrugName  string    `json:"drug_name"`
	Dosage    string    `json:"dosage,omitempty"`
	Frequency string    `json:"frequency,omitempty"`
	Duration  string    `json:"duration,omitempty"`
}

type AttachmentResponse struct {
	ID       uuid.UUID `json:"id"`
	FileName string    `json:"file_name"`
	FileURL  string    `json:"file_url"`
}

type MedicalRecordResponse struct {
	ID                  uuid.UUID              `json:"id"`
	AppointmentID       uuid.UUID              `json:"appointment_id"`
	PatientID           uuid.UUID              `json:"patient_id"`
	DoctorID            uuid.UUID              `json:"doctor_id"`
	Subjective          string                 `json:"subjective,omitempty"`
	Objective           string                 `json:"objective,omitempty"`
	Assessment          string                 `json:"assessment"`
	Plan                string                 `json:"plan,omitempty"`
	ConsultationSummary string                 `json:"consultation_summary,omitempty"`
	RecordDate          time.Time              `json:"record_date"`
	Prescriptions       []PrescriptionResponse `json:"prescriptions,omitempty"`
	Attachments         []AttachmentResponse   `json:"attachments,omitempty"`
}

type ICD10SuggestRequest struct {
	Summary string `json:"summary" validate:"required"`
}

type ICD10SuggestionResponse struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
