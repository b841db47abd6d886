package entity

import (
	"time"

	"github.com/google/uuid"
)

// MedicalRecord is the SOAP-structured clinical note a doctor writes after a
// completed consultation. Exactly one record per appointment; the appointment
// keeps a back-reference via medical_record_id.
type MedicalRecord struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AppointmentID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"appointment_id"`
	PatientID     uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID      uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`

	// SOAP notes
	Subjective string `gorm:"type:text" json:"subjective"`
	Objective  string `gorm:"type:text" json:"objective"`
	Assessment string `gorm:"type:text;not null" json:"assessment"`
	Plan       string `gorm:"type:text" json:"plan"`

	ConsultationSummary string    `gorm:"type:text" json:"consultation_summary,omitempty"`
	RecordDate          time.Time `gorm:"type:date;not null" json:"record_date"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Prescriptions []Prescription     `gorm:"foreignKey:MedicalRecordID" json:"prescriptions,omitempty"`
	Attachments   []RecordAttachment `gorm:"foreignKey:MedicalRecordID" json:"attachments,omitempty"`
}

func (MedicalRecord) TableName() string {
	return "medical_records"
}

// Prescription is a single prescribed drug line on a medical record
type Prescription struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	MedicalRecordID uuid.UUID `gorm:"type:uuid;not null;index" json:"medical_record_id"`
	DrugName        string    `gorm:"type:varchar(255);not null" json:"drug_name"`
	Dosage          string    `gorm:"type:varchar(100)" json:"dosage"`
	Frequency       string    `gorm:"type:varchar(100)" json:"frequency"`
	Duration        string    `gorm:"type:varchar(100)" json:"duration"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}

// RecordAttachment is a file shared during the consultation, kept with the record
type RecordAttachment struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	MedicalRecordID uuid.UUID `gorm:"type:uuid;not null;index" json:"medical_record_id"`
	FileName        string    `gorm:"type:varchar(255);not null" json:"file_name"`
	FileURL         string    `gorm:"type:text;not null" json:"file_url"`
}

func (RecordAttachment) TableName() string {
	return "record_attachments"
}
