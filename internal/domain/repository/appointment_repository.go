package repository

import (
	"github.com/clinicai/clinicai-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error)
	// TransitionStatus updates the status only when the current status is one
	// of the given from-states. Returns affected rows: 0 means the transition
	// lost a race or was not legal, and no side effects may fire.
	TransitionStatus(db *gorm.DB, id uuid.UUID, from []entity.AppointmentStatus, to entity.AppointmentStatus) (int64, error)
	LinkMedicalRecord(db *gorm.DB, id, recordID uuid.UUID) error
}
