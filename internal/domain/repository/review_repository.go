package repository

import (
	"github.com/clinicai/clinicai-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(db *gorm.DB, review *entity.Review) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Review, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Review, error)
	FindByDoctorAndPatient(db *gorm.DB, doctorID, patientID uuid.UUID) (*entity.Review, error)
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
