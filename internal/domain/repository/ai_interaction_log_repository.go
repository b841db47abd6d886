package repository

import (
	"github.com/clinicai/clinicai-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AIInteractionLogRepository interface {
	Create(db *gorm.DB, log *entity.AIInteractionLog) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.AIInteractionLog, error)
	FindNeedingReview(db *gorm.DB) ([]entity.AIInteractionLog, error)
	// Answer records the expert's response and flips the status to answered.
	// Returns affected rows; zero means the log was already answered.
	Answer(db *gorm.DB, id uuid.UUID, response string) (int64, error)
}
