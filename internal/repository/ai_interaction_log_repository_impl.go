package repository

import (
	"errors"

	"github.com/clinicai/clinicai-api/internal/domain/entity"
	domainRepo "github.com/clinicai/clinicai-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type aiInteractionLogRepository struct{}

func NewAIInteractionLogRepository() domainRepo.AIInteractionLogRepository {
	return &aiInteractionLogRepository{}
}

func (r *aiInteractionLogRepository) Create(db *gorm.DB, log *entity.AIInteractionLog) error {
	return db.Create(log).Error
}

func (r *aiInteractionLogRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.AIInteractionLog, error) {
	var log entity.AIInteractionLog
	err := db.Where("id = ?", id).First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}

func (r *aiInteractionLogRepository) FindNeedingReview(db *gorm.DB) ([]entity.AIInteractionLog, error) {
	var logs []entity.AIInteractionLog
	err := db.Where("status = ?", entity.AILogStatusNeedsReview).
		Order("created_at ASC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *aiInteractionLogRepository) Answer(db *gorm.DB, id uuid.UUID, response string) (int64, error) {
	result := db.Model(&entity.AIInteractionLog{}).
		Where("id = ? AND status = ?", id, entity.AILogStatusNeedsReview).
		Updates(map[string]interface{}{
			"human_response": response,
			"status":         entity.AILogStatusAnswered,
		})
	return result.RowsAffected, result.Error
}
