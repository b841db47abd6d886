package repository

import (
	"errors"

	"github.com/clinicai/clinicai-api/internal/domain/entity"
	domainRepo "github.com/clinicai/clinicai-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type notificationRepository struct{}

func NewNotificationRepository() domainRepo.NotificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) Create(db *gorm.DB, notification *entity.Notification) error {
	return db.Create(notification).Error
}

func (r *notificationRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Notification, error) {
	var notification entity.Notification
	err := db.Where("id = ?", id).First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) FindByRecipientID(db *gorm.DB, recipientID uuid.UUID) ([]entity.Notification, error) {
	var notifications []entity.Notification
	err := db.Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead only touches unread rows, which keeps the read flag monotonic and
// the operation idempotent.
func (r *notificationRepository) MarkRead(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Model(&entity.Notification{}).
		Where("id = ? AND read = false", id).
		Update("read", true)
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) MarkAllRead(db *gorm.DB, recipientID uuid.UUID) (int64, error) {
	result := db.Model(&entity.Notification{}).
		Where("recipient_id = ? AND read = false", recipientID).
		Update("read", true)
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) CountUnread(db *gorm.DB, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&entity.Notification{}).
		Where("recipient_id = ? AND read = false", recipientID).
		Count(&count).Error
	return count, err
}
