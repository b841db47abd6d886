package repository

import (
	"github.com/clinicai/clinicai-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(db *gorm.DB, notification *entity.Notification) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Notification, error)
	FindByRecipientID(db *gorm.DB, recipientID uuid.UUID) ([]entity.Notification, error)
	// MarkRead sets read=true. Idempotent: marking an already-read
	// notification affects zero rows and is not an error.
	MarkRead(db *gorm.DB, id uuid.UUID) (int64, error)
	MarkAllRead(db *gorm.DB, recipientID uuid.UUID) (int64, error)
	CountUnread(db *gorm.DB, recipientID uuid.UUID) (int64, error)
}
