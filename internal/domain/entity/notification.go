package entity

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType classifies domain events fanned out to user mailboxes
type NotificationType string

const (
	NotificationTypeAppointment   NotificationType = "appointment"
	NotificationTypePrescription  NotificationType = "prescription"
	NotificationTypeFollowUp      NotificationType = "followUp"
	NotificationTypeAIResult      NotificationType = "aiResult"
	NotificationTypeHumanResponse NotificationType = "human_response"
	NotificationTypeAdminAlert    NotificationType = "admin_alert"
)

// Notification is a single mailbox entry for a user. The read flag is
// monotonic: it only ever moves from false to true.
type Notification struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RecipientID uuid.UUID        `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Type        NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	Message     string           `gorm:"type:text;not null" json:"message"`
	RelatedID   *uuid.UUID       `gorm:"type:uuid" json:"related_id,omitempty"`
	Read        bool             `gorm:"not null;default:false;index" json:"read"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
