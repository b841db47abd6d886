package dto

import (
	"time"

	"github.com/google/uuid"
)

type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	Message   string     `json:"message"`
	RelatedID *uuid.UUID `json:"related_id,omitempty"`
	Read      bool       `json:"read"`
	CreatedAt time.Time  `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
	UnreadCount   int64                  `json:"unread_count"`
}

// OpenNotificationResponse is the read-and-resolve result: the notification
// itself plus, for human_response entries, the escalation it answers.
type OpenNotificationResponse struct {
	Notification  NotificationResponse `json:"notification"`
	EscalationLog *AILogResponse       `json:"escalation_log,omitempty"`
}
