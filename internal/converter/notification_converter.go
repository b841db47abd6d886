package converter

import (
	"github.com/clinicai/clinicai-api/internal/delivery/dto"
	"github.com/clinicai/clinicai-api/internal/domain/entity"
)

func NotificationToResponse(notification *entity.Notification) *dto.NotificationResponse {
	return &dto.NotificationResponse{
		ID:        notification.ID,
		Type:      string(notification.Type),
		Message:   notification.Message,
		RelatedID: notification.RelatedID,
		Read:      notification.Read,
		CreatedAt: notification.CreatedAt,
	}
}

func NotificationsToResponses(notifications []entity.Notification) []dto.NotificationResponse {
	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, *NotificationToResponse(&notifications[i]))
	}
	return responses
}
