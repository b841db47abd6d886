package handler

import (
	"net/http"

	"github.com/clinicai/clinicai-api/internal/usecase"
	"github.com/clinicai/clinicai-api/pkg/response"
)

type NotificationHandler struct {
	notificationUsecase usecase.NotificationUsecase
}

func NewNotificationHandler(notificationUsecase usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{
		notificationUsecase: notificationUsecase,
	}
}

func (h *NotificationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	result, err := h.notificationUsecase.ListMine(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get notifications")
		return
	}

	response.Success(w, http.StatusOK, "Notifications retrieved successfully", result)
}

func (h *NotificationHandler) Open(w http.ResponseWriter, r *http.Request) {
	notificationID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.notificationUsecase.Open(r.Context(), notificationID)
	if err != nil {
		switch err {
		case usecase.ErrNotificationNotFound:
			response.NotFound(w, "Notification not found")
		case usecase.ErrNotificationNotOwned:
			response.Forbidden(w, "Notification does not belong to you")
		default:
			response.InternalServerError(w, "Failed to open notification")
		}
		return
	}

	response.Success(w, http.StatusOK, "Notification opened successfully", result)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notificationUsecase.MarkAllRead(r.Context()); err != nil {
		response.InternalServerError(w, "Failed to mark notifications read")
		return
	}

	response.Success(w, http.StatusOK, "All notifications marked read", nil)
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.notificationUsecase.UnreadCount(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to count unread notifications")
		return
	}

	response.Success(w, http.StatusOK, "Unread count retrieved successfully", map[string]int64{"unread_count": count})
}
