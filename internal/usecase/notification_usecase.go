package usecase

import (
	"context"
	"errors"

	"github.com/clinicai/clinicai-api/internal/converter"
	"github.com/clinicai/clinicai-api/internal/delivery/dto"
	"github.com/clinicai/clinicai-api/internal/delivery/http/middleware"
	"github.com/clinicai/clinicai-api/internal/domain/entity"
	"github.com/clinicai/clinicai-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	// ErrAuthenticationRequired signals the caller must log in first; the
	// delivery layer turns it into a login redirect, not a hard failure.
	ErrAuthenticationRequired = errors.New("authentication required")

	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotificationNotOwned = errors.New("notification does not belong to you")
)

type NotificationUsecase interface {
	// Emit fans a domain event out to the recipient's mailbox. It never
	// fails the calling flow: an unknown recipient or a storage error is
	// logged and the event dropped.
	Emit(ctx context.Context, recipientID uuid.UUID, notifType entity.NotificationType, message string, relatedID *uuid.UUID)
	ListMine(ctx context.Context) (*dto.NotificationListResponse, error)
	// Open marks the notification read and, for human_response entries,
	// resolves the AI escalation log it points at.
	Open(ctx context.Context, notificationID uuid.UUID) (*dto.OpenNotificationResponse, error)
	MarkAllRead(ctx context.Context) error
	UnreadCount(ctx context.Context) (int64, error)
}

type notificationUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	aiLogRepo        repository.AIInteractionLogRepository
}

func NewNotificationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	aiLogRepo repository.AIInteractionLogRepository,
) NotificationUsecase {
	return &notificationUsecase{
		db:               db,
		log:              log,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		aiLogRepo:        aiLogRepo,
	}
}

func (u *notificationUsecase) Emit(ctx context.Context, recipientID uuid.UUID, notifType entity.NotificationType, message string, relatedID *uuid.UUID) {
	recipient, err := u.userRepo.FindByID(u.db.WithContext(ctx), recipientID)
	if err != nil {
		u.log.Warnf("Failed to resolve notification recipient %s, dropping event: %+v", recipientID, err)
		return
	}
	if recipient == nil {
		u.log.Warnf("Notification recipient %s does not exist, dropping %s event", recipientID, notifType)
		return
	}

	notification := &entity.Notification{
		RecipientID: recipientID,
		Type:        notifType,
		Message:     message,
		RelatedID:   relatedID,
	}

	if err := u.notificationRepo.Create(u.db.WithContext(ctx), notification); err != nil {
		u.log.Warnf("Failed to store %s notification for %s, dropping event: %+v", notifType, recipientID, err)
		return
	}

	u.log.Debugf("Notification emitted: type=%s recipient=%s", notifType, recipientID)
}

func (u *notificationUsecase) ListMine(ctx context.Context) (*dto.NotificationListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrAuthenticationRequired
	}

	notifications, err := u.notificationRepo.FindByRecipientID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to list notifications for %s: %+v", userID, err)
		return nil, err
	}

	unread, err := u.notificationRepo.CountUnread(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to count unread notifications for %s: %+v", userID, err)
		return nil, err
	}

	return &dto.NotificationListResponse{
		Notifications: converter.NotificationsToResponses(notifications),
		Total:         len(notifications),
		UnreadCount:   unread,
	}, nil
}

func (u *notificationUsecase) Open(ctx context.Context, notificationID uuid.UUID) (*dto.OpenNotificationResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrAuthenticationRequired
	}

	notification, err := u.notificationRepo.FindByID(u.db.WithContext(ctx), notificationID)
	if err != nil {
		u.log.Warnf("Failed to find notification %s: %+v", notificationID, err)
		return nil, err
	}
	if notification == nil {
		return nil, ErrNotificationNotFound
	}
	if notification.RecipientID != userID {
		return nil, ErrNotificationNotOwned
	}

	// Idempotent: zero affected rows just means it was already read
	if _, err := u.notificationRepo.MarkRead(u.db.WithContext(ctx), notificationID); err != nil {
		u.log.Warnf("Failed to mark notification %s read: %+v", notificationID, err)
		return nil, err
	}
	notification.Read = true

	response := &dto.OpenNotificationResponse{
		Notification: *converter.NotificationToResponse(notification),
	}

	// human_response entries carry the AI escalation they answer; surface it
	if notification.Type == entity.NotificationTypeHumanResponse && notification.RelatedID != nil {
		log, err := u.aiLogRepo.FindByID(u.db.WithContext(ctx), *notification.RelatedID)
		if err != nil {
			u.log.Warnf("Failed to resolve escalation log %s: %+v", *notification.RelatedID, err)
		} else if log != nil {
			response.EscalationLog = converter.AILogToResponse(log)
		}
	}

	return response, nil
}

func (u *notificationUsecase) MarkAllRead(ctx context.Context) error {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return ErrAuthenticationRequired
	}

	if _, err := u.notificationRepo.MarkAllRead(u.db.WithContext(ctx), userID); err != nil {
		u.log.Warnf("Failed to mark all notifications read for %s: %+v", userID, err)
		return err
	}
	return nil
}

func (u *notificationUsecase) UnreadCount(ctx context.Context) (int64, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return 0, ErrAuthenticationRequired
	}
	return u.notificationRepo.CountUnread(u.db.WithContext(ctx), userID)
}
