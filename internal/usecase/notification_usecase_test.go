package usecase

import (
	"testing"

	"github.com/clinicai/clinicai-api/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notificationFixture struct {
	users         *fakeUserRepo
	notifications *fakeNotificationRepo
	aiLogs        *fakeAILogRepo
	usecase       NotificationUsecase

	user *entity.User
}

func newNotificationFixture(t *testing.T) *notificationFixture {
	t.Helper()

	f := &notificationFixture{
		users:         newFakeUserRepo(),
		notifications: &fakeNotificationRepo{},
		aiLogs:        newFakeAILogRepo(),
	}
	f.user = f.users.add(&entity.User{Role: entity.RolePatient, Email: "an@example.com", FullName: "Nguyễn Văn An"})
	f.usecase = NewNotificationUsecase(testDB(t), testLogger(), f.notifications, f.users, f.aiLogs)
	return f
}

func TestEmitDropsUnknownRecipient(t *testing.T) {
	f := newNotificationFixture(t)

	f.usecase.Emit(authedCtx(f.user.ID, entity.RolePatient), uuid.New(), entity.NotificationTypeAppointment, "Lịch hẹn mới", nil)
	assert.Empty(t, f.notifications.notifications)

	f.usecase.Emit(authedCtx(f.user.ID, entity.RolePatient), f.user.ID, entity.NotificationTypeAppointment, "Lịch hẹn mới", nil)
	assert.Len(t, f.notifications.notifications, 1)
}

func TestOpenMarksReadAndResolvesEscalation(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := authedCtx(f.user.ID, entity.RolePatient)

	aiLog := &entity.AIInteractionLog{
		UserID:        f.user.ID,
		UserQuery:     "Tôi bị chóng mặt",
		AIResponse:    entity.UncertainAnswerMarker,
		HumanResponse: "Bạn nên khám chuyên khoa Thần kinh.",
		Status:        entity.AILogStatusAnswered,
	}
	require.NoError(t, f.aiLogs.Create(nil, aiLog))

	f.usecase.Emit(ctx, f.user.ID, entity.NotificationTypeHumanResponse, "Chuyên gia đã trả lời.", &aiLog.ID)
	require.Len(t, f.notifications.notifications, 1)
	notification := f.notifications.notifications[0]

	response, err := f.usecase.Open(ctx, notification.ID)
	require.NoError(t, err)

	assert.True(t, response.Notification.Read)
	require.NotNil(t, response.EscalationLog)
	assert.Equal(t, "Bạn nên khám chuyên khoa Thần kinh.", response.EscalationLog.HumanResponse)

	// Re-opening is harmless
	_, err = f.usecase.Open(ctx, notification.ID)
	assert.NoError(t, err)
}

func TestOpenForeignNotificationRejected(t *testing.T) {
	f := newNotificationFixture(t)
	other := f.users.add(&entity.User{Role: entity.RolePatient, Email: "b@example.com", FullName: "Trần Thị B"})

	f.usecase.Emit(authedCtx(other.ID, entity.RolePatient), other.ID, entity.NotificationTypeAppointment, "Lịch hẹn mới", nil)
	require.Len(t, f.notifications.notifications, 1)

	_, err := f.usecase.Open(authedCtx(f.user.ID, entity.RolePatient), f.notifications.notifications[0].ID)
	assert.ErrorIs(t, err, ErrNotificationNotOwned)
}

func TestOpenUnknownNotification(t *testing.T) {
	f := newNotificationFixture(t)

	_, err := f.usecase.Open(authedCtx(f.user.ID, entity.RolePatient), uuid.New())
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestUnreadCountAndMarkAllRead(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := authedCtx(f.user.ID, entity.RolePatient)

	f.usecase.Emit(ctx, f.user.ID, entity.NotificationTypeAppointment, "Một", nil)
	f.usecase.Emit(ctx, f.user.ID, entity.NotificationTypeAIResult, "Hai", nil)
	f.usecase.Emit(ctx, f.user.ID, entity.NotificationTypeAdminAlert, "Ba", nil)

	count, err := f.usecase.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	require.NoError(t, f.usecase.MarkAllRead(ctx))
	count, err = f.usecase.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	// Idempotent on an already-clean mailbox
	require.NoError(t, f.usecase.MarkAllRead(ctx))

	list, err := f.usecase.ListMine(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, list.Total)
	assert.Zero(t, list.UnreadCount)
}
