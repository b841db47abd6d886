package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/clinicai/clinicai-api/internal/delivery/dto"
	"github.com/clinicai/clinicai-api/internal/domain/entity"
	"github.com/clinicai/clinicai-api/internal/gateway"
	"github.com/clinicai/clinicai-api/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePaymentGateway struct {
	mu   sync.Mutex
	paid bool
}

func (f *fakePaymentGateway) CreatePayment(ctx context.Context, orderCode string, amount decimal.Decimal) (*gateway.PaymentIntent, error) {
	return &gateway.PaymentIntent{
		OrderCode: orderCode,
		Amount:    amount,
		QRUrl:     "https://qr.example/" + orderCode,
	}, nil
}

func (f *fakePaymentGateway) CheckPayment(ctx context.Context, orderCode string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paid, nil
}

func (f *fakePaymentGateway) setPaid(paid bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paid = paid
}

type bookingFixture struct {
	users         *fakeUserRepo
	appointments  *fakeAppointmentRepo
	slots         *fakeTimeSlotRepo
	doctors       *fakeDoctorRepo
	notifications *fakeNotificationRepo
	quota         *service.SlotQuotaService
	sessions      *service.PaymentSessionService
	gateway       *fakePaymentGateway
	usecase       BookingUsecase

	patient *entity.User
	doctor  *entity.User
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	f := &bookingFixture{
		users:         newFakeUserRepo(),
		appointments:  newFakeAppointmentRepo(),
		slots:         newFakeTimeSlotRepo(),
		doctors:       newFakeDoctorRepo(),
		notifications: &fakeNotificationRepo{},
		gateway:       &fakePaymentGateway{},
	}
	f.patient = f.users.add(&entity.User{Role: entity.RolePatient, Email: "an@example.com", FullName: "Nguyễn Văn An"})
	f.doctor = f.users.add(&entity.User{Role: entity.RoleDoctor, Email: "mai@example.com", FullName: "BS. Mai"})
	f.doctors.profiles[f.doctor.ID] = &entity.DoctorProfile{
		UserID:          f.doctor.ID,
		Specialty:       "Tim mạch",
		ConsultationFee: decimal.NewFromInt(300000),
		User:            *f.doctor,
	}

	f.quota = quotaService(t)
	f.sessions = service.NewPaymentSessionServiceWithCadence(f.gateway, testLogger(), 2*time.Millisecond, 500)
	t.Cleanup(f.sessions.Shutdown)

	db := testDB(t)
	notifier := NewNotificationUsecase(db, testLogger(), f.notifications, f.users, newFakeAILogRepo())
	f.usecase = NewBookingUsecase(db, testLogger(), f.appointments, f.slots, f.doctors, f.quota, f.sessions, notifier)
	return f
}

func (f *bookingFixture) publishSlot(t *testing.T, channel entity.Channel, seats int) *entity.TimeSlot {
	t.Helper()

	slot := f.slots.add(&entity.TimeSlot{
		DoctorID:    f.doctor.ID,
		Date:        time.Now().UTC().AddDate(0, 0, 2),
		StartTime:   "09:00",
		EndTime:     "09:30",
		Channel:     channel,
		MaxPatients: seats,
		Status:      entity.SlotStatusAvailable,
	})
	require.NoError(t, f.quota.Prime(context.Background(), slot))
	return slot
}

func TestGuestBookingRequiresLogin(t *testing.T) {
	f := newBookingFixture(t)
	slot := f.publishSlot(t, entity.ChannelOffline, 1)

	_, err := f.usecase.Initiate(context.Background(), &dto.InitiateBookingRequest{SlotID: slot.ID})
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestDoctorCannotBook(t *testing.T) {
	f := newBookingFixture(t)
	slot := f.publishSlot(t, entity.ChannelOffline, 1)

	_, err := f.usecase.Initiate(authedCtx(f.doctor.ID, entity.RoleDoctor), &dto.InitiateBookingRequest{SlotID: slot.ID})
	assert.ErrorIs(t, err, ErrPatientOnly)
}

func TestOfflineBookingCommitsImmediately(t *testing.T) {
	f := newBookingFixture(t)
	slot := f.publishSlot(t, entity.ChannelOffline, 2)

	response, err := f.usecase.Initiate(authedCtx(f.patient.ID, entity.RolePatient), &dto.InitiateBookingRequest{SlotID: slot.ID})
	require.NoError(t, err)

	require.NotNil(t, response.Appointment)
	assert.Nil(t, response.Payment)
	assert.Equal(t, string(entity.AppointmentStatusPending), response.Appointment.Status)
	assert.Equal(t, "BS. Mai", response.Appointment.DoctorName)

	assert.Equal(t, 1, f.slots.slots[slot.ID].BookedCount)
	assert.Len(t, f.notifications.byRecipient(f.doctor.ID), 1)
}

func TestBookingUnknownSlot(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.usecase.Initiate(authedCtx(f.patient.ID, entity.RolePatient), &dto.InitiateBookingRequest{SlotID: uuid.New()})
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestBookingExhaustedQuotaRejected(t *testing.T) {
	f := newBookingFixture(t)
	slot := f.publishSlot(t, entity.ChannelOffline, 1)

	// The counter says full even though the row still looks open; the fast
	// gate must win and leave the database untouched.
	require.NoError(t, f.quota.Reserve(context.Background(), slot.ID))

	_, err := f.usecase.Initiate(authedCtx(f.patient.ID, entity.RolePatient), &dto.InitiateBookingRequest{SlotID: slot.ID})
	assert.ErrorIs(t, err, service.ErrSlotUnavailable)
	assert.Equal(t, 0, f.slots.slots[slot.ID].BookedCount)
	assert.Empty(t, f.appointments.appointments)
}

func TestOnlineBookingCommitsOnSettlement(t *testing.T) {
	f := newBookingFixture(t)
	slot := f.publishSlot(t, entity.ChannelOnline, 1)

	response, err := f.usecase.Initiate(authedCtx(f.patient.ID, entity.RolePatient), &dto.InitiateBookingRequest{SlotID: slot.ID})
	require.NoError(t, err)

	// An online booking hands back a payment session, not an appointment
	assert.Nil(t, response.Appointment)
	require.NotNil(t, response.Payment)
	assert.Empty(t, f.appointments.appointments)

	f.gateway.setPaid(true)

	done, err := f.sessions.Done(response.Payment.OrderCode)
	require.NoError(t, err)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("payment never settled")
	}

	assert.Len(t, f.appointments.appointments, 1)
	assert.Equal(t, 1, f.slots.slots[slot.ID].BookedCount)
	assert.Len(t, f.notifications.byRecipient(f.doctor.ID), 1)

	status, err := f.usecase.PaymentStatus(context.Background(), response.Payment.OrderCode)
	require.NoError(t, err)
	assert.Equal(t, string(service.SessionStatusSuccess), status.Status)
}

func TestCommitCompensatesWhenCreateFails(t *testing.T) {
	f := newBookingFixture(t)
	slot := f.publishSlot(t, entity.ChannelOffline, 1)
	f.appointments.createErr = errors.New("insert failed")

	_, err := f.usecase.Initiate(authedCtx(f.patient.ID, entity.RolePatient), &dto.InitiateBookingRequest{SlotID: slot.ID})
	require.Error(t, err)

	// Both the seat and the counter must be rolled back
	assert.Equal(t, 0, f.slots.slots[slot.ID].BookedCount)
	f.appointments.createErr = nil
	response, err := f.usecase.Initiate(authedCtx(f.patient.ID, entity.RolePatient), &dto.InitiateBookingRequest{SlotID: slot.ID})
	require.NoError(t, err)
	require.NotNil(t, response.Appointment)
}

func TestAbandonPaymentClosesSession(t *testing.T) {
	f := newBookingFixture(t)
	slot := f.publishSlot(t, entity.ChannelOnline, 1)

	response, err := f.usecase.Initiate(authedCtx(f.patient.ID, entity.RolePatient), &dto.InitiateBookingRequest{SlotID: slot.ID})
	require.NoError(t, err)
	require.NotNil(t, response.Payment)

	require.NoError(t, f.usecase.AbandonPayment(context.Background(), response.Payment.OrderCode))

	_, err = f.usecase.PaymentStatus(context.Background(), response.Payment.OrderCode)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)

	// The seat was never committed, so a fresh booking goes through
	assert.Empty(t, f.appointments.appointments)
	assert.Equal(t, 0, f.slots.slots[slot.ID].BookedCount)
}
