package usecase

import (
	"testing"
	"time"

	"github.com/clinicai/clinicai-api/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appointmentFixture struct {
	users         *fakeUserRepo
	appointments  *fakeAppointmentRepo
	slots         *fakeTimeSlotRepo
	notifications *fakeNotificationRepo
	usecase       AppointmentUsecase

	patient *entity.User
	doctor  *entity.User
}

func newAppointmentFixture(t *testing.T) *appointmentFixture {
	t.Helper()

	f := &appointmentFixture{
		users:         newFakeUserRepo(),
		appointments:  newFakeAppointmentRepo(),
		slots:         newFakeTimeSlotRepo(),
		notifications: &fakeNotificationRepo{},
	}
	f.patient = f.users.add(&entity.User{Role: entity.RolePatient, Email: "an@example.com", FullName: "Nguyễn Văn An"})
	f.doctor = f.users.add(&entity.User{Role: entity.RoleDoctor, Email: "mai@example.com", FullName: "BS. Mai"})

	db := testDB(t)
	notifier := NewNotificationUsecase(db, testLogger(), f.notifications, f.users, newFakeAILogRepo())
	f.usecase = NewAppointmentUsecase(db, testLogger(), f.appointments, f.slots, quotaService(t), notifier)
	return f
}

func (f *appointmentFixture) bookedAppointment(status entity.AppointmentStatus) *entity.Appointment {
	slot := f.slots.add(&entity.TimeSlot{
		DoctorID:    f.doctor.ID,
		Date:        time.Now().UTC().AddDate(0, 0, 2),
		StartTime:   "09:00",
		EndTime:     "09:30",
		Channel:     entity.ChannelOnline,
		MaxPatients: 1,
		BookedCount: 1,
		Status:      entity.SlotStatusFull,
	})
	return f.appointments.add(&entity.Appointment{
		PatientID: f.patient.ID,
		DoctorID:  f.doctor.ID,
		SlotID:    slot.ID,
		Doctor:    entity.DoctorSnapshot{DoctorName: "BS. Mai"},
		Date:      slot.Date,
		Time:      slot.StartTime,
		Channel:   slot.Channel,
		Status:    status,
	})
}

func TestConfirmNotifiesPatientOnce(t *testing.T) {
	f := newAppointmentFixture(t)
	appointment := f.bookedAppointment(entity.AppointmentStatusPending)
	ctx := authedCtx(f.doctor.ID, entity.RoleDoctor)

	response, err := f.usecase.Confirm(ctx, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusConfirmed), response.Status)
	assert.Len(t, f.notifications.byRecipient(f.patient.ID), 1)

	// A repeated confirm loses the guarded transition and must stay silent
	_, err = f.usecase.Confirm(ctx, appointment.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Len(t, f.notifications.byRecipient(f.patient.ID), 1)
}

func TestConfirmByAnotherDoctorRejected(t *testing.T) {
	f := newAppointmentFixture(t)
	appointment := f.bookedAppointment(entity.AppointmentStatusPending)
	stranger := f.users.add(&entity.User{Role: entity.RoleDoctor, Email: "other@example.com", FullName: "BS. Khác"})

	_, err := f.usecase.Confirm(authedCtx(stranger.ID, entity.RoleDoctor), appointment.ID)
	assert.ErrorIs(t, err, ErrNotAppointmentDoctor)
	assert.Equal(t, entity.AppointmentStatusPending, f.appointments.appointments[appointment.ID].Status)
}

func TestCancelReleasesSeatAndNotifiesDoctor(t *testing.T) {
	f := newAppointmentFixture(t)
	appointment := f.bookedAppointment(entity.AppointmentStatusConfirmed)

	response, err := f.usecase.Cancel(authedCtx(f.patient.ID, entity.RolePatient), appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusCancelled), response.Status)

	slot := f.slots.slots[appointment.SlotID]
	assert.Equal(t, 0, slot.BookedCount)
	assert.Equal(t, entity.SlotStatusAvailable, slot.Status)

	// The patient cancelled, so the doctor is the one told about it
	assert.Len(t, f.notifications.byRecipient(f.doctor.ID), 1)
	assert.Empty(t, f.notifications.byRecipient(f.patient.ID))
}

func TestCancelCompletedAppointmentRejected(t *testing.T) {
	f := newAppointmentFixture(t)
	appointment := f.bookedAppointment(entity.AppointmentStatusCompleted)

	_, err := f.usecase.Cancel(authedCtx(f.patient.ID, entity.RolePatient), appointment.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Terminal state means no seat movement either
	assert.Equal(t, 1, f.slots.slots[appointment.SlotID].BookedCount)
}

func TestCancelByOutsiderRejected(t *testing.T) {
	f := newAppointmentFixture(t)
	appointment := f.bookedAppointment(entity.AppointmentStatusConfirmed)
	outsider := f.users.add(&entity.User{Role: entity.RolePatient, Email: "x@example.com", FullName: "Người lạ"})

	_, err := f.usecase.Cancel(authedCtx(outsider.ID, entity.RolePatient), appointment.ID)
	assert.ErrorIs(t, err, ErrNotAppointmentParty)
}

func TestStartConsultationRequiresConfirmed(t *testing.T) {
	f := newAppointmentFixture(t)
	appointment := f.bookedAppointment(entity.AppointmentStatusPending)

	_, err := f.usecase.StartConsultation(authedCtx(f.patient.ID, entity.RolePatient), appointment.ID)
	assert.ErrorIs(t, err, ErrConsultationNotReady)

	f.appointments.appointments[appointment.ID].Status = entity.AppointmentStatusConfirmed
	response, err := f.usecase.StartConsultation(authedCtx(f.patient.ID, entity.RolePatient), appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusConfirmed), response.Status)
}

func TestListMineBranchesOnRole(t *testing.T) {
	f := newAppointmentFixture(t)
	f.bookedAppointment(entity.AppointmentStatusConfirmed)
	f.bookedAppointment(entity.AppointmentStatusPending)

	asPatient, err := f.usecase.ListMine(authedCtx(f.patient.ID, entity.RolePatient))
	require.NoError(t, err)
	assert.Len(t, asPatient, 2)

	asDoctor, err := f.usecase.ListMine(authedCtx(f.doctor.ID, entity.RoleDoctor))
	require.NoError(t, err)
	assert.Len(t, asDoctor, 2)

	other := f.users.add(&entity.User{Role: entity.RolePatient, Email: "y@example.com", FullName: "Khác"})
	none, err := f.usecase.ListMine(authedCtx(other.ID, entity.RolePatient))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetUnknownAppointment(t *testing.T) {
	f := newAppointmentFixture(t)

	_, err := f.usecase.Get(authedCtx(f.patient.ID, entity.RolePatient), uuid.New())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}
