package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinicai/clinicai-api/internal/converter"
	"github.com/clinicai/clinicai-api/internal/delivery/dto"
	"github.com/clinicai/clinicai-api/internal/delivery/http/middleware"
	"github.com/clinicai/clinicai-api/internal/domain/entity"
	"github.com/clinicai/clinicai-api/internal/domain/repository"
	"github.com/clinicai/clinicai-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	// ErrInvalidTransition covers both an illegal lifecycle move and a lost
	// race: the guarded update affected zero rows either way.
	ErrInvalidTransition    = errors.New("appointment status transition not allowed")
	ErrNotAppointmentDoctor = errors.New("appointment is assigned to another doctor")
	ErrNotAppointmentParty  = errors.New("you are not a participant of this appointment")
	ErrConsultationNotReady = errors.New("appointment has not been confirmed by the doctor")
)

type AppointmentUsecase interface {
	// Confirm moves a pending appointment to confirmed and notifies the
	// patient. Only the assigned doctor (or an admin) may confirm.
	Confirm(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	// Cancel moves a pending or confirmed appointment to cancelled, releases
	// the slot seat and notifies the other party.
	Cancel(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	// StartConsultation gates entry to the video call room: only a confirmed
	// appointment may begin, and only its participants may join.
	StartConsultation(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	// Complete is the internal transition fired when a consultation ends
	Complete(ctx context.Context, appointmentID uuid.UUID) error
	ListMine(ctx context.Context) ([]dto.AppointmentResponse, error)
	Get(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	appointmentRepo  repository.AppointmentRepository
	timeSlotRepo     repository.TimeSlotRepository
	slotQuotaService *service.SlotQuotaService
	notifications    NotificationUsecase
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	timeSlotRepo repository.TimeSlotRepository,
	slotQuotaService *service.SlotQuotaService,
	notifications NotificationUsecase,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:               db,
		log:              log,
		appointmentRepo:  appointmentRepo,
		timeSlotRepo:     timeSlotRepo,
		slotQuotaService: slotQuotaService,
		notifications:    notifications,
	}
}

func (u *appointmentUsecase) Confirm(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.load(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	userID, role, ok := actor(ctx)
	if !ok {
		return nil, ErrAuthenticationRequired
	}
	if role != entity.RoleAdmin && appointment.DoctorID != userID {
		return nil, ErrNotAppointmentDoctor
	}

	affected, err := u.appointmentRepo.TransitionStatus(
		u.db.WithContext(ctx),
		appointmentID,
		[]entity.AppointmentStatus{entity.AppointmentStatusPending},
		entity.AppointmentStatusConfirmed,
	)
	if err != nil {
		u.log.Warnf("Failed to confirm appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if affected == 0 {
		// Already confirmed, cancelled, or raced by another confirm. Either
		// way the notification must not fire again.
		return nil, ErrInvalidTransition
	}
	appointment.Status = entity.AppointmentStatusConfirmed

	message := fmt.Sprintf("Lịch hẹn với %s ngày %s lúc %s đã được xác nhận.",
		appointment.Doctor.DoctorName, appointment.Date.Format("02/01/2006"), appointment.Time)
	u.notifications.Emit(ctx, appointment.PatientID, entity.NotificationTypeAppointment, message, &appointment.ID)

	u.log.Infof("Appointment confirmed: id=%s doctor=%s", appointmentID, appointment.DoctorID)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) Cancel(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.load(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	userID, role, ok := actor(ctx)
	if !ok {
		return nil, ErrAuthenticationRequired
	}
	if role != entity.RoleAdmin && appointment.PatientID != userID && appointment.DoctorID != userID {
		return nil, ErrNotAppointmentParty
	}

	affected, err := u.appointmentRepo.TransitionStatus(
		u.db.WithContext(ctx),
		appointmentID,
		[]entity.AppointmentStatus{entity.AppointmentStatusPending, entity.AppointmentStatusConfirmed},
		entity.AppointmentStatusCancelled,
	)
	if err != nil {
		u.log.Warnf("Failed to cancel appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrInvalidTransition
	}
	appointment.Status = entity.AppointmentStatusCancelled

	// Release the seat so another patient can book it. The winning cancel is
	// the only one that reaches this point, so the seat is released once.
	if _, err := u.timeSlotRepo.ReleaseSeat(u.db.WithContext(ctx), appointment.SlotID); err != nil {
		u.log.Errorf("Failed to release seat for slot %s after cancel: %+v", appointment.SlotID, err)
	}
	if err := u.slotQuotaService.Restore(ctx, appointment.SlotID); err != nil {
		u.log.Warnf("Failed to restore quota for slot %s after cancel: %+v", appointment.SlotID, err)
	}

	message := fmt.Sprintf("Lịch hẹn ngày %s lúc %s đã bị hủy.",
		appointment.Date.Format("02/01/2006"), appointment.Time)
	if userID == appointment.PatientID {
		u.notifications.Emit(ctx, appointment.DoctorID, entity.NotificationTypeAppointment, message, &appointment.ID)
	} else {
		u.notifications.Emit(ctx, appointment.PatientID, entity.NotificationTypeAppointment, message, &appointment.ID)
	}

	u.log.Infof("Appointment cancelled: id=%s by=%s", appointmentID, userID)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) StartConsultation(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.load(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	userID, role, ok := actor(ctx)
	if !ok {
		return nil, ErrAuthenticationRequired
	}
	if role != entity.RoleAdmin && appointment.PatientID != userID && appointment.DoctorID != userID {
		return nil, ErrNotAppointmentParty
	}

	if !appointment.CanStartConsultation() {
		return nil, ErrConsultationNotReady
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) Complete(ctx context.Context, appointmentID uuid.UUID) error {
	affected, err := u.appointmentRepo.TransitionStatus(
		u.db.WithContext(ctx),
		appointmentID,
		[]entity.AppointmentStatus{entity.AppointmentStatusConfirmed},
		entity.AppointmentStatusCompleted,
	)
	if err != nil {
		u.log.Warnf("Failed to complete appointment %s: %+v", appointmentID, err)
		return err
	}
	if affected == 0 {
		return ErrInvalidTransition
	}
	u.log.Infof("Appointment completed: id=%s", appointmentID)
	return nil
}

func (u *appointmentUsecase) ListMine(ctx context.Context) ([]dto.AppointmentResponse, error) {
	userID, role, ok := actor(ctx)
	if !ok {
		return nil, ErrAuthenticationRequired
	}

	var (
		appointments []entity.Appointment
		err          error
	)
	if role == entity.RoleDoctor {
		appointments, err = u.appointmentRepo.FindByDoctorID(u.db.WithContext(ctx), userID)
	} else {
		appointments, err = u.appointmentRepo.FindByPatientID(u.db.WithContext(ctx), userID)
	}
	if err != nil {
		u.log.Warnf("Failed to list appointments for %s: %+v", userID, err)
		return nil, err
	}

	return converter.AppointmentsToResponses(appointments), nil
}

func (u *appointmentUsecase) Get(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.load(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	userID, role, ok := actor(ctx)
	if !ok {
		return nil, ErrAuthenticationRequired
	}
	if role != entity.RoleAdmin && appointment.PatientID != userID && appointment.DoctorID != userID {
		return nil, ErrNotAppointmentParty
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) load(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

// actor resolves the authenticated user and role from the request context
func actor(ctx context.Context) (uuid.UUID, string, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, "", false
	}
	role, _ := middleware.GetUserRoleFromContext(ctx)
	return userID, role, true
}
