package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clinicai/clinicai-api/internal/converter"
	"github.com/clinicai/clinicai-api/internal/delivery/dto"
	"github.com/clinicai/clinicai-api/internal/domain/entity"
	"github.com/clinicai/clinicai-api/internal/domain/repository"
	"github.com/clinicai/clinicai-api/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrSlotNotFound    = errors.New("time slot not found")
	ErrSlotNotBookable = errors.New("time slot is not open for booking")
	ErrSlotInPast      = errors.New("time slot date has already passed")
	ErrPatientOnly     = errors.New("only patients can book appointments")
)

type BookingUsecase interface {
	// Initiate stages a booking for the authenticated patient. Offline
	// bookings commit immediately; online bookings open a payment session
	// and commit only when the payment settles.
	Initiate(ctx context.Context, request *dto.InitiateBookingRequest) (*dto.BookingInitiationResponse, error)
	// PaymentStatus returns the current payment session state
	PaymentStatus(ctx context.Context, orderCode string) (*dto.PaymentSessionResponse, error)
	// CheckPayment triggers a manual gateway check on an open session
	CheckPayment(ctx context.Context, orderCode string) (*dto.PaymentSessionResponse, error)
	// AbandonPayment closes a session without waiting for settlement
	AbandonPayment(ctx context.Context, orderCode string) error
}

type bookingUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	appointmentRepo  repository.AppointmentRepository
	timeSlotRepo     repository.TimeSlotRepository
	doctorRepo       repository.DoctorProfileRepository
	slotQuotaService *service.SlotQuotaService
	paymentSessions  *service.PaymentSessionService
	notifications    NotificationUsecase
}

func NewBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	timeSlotRepo repository.TimeSlotRepository,
	doctorRepo repository.DoctorProfileRepository,
	slotQuotaService *service.SlotQuotaService,
	paymentSessions *service.PaymentSessionService,
	notifications NotificationUsecase,
) BookingUsecase {
	return &bookingUsecase{
		db:               db,
		log:              log,
		appointmentRepo:  appointmentRepo,
		timeSlotRepo:     timeSlotRepo,
		doctorRepo:       doctorRepo,
		slotQuotaService: slotQuotaService,
		paymentSessions:  paymentSessions,
		notifications:    notifications,
	}
}

func (u *bookingUsecase) Initiate(ctx context.Context, request *dto.InitiateBookingRequest) (*dto.BookingInitiationResponse, error) {
	userID, role, ok := actor(ctx)
	if !ok {
		// Guests browse freely; booking is the authentication boundary
		return nil, ErrAuthenticationRequired
	}
	if role != entity.RolePatient {
		return nil, ErrPatientOnly
	}

	slot, err := u.timeSlotRepo.FindByID(u.db.WithContext(ctx), request.SlotID)
	if err != nil {
		u.log.Warnf("Failed to find slot %s: %+v", request.SlotID, err)
		return nil, err
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}
	if slot.Date.Before(time.Now().UTC().Truncate(24 * time.Hour)) {
		return nil, ErrSlotInPast
	}
	// Cheap pre-check only; the authoritative capacity guard runs at commit
	if !slot.IsBookable() {
		return nil, ErrSlotNotBookable
	}

	doctor, err := u.doctorRepo.FindByUserID(u.db.WithContext(ctx), slot.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile %s: %+v", slot.DoctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrSlotNotFound
	}

	pending := entity.PendingAppointment{
		PatientID: userID,
		DoctorID:  slot.DoctorID,
		SlotID:    slot.ID,
		Doctor:    doctor.Snapshot(),
		Date:      slot.Date,
		Time:      slot.StartTime,
		Channel:   slot.Channel,
	}

	// Offline visits pay at the clinic, so the booking commits immediately
	if slot.Channel == entity.ChannelOffline {
		appointment, err := u.commit(ctx, pending)
		if err != nil {
			return nil, err
		}
		return &dto.BookingInitiationResponse{Appointment: appointment}, nil
	}

	view, err := u.paymentSessions.Open(ctx, pending, func(settleCtx context.Context, p entity.PendingAppointment) error {
		_, commitErr := u.commit(settleCtx, p)
		return commitErr
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Payment session opened: order=%s patient=%s slot=%s", view.OrderCode, userID, slot.ID)
	return &dto.BookingInitiationResponse{Payment: converter.SessionViewToResponse(view)}, nil
}

// commit is the single path that turns a staged booking into a pending
// appointment. The Redis quota is the fast gate, the conditional SQL update
// the source of truth; any later failure compensates both.
func (u *bookingUsecase) commit(ctx context.Context, pending entity.PendingAppointment) (*dto.AppointmentResponse, error) {
	if err := u.slotQuotaService.Reserve(ctx, pending.SlotID); err != nil {
		return nil, err
	}

	affected, err := u.timeSlotRepo.ReserveSeat(u.db.WithContext(ctx), pending.SlotID)
	if err != nil || affected == 0 {
		if restoreErr := u.slotQuotaService.Restore(ctx, pending.SlotID); restoreErr != nil {
			u.log.Errorf("Failed to restore quota for slot %s: %+v", pending.SlotID, restoreErr)
		}
		if err != nil {
			u.log.Warnf("Failed to reserve seat for slot %s: %+v", pending.SlotID, err)
			return nil, err
		}
		return nil, service.ErrSlotUnavailable
	}

	appointment := &entity.Appointment{
		PatientID: pending.PatientID,
		DoctorID:  pending.DoctorID,
		SlotID:    pending.SlotID,
		Doctor:    pending.Doctor,
		Date:      pending.Date,
		Time:      pending.Time,
		Channel:   pending.Channel,
		Status:    entity.AppointmentStatusPending,
	}

	if err := u.appointmentRepo.Create(u.db.WithContext(ctx), appointment); err != nil {
		u.log.Errorf("Failed to create appointment for slot %s: %+v", pending.SlotID, err)
		if _, releaseErr := u.timeSlotRepo.ReleaseSeat(u.db.WithContext(ctx), pending.SlotID); releaseErr != nil {
			u.log.Errorf("Failed to release seat for slot %s: %+v", pending.SlotID, releaseErr)
		}
		if restoreErr := u.slotQuotaService.Restore(ctx, pending.SlotID); restoreErr != nil {
			u.log.Errorf("Failed to restore quota for slot %s: %+v", pending.SlotID, restoreErr)
		}
		return nil, err
	}

	message := fmt.Sprintf("Bạn có lịch hẹn mới ngày %s lúc %s đang chờ xác nhận.",
		pending.Date.Format("02/01/2006"), pending.Time)
	u.notifications.Emit(ctx, pending.DoctorID, entity.NotificationTypeAppointment, message, &appointment.ID)

	u.log.Infof("Booking committed: appointment=%s patient=%s slot=%s channel=%s",
		appointment.ID, pending.PatientID, pending.SlotID, pending.Channel)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *bookingUsecase) PaymentStatus(ctx context.Context, orderCode string) (*dto.PaymentSessionResponse, error) {
	view, err := u.paymentSessions.Get(orderCode)
	if err != nil {
		return nil, err
	}
	return converter.SessionViewToResponse(view), nil
}

func (u *bookingUsecase) CheckPayment(ctx context.Context, orderCode string) (*dto.PaymentSessionResponse, error) {
	view, err := u.paymentSessions.CheckNow(ctx, orderCode)
	if err != nil && !errors.Is(err, service.ErrSessionNotFound) {
		// Gateway hiccup: report the current session state, keep polling
		u.log.Warnf("Manual payment check error for order %s: %+v", orderCode, err)
		return converter.SessionViewToResponse(view), nil
	}
	if err != nil {
		return nil, err
	}
	return converter.SessionViewToResponse(view), nil
}

func (u *bookingUsecase) AbandonPayment(ctx context.Context, orderCode string) error {
	if _, err := u.paymentSessions.Get(orderCode); err != nil {
		return err
	}
	u.paymentSessions.Close(orderCode)
	u.log.Infof("Payment session abandoned: order=%s", orderCode)
	return nil
}
