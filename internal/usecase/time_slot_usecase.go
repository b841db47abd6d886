package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/clinicai/clinicai-api/internal/converter"
	"github.com/clinicai/clinicai-api/internal/delivery/dto"
	"github.com/clinicai/clinicai-api/internal/domain/entity"
	"github.com/clinicai/clinicai-api/internal/domain/repository"
	"github.com/clinicai/clinicai-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidSlotDate   = errors.New("slot date must be today or later, format YYYY-MM-DD")
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
	ErrInvalidCapacity   = errors.New("max patients must be at least 1")
	ErrInvalidChannel    = errors.New("channel must be online or offline")
	ErrNotSlotOwner      = errors.New("slot belongs to another doctor")
	ErrDoctorOnly        = errors.New("only doctors can manage time slots")
)

type TimeSlotUsecase interface {
	// Create publishes a bookable window and primes its seat counter
	Create(ctx context.Context, request *dto.CreateTimeSlotRequest) (*dto.TimeSlotResponse, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]dto.TimeSlotResponse, error)
	ListBookable(ctx context.Context) ([]dto.TimeSlotResponse, error)
	// Cancel withdraws a slot from booking and drops its seat counter
	Cancel(ctx context.Context, slotID uuid.UUID) error
}

type timeSlotUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	timeSlotRepo     repository.TimeSlotRepository
	slotQuotaService *service.SlotQuotaService
}

func NewTimeSlotUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	timeSlotRepo repository.TimeSlotRepository,
	slotQuotaService *service.SlotQuotaService,
) TimeSlotUsecase {
	return &timeSlotUsecase{
		db:               db,
		log:              log,
		timeSlotRepo:     timeSlotRepo,
		slotQuotaService: slotQuotaService,
	}
}

func (u *timeSlotUsecase) Create(ctx context.Context, request *dto.CreateTimeSlotRequest) (*dto.TimeSlotResponse, error) {
	userID, role, ok := actor(ctx)
	if !ok {
		return nil, ErrAuthenticationRequired
	}

	doctorID := userID
	switch role {
	case entity.RoleDoctor:
	case entity.RoleAdmin:
		// Admins publish on a doctor's behalf
		if request.DoctorID != uuid.Nil {
			doctorID = request.DoctorID
		}
	default:
		return nil, ErrDoctorOnly
	}

	date, err := time.Parse("2006-01-02", request.Date)
	if err != nil {
		return nil, ErrInvalidSlotDate
	}
	if date.Before(time.Now().UTC().Truncate(24 * time.Hour)) {
		return nil, ErrInvalidSlotDate
	}
	if !validClock(request.StartTime) || !validClock(request.EndTime) {
		return nil, ErrInvalidTimeFormat
	}
	if request.MaxPatients < 1 {
		return nil, ErrInvalidCapacity
	}
	channel := entity.Channel(request.Channel)
	if !channel.IsValid() {
		return nil, ErrInvalidChannel
	}

	slot := &entity.TimeSlot{
		DoctorID:    doctorID,
		Date:        date,
		StartTime:   request.StartTime,
		EndTime:     request.EndTime,
		Channel:     channel,
		MaxPatients: request.MaxPatients,
		Status:      entity.SlotStatusAvailable,
	}

	if err := u.timeSlotRepo.Create(u.db.WithContext(ctx), slot); err != nil {
		u.log.Errorf("Failed to create slot for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	// A missing counter only slows the first booking down; it is rebuilt on
	// the next startup sync.
	if err := u.slotQuotaService.Prime(ctx, slot); err != nil {
		u.log.Warnf("Failed to prime quota for slot %s: %+v", slot.ID, err)
	}

	u.log.Infof("Time slot published: id=%s doctor=%s date=%s", slot.ID, doctorID, request.Date)
	return converter.TimeSlotToResponse(slot), nil
}

func (u *timeSlotUsecase) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]dto.TimeSlotResponse, error) {
	slots, err := u.timeSlotRepo.FindByDoctorID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to list slots for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	return converter.TimeSlotsToResponses(slots), nil
}

func (u *timeSlotUsecase) ListBookable(ctx context.Context) ([]dto.TimeSlotResponse, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	slots, err := u.timeSlotRepo.FindBookableFrom(u.db.WithContext(ctx), today)
	if err != nil {
		u.log.Warnf("Failed to list bookable slots: %+v", err)
		return nil, err
	}
	return converter.TimeSlotsToResponses(slots), nil
}

func (u *timeSlotUsecase) Cancel(ctx context.Context, slotID uuid.UUID) error {
	userID, role, ok := actor(ctx)
	if !ok {
		return ErrAuthenticationRequired
	}

	slot, err := u.timeSlotRepo.FindByID(u.db.WithContext(ctx), slotID)
	if err != nil {
		u.log.Warnf("Failed to find slot %s: %+v", slotID, err)
		return err
	}
	if slot == nil {
		return ErrSlotNotFound
	}
	if role != entity.RoleAdmin && slot.DoctorID != userID {
		return ErrNotSlotOwner
	}

	if err := u.timeSlotRepo.UpdateStatus(u.db.WithContext(ctx), slotID, entity.SlotStatusCancelled); err != nil {
		u.log.Errorf("Failed to cancel slot %s: %+v", slotID, err)
		return err
	}
	if err := u.slotQuotaService.Drop(ctx, slotID); err != nil {
		u.log.Warnf("Failed to drop quota for slot %s: %+v", slotID, err)
	}

	u.log.Infof("Time slot cancelled: id=%s", slotID)
	return nil
}

// validClock accepts HH:MM between 00:00 and 23:59
func validClock(value string) bool {
	_, err := time.Parse("15:04", value)
	return err == nil
}
