package repository

import (
	"time"

	"github.com/clinicai/clinicai-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TimeSlotRepository interface {
	Create(db *gorm.DB, slot *entity.TimeSlot) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.TimeSlot, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.TimeSlot, error)
	FindBookableFrom(db *gorm.DB, from time.Time) ([]entity.TimeSlot, error)
	// ReserveSeat atomically increments booked_count while it is below
	// max_patients and flips the slot to full at capacity. Returns affected
	// rows: 1 = seat taken, 0 = slot already full or not available.
	ReserveSeat(db *gorm.DB, id uuid.UUID) (int64, error)
	// ReleaseSeat decrements booked_count (not below zero) and reopens a
	// full slot. Returns affected rows.
	ReleaseSeat(db *gorm.DB, id uuid.UUID) (int64, error)
	UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.SlotStatus) error
}
