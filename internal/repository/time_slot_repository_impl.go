package repository

import (
	"errors"
	"time"

	"github.com/clinicai/clinicai-api/internal/domain/entity"
	domainRepo "github.com/clinicai/clinicai-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type timeSlotRepository struct{}

func NewTimeSlotRepository() domainRepo.TimeSlotRepository {
	return &timeSlotRepository{}
}

func (r *timeSlotRepository) Create(db *gorm.DB, slot *entity.TimeSlot) error {
	return db.Create(slot).Error
}

func (r *timeSlotRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.TimeSlot, error) {
	var slot entity.TimeSlot
	err := db.Preload("Doctor.User").Where("id = ?", id).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *timeSlotRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.TimeSlot, error) {
	var slots []entity.TimeSlot
	err := db.Where("doctor_id = ?", doctorID).
		Order("date ASC, start_time ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *timeSlotRepository) FindBookableFrom(db *gorm.DB, from time.Time) ([]entity.TimeSlot, error) {
	var slots []entity.TimeSlot
	err := db.Where("date >= ? AND status = ?", from, entity.SlotStatusAvailable).
		Order("date ASC, start_time ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// ReserveSeat is the capacity critical section: the WHERE clause makes the
// increment-and-check a single compare-and-swap so two patients racing for
// the last seat cannot both win.
func (r *timeSlotRepository) ReserveSeat(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Model(&entity.TimeSlot{}).
		Where("id = ? AND status = ? AND booked_count < max_patients", id, entity.SlotStatusAvailable).
		Updates(map[string]interface{}{
			"booked_count": gorm.Expr("booked_count + 1"),
			"status": gorm.Expr(
				"CASE WHEN booked_count + 1 >= max_patients THEN ? ELSE status END",
				entity.SlotStatusFull,
			),
		})
	return result.RowsAffected, result.Error
}

func (r *timeSlotRepository) ReleaseSeat(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Model(&entity.TimeSlot{}).
		Where("id = ? AND booked_count > 0", id).
		Updates(map[string]interface{}{
			"booked_count": gorm.Expr("booked_count - 1"),
			"status": gorm.Expr(
				"CASE WHEN status = ? THEN ? ELSE status END",
				entity.SlotStatusFull, entity.SlotStatusAvailable,
			),
		})
	return result.RowsAffected, result.Error
}

func (r *timeSlotRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.SlotStatus) error {
	return db.Model(&entity.TimeSlot{}).
		Where("id = ?", id).
		Update("status", status).Error
}
