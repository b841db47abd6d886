package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clinicai/clinicai-api/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrSlotUnavailable is returned when a slot has no remaining seats
var ErrSlotUnavailable = errors.New("time slot is fully booked")

// reserveSeatScript atomically takes one seat. DECR then rollback on
// oversubscription keeps the whole reservation inside Redis, so two patients
// racing for the last seat cannot both win. Returns remaining seats after the
// reservation, or -1 when the slot was already exhausted.
var reserveSeatScript = redis.NewScript(`
	local remaining = redis.call('DECR', KEYS[1])
	if remaining < 0 then
		redis.call('INCR', KEYS[1])
		return -1
	end
	return remaining
`)

const (
	redisSlotQuotaPrefix = "slot:quota:"

	// Startup sync processes slots in bounded batches to keep pipelines small
	quotaSyncBatchSize = 500
)

// SlotQuotaService keeps the per-slot remaining-seat counters in Redis so the
// booking hot path never takes a database lock. PostgreSQL stays the source
// of truth; counters are rebuilt from it on startup.
type SlotQuotaService struct {
	db          *gorm.DB
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewSlotQuotaService(db *gorm.DB, redisClient *redis.Client, log *logrus.Logger) *SlotQuotaService {
	return &SlotQuotaService{
		db:          db,
		redisClient: redisClient,
		log:         log,
	}
}

// quotaRow holds the remaining-seat calculation from the database
type quotaRow struct {
	SlotID    uuid.UUID
	Remaining int
	Date      time.Time
}

// SyncOnStartup rebuilds every future slot's counter from the database.
// Must run before the server accepts traffic, and again after any Redis
// flush/disaster recovery.
func (s *SlotQuotaService) SyncOnStartup(ctx context.Context) error {
	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	start := time.Now()
	today := time.Now().UTC().Truncate(24 * time.Hour)
	offset := 0
	total := 0

	for {
		var rows []quotaRow
		err := s.db.WithContext(ctx).Model(&entity.TimeSlot{}).
			Select("id as slot_id, max_patients - booked_count as remaining, date").
			Where("date >= ? AND status != ?", today, entity.SlotStatusCancelled).
			Order("id").
			Limit(quotaSyncBatchSize).
			Offset(offset).
			Scan(&rows).Error
		if err != nil {
			return fmt.Errorf("query slots at offset %d: %w", offset, err)
		}
		if len(rows) == 0 {
			break
		}

		pipe := s.redisClient.TxPipeline()
		for _, row := range rows {
			remaining := row.Remaining
			if remaining < 0 {
				// Invariant violation: booked beyond capacity. Log loudly,
				// clamp to zero so no further seats are handed out.
				s.log.Errorf("Slot %s has booked_count above max_patients; clamping quota to 0", row.SlotID)
				remaining = 0
			}
			pipe.Set(ctx, s.quotaKey(row.SlotID), remaining, s.ttlFor(row.Date))
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("pipeline exec at offset %d: %w", offset, err)
		}

		total += len(rows)
		if len(rows) < quotaSyncBatchSize {
			break
		}
		offset += quotaSyncBatchSize

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	s.log.Infof("Slot quota sync completed: %d slots in %v", total, time.Since(start))
	return nil
}

// Prime initializes the counter for a newly published slot
func (s *SlotQuotaService) Prime(ctx context.Context, slot *entity.TimeSlot) error {
	err := s.redisClient.Set(ctx, s.quotaKey(slot.ID), slot.RemainingSeats(), s.ttlFor(slot.Date)).Err()
	if err != nil {
		return fmt.Errorf("prime quota for slot %s: %w", slot.ID, err)
	}
	return nil
}

// Reserve takes one seat atomically. Returns ErrSlotUnavailable when the
// slot is exhausted.
func (s *SlotQuotaService) Reserve(ctx context.Context, slotID uuid.UUID) error {
	result, err := reserveSeatScript.Run(ctx, s.redisClient, []string{s.quotaKey(slotID)}).Int()
	if err != nil {
		return fmt.Errorf("reserve seat for slot %s: %w", slotID, err)
	}
	if result == -1 {
		return ErrSlotUnavailable
	}
	s.log.Debugf("Reserved seat for slot %s: %d remaining", slotID, result)
	return nil
}

// Restore gives a seat back. Used both as compensation when the database
// insert fails after a Redis reservation, and when a booking is cancelled.
func (s *SlotQuotaService) Restore(ctx context.Context, slotID uuid.UUID) error {
	if err := s.redisClient.Incr(ctx, s.quotaKey(slotID)).Err(); err != nil {
		return fmt.Errorf("restore seat for slot %s: %w", slotID, err)
	}
	return nil
}

// Drop removes the counter for a cancelled or deleted slot
func (s *SlotQuotaService) Drop(ctx context.Context, slotID uuid.UUID) error {
	if err := s.redisClient.Del(ctx, s.quotaKey(slotID)).Err(); err != nil {
		return fmt.Errorf("drop quota for slot %s: %w", slotID, err)
	}
	return nil
}

func (s *SlotQuotaService) quotaKey(slotID uuid.UUID) string {
	return redisSlotQuotaPrefix + slotID.String()
}

// ttlFor expires counters 24 hours after the slot's date
func (s *SlotQuotaService) ttlFor(date time.Time) time.Duration {
	ttl := time.Until(date.AddDate(0, 0, 1))
	if ttl <= 0 {
		return time.Minute
	}
	return ttl
}
