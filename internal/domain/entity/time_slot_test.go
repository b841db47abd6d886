package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeSlotRemainingSeats(t *testing.T) {
	slot := &TimeSlot{MaxPatients: 3, BookedCount: 1}
	assert.Equal(t, 2, slot.RemainingSeats())

	slot.BookedCount = 3
	assert.Equal(t, 0, slot.RemainingSeats())

	// Overbooked data is clamped, never negative
	slot.BookedCount = 4
	assert.Equal(t, 0, slot.RemainingSeats())
	assert.False(t, slot.CapacityInvariantHolds())
}

func TestTimeSlotIsBookable(t *testing.T) {
	slot := &TimeSlot{MaxPatients: 2, BookedCount: 1, Status: SlotStatusAvailable}
	assert.True(t, slot.IsBookable())

	slot.BookedCount = 2
	assert.False(t, slot.IsBookable())

	slot.BookedCount = 0
	slot.Status = SlotStatusCancelled
	assert.False(t, slot.IsBookable())

	slot.Status = SlotStatusFull
	assert.False(t, slot.IsBookable())
}
