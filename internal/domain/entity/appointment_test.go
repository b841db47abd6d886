package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentStatusTransitions(t *testing.T) {
	cases := []struct {
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{AppointmentStatusPending, AppointmentStatusConfirmed, true},
		{AppointmentStatusPending, AppointmentStatusCancelled, true},
		{AppointmentStatusPending, AppointmentStatusCompleted, false},
		{AppointmentStatusConfirmed, AppointmentStatusCompleted, true},
		{AppointmentStatusConfirmed, AppointmentStatusCancelled, true},
		{AppointmentStatusConfirmed, AppointmentStatusPending, false},
		{AppointmentStatusCompleted, AppointmentStatusCancelled, false},
		{AppointmentStatusCompleted, AppointmentStatusConfirmed, false},
		{AppointmentStatusCancelled, AppointmentStatusPending, false},
		{AppointmentStatusCancelled, AppointmentStatusConfirmed, false},
	}

	for _, tc := range cases {
		got := tc.from.CanTransitionTo(tc.to)
		assert.Equal(t, tc.allowed, got, "%s -> %s", tc.from, tc.to)
	}
}

func TestAppointmentStatusTerminal(t *testing.T) {
	assert.False(t, AppointmentStatusPending.IsTerminal())
	assert.False(t, AppointmentStatusConfirmed.IsTerminal())
	assert.True(t, AppointmentStatusCompleted.IsTerminal())
	assert.True(t, AppointmentStatusCancelled.IsTerminal())
}

func TestParseAppointmentStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want AppointmentStatus
		ok   bool
	}{
		{"pending", AppointmentStatusPending, true},
		{"Chờ xác nhận", AppointmentStatusPending, true},
		{"confirmed", AppointmentStatusConfirmed, true},
		// The legacy upcoming label is an alias of confirmed
		{"Sắp diễn ra", AppointmentStatusConfirmed, true},
		{"upcoming", AppointmentStatusConfirmed, true},
		{"completed", AppointmentStatusCompleted, true},
		{"Đã hoàn thành", AppointmentStatusCompleted, true},
		{"cancelled", AppointmentStatusCancelled, true},
		{"Đã hủy", AppointmentStatusCancelled, true},
		{"unknown", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := ParseAppointmentStatus(tc.raw)
		assert.Equal(t, tc.ok, ok, "raw=%q", tc.raw)
		assert.Equal(t, tc.want, got, "raw=%q", tc.raw)
	}
}

func TestAppointmentStatusLabel(t *testing.T) {
	assert.Equal(t, "Chờ xác nhận", AppointmentStatusPending.Label())
	assert.Equal(t, "Đã xác nhận", AppointmentStatusConfirmed.Label())
	assert.Equal(t, "Đã hoàn thành", AppointmentStatusCompleted.Label())
	assert.Equal(t, "Đã hủy", AppointmentStatusCancelled.Label())

	// Unknown statuses fall back to the raw identifier
	assert.Equal(t, "archived", AppointmentStatus("archived").Label())
}

func TestCanStartConsultation(t *testing.T) {
	appointment := &Appointment{Status: AppointmentStatusPending}
	assert.False(t, appointment.CanStartConsultation())

	appointment.Status = AppointmentStatusConfirmed
	assert.True(t, appointment.CanStartConsultation())

	appointment.Status = AppointmentStatusCompleted
	assert.False(t, appointment.CanStartConsultation())
}

func TestChannelIsValid(t *testing.T) {
	assert.True(t, ChannelOnline.IsValid())
	assert.True(t, ChannelOffline.IsValid())
	assert.False(t, Channel("video").IsValid())
}
