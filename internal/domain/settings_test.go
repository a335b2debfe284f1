package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReservationSettings_WithDefaults(t *testing.T) {
	s := ReservationSettings{PopupID: 1, MaxCapacityPerSlot: 4, MaxPartySize: -1}.WithDefaults()

	assert.Equal(t, 4, s.MaxCapacityPerSlot)
	assert.Equal(t, DefaultMaxPartySize, s.MaxPartySize)
	assert.Equal(t, DefaultTimeSlotIntervalMinutes, s.TimeSlotIntervalMinutes)
	assert.Equal(t, DefaultAdvanceBookingDays, s.AdvanceBookingDays)
	assert.Equal(t, DefaultCancellationDeadlineHours, s.CancellationDeadlineHours)
}

func TestReservationSettings_WithBasicReturnsCopy(t *testing.T) {
	original := DefaultSettings(7)
	updated := original.WithBasic(20, 60)

	assert.Equal(t, DefaultMaxCapacityPerSlot, original.MaxCapacityPerSlot)
	assert.Equal(t, DefaultTimeSlotIntervalMinutes, original.TimeSlotIntervalMinutes)
	assert.Equal(t, 20, updated.MaxCapacityPerSlot)
	assert.Equal(t, 60, updated.TimeSlotIntervalMinutes)
	assert.Equal(t, original.MaxPartySize, updated.MaxPartySize)
}

func TestReservationSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ReservationSettings)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(*ReservationSettings) {}},
		{name: "interval too small", mutate: func(s *ReservationSettings) { s.TimeSlotIntervalMinutes = 1 }, wantErr: true},
		{name: "zero capacity", mutate: func(s *ReservationSettings) { s.MaxCapacityPerSlot = 0 }, wantErr: true},
		{name: "party size above capacity", mutate: func(s *ReservationSettings) { s.MaxCapacityPerSlot = 3 }, wantErr: true},
		{name: "party size equal to capacity", mutate: func(s *ReservationSettings) { s.MaxCapacityPerSlot = 5 }},
		{name: "zero deadline", mutate: func(s *ReservationSettings) { s.CancellationDeadlineHours = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings(1)
			tt.mutate(&s)

			err := s.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}
