package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

func TestEvaluate(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, kst)
	settings := domain.DefaultSettings(1)

	noSameDay := settings
	noSameDay.AllowSameDayBooking = false

	tests := []struct {
		name       string
		slotStart  time.Time
		settings   domain.ReservationSettings
		wantOK     bool
		wantReason string
	}{
		{
			name:       "past slot",
			slotStart:  now.Add(-30 * time.Minute),
			settings:   settings,
			wantReason: domain.ReasonPastCutoff,
		},
		{
			name:       "slot starting now is past",
			slotStart:  now,
			settings:   settings,
			wantReason: domain.ReasonPastCutoff,
		},
		{
			name:      "later today allowed",
			slotStart: now.Add(2 * time.Hour),
			settings:  settings,
			wantOK:    true,
		},
		{
			name:       "later today forbidden",
			slotStart:  now.Add(2 * time.Hour),
			settings:   noSameDay,
			wantReason: domain.ReasonSameDayNotAllowed,
		},
		{
			name:      "tomorrow without same day booking",
			slotStart: time.Date(2025, 3, 11, 10, 0, 0, 0, kst),
			settings:  noSameDay,
			wantOK:    true,
		},
		{
			name:      "last day of advance window",
			slotStart: time.Date(2025, 4, 9, 23, 30, 0, 0, kst),
			settings:  settings,
			wantOK:    true,
		},
		{
			name:       "beyond advance window",
			slotStart:  time.Date(2025, 4, 10, 0, 0, 0, 0, kst),
			settings:   settings,
			wantReason: domain.ReasonOutsideAdvanceWindow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := Evaluate(tt.slotStart, tt.settings, now)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestCanCancel_Deadline(t *testing.T) {
	settings := domain.DefaultSettings(1)
	reservationDate := time.Date(2025, 3, 12, 14, 0, 0, 0, kst)
	deadline := reservationDate.Add(-24 * time.Hour)

	assert.True(t, CanCancel(reservationDate, settings, deadline.Add(-time.Minute)))
	assert.False(t, CanCancel(reservationDate, settings, deadline))
	assert.False(t, CanCancel(reservationDate, settings, deadline.Add(time.Minute)))
}

func TestApplyPolicy_OutsidePopupPeriod(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, kst)
	popup := &domain.Popup{
		ID:        1,
		StartDate: time.Date(2025, 3, 11, 0, 0, 0, 0, kst),
		EndDate:   time.Date(2025, 3, 20, 0, 0, 0, 0, kst),
	}
	slots := []domain.TimeSlot{
		{Start: time.Date(2025, 3, 10, 10, 0, 0, 0, kst), Capacity: 10, Bookable: true},
		{Start: time.Date(2025, 3, 11, 10, 0, 0, 0, kst), Capacity: 10, Bookable: true},
		{Start: time.Date(2025, 3, 21, 10, 0, 0, 0, kst), Capacity: 10, Bookable: true},
	}

	result := ApplyPolicy(popup, slots, domain.DefaultSettings(1), now)

	assert.False(t, result[0].Bookable)
	assert.Equal(t, domain.ReasonOutsidePopupPeriod, result[0].Reason)
	assert.True(t, result[1].Bookable)
	assert.Empty(t, result[1].Reason)
	assert.False(t, result[2].Bookable)
	assert.Equal(t, domain.ReasonOutsidePopupPeriod, result[2].Reason)
	// исходный срез не меняется
	assert.True(t, slots[0].Bookable)
}
