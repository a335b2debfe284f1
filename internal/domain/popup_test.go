package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParsePopupStatus(t *testing.T) {
	assert.Equal(t, PopupStatusOngoing, ParsePopupStatus("ONGOING"))
	assert.Equal(t, PopupStatusUnknown, ParsePopupStatus("ARCHIVED"))
	assert.Equal(t, PopupStatusUnknown, ParsePopupStatus(""))
}

func TestPopup_HoursFor_KeepsRowOrder(t *testing.T) {
	popup := &Popup{OperatingHours: []OperatingHours{
		{DayOfWeek: time.Monday, OpenTime: "14:00", CloseTime: "18:00"},
		{DayOfWeek: time.Tuesday, OpenTime: "10:00", CloseTime: "18:00"},
		{DayOfWeek: time.Monday, OpenTime: "10:00", CloseTime: "12:00"},
	}}

	hours := popup.HoursFor(time.Monday)

	assert.Len(t, hours, 2)
	assert.Equal(t, "14:00", hours[0].OpenTime.String())
	assert.Equal(t, "10:00", hours[1].OpenTime.String())
	assert.True(t, popup.IsOpenOn(time.Tuesday))
	assert.False(t, popup.IsOpenOn(time.Sunday))
}

func TestPopup_IsRunningOn(t *testing.T) {
	popup := &Popup{
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}

	assert.False(t, popup.IsRunningOn(time.Date(2025, 2, 28, 23, 0, 0, 0, time.UTC)))
	assert.True(t, popup.IsRunningOn(time.Date(2025, 3, 31, 18, 0, 0, 0, time.UTC)))
	assert.False(t, popup.IsRunningOn(time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)))
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)
	to := time.Date(2025, 3, 17, 0, 1, 0, 0, time.UTC)

	assert.Equal(t, 7, DaysBetween(from, to))
	assert.Equal(t, 0, DaysBetween(from, from))
}

func TestKind(t *testing.T) {
	errPopupNotFound := NewError(ErrNotFound, "create_reservation: popup not found")
	wrapped := fmt.Errorf("%w: popup_id=5", errPopupNotFound)

	assert.ErrorIs(t, wrapped, errPopupNotFound)
	assert.Equal(t, ErrNotFound, Kind(wrapped))
	assert.Equal(t, ErrInternal, Kind(errors.New("boom")))
	assert.Equal(t, "create_reservation: popup not found", errPopupNotFound.Error())
}
