package settings

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// cachedSettings представление настроек в кеше
type cachedSettings struct {
	ID                        int64     `json:"id"`
	PopupID                   int64     `json:"popup_id"`
	TimeSlotIntervalMinutes   int       `json:"time_slot_interval_minutes"`
	MaxCapacityPerSlot        int       `json:"max_capacity_per_slot"`
	MaxPartySize              int       `json:"max_party_size"`
	AdvanceBookingDays        int       `json:"advance_booking_days"`
	AllowSameDayBooking       bool      `json:"allow_same_day_booking"`
	CancellationDeadlineHours int       `json:"cancellation_deadline_hours"`
	CreatedAt                 time.Time `json:"created_at"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

func fromDomain(s domain.ReservationSettings) cachedSettings {
	return cachedSettings{
		ID:                        s.ID,
		PopupID:                   s.PopupID,
		TimeSlotIntervalMinutes:   s.TimeSlotIntervalMinutes,
		MaxCapacityPerSlot:        s.MaxCapacityPerSlot,
		MaxPartySize:              s.MaxPartySize,
		AdvanceBookingDays:        s.AdvanceBookingDays,
		AllowSameDayBooking:       s.AllowSameDayBooking,
		CancellationDeadlineHours: s.CancellationDeadlineHours,
		CreatedAt:                 s.CreatedAt,
		UpdatedAt:                 s.UpdatedAt,
	}
}

func (c cachedSettings) toDomain() domain.ReservationSettings {
	return domain.ReservationSettings{
		ID:                        c.ID,
		PopupID:                   c.PopupID,
		TimeSlotIntervalMinutes:   c.TimeSlotIntervalMinutes,
		MaxCapacityPerSlot:        c.MaxCapacityPerSlot,
		MaxPartySize:              c.MaxPartySize,
		AdvanceBookingDays:        c.AdvanceBookingDays,
		AllowSameDayBooking:       c.AllowSameDayBooking,
		CancellationDeadlineHours: c.CancellationDeadlineHours,
		CreatedAt:                 c.CreatedAt,
		UpdatedAt:                 c.UpdatedAt,
	}
}
