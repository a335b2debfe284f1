package domain

import (
	"fmt"
	"time"
)

// ReservationSettings политика бронирования попапа (одна на попап)
// Значение неизменяемое: изменения возвращают новую копию и сохраняются явно
type ReservationSettings struct {
	ID                        int64
	PopupID                   int64
	TimeSlotIntervalMinutes   int
	MaxCapacityPerSlot        int // суммарный размер групп на слот
	MaxPartySize              int // максимальный размер одной группы
	AdvanceBookingDays        int
	AllowSameDayBooking       bool
	CancellationDeadlineHours int
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// DefaultSettings настройки по умолчанию для попапа
func DefaultSettings(popupID int64) ReservationSettings {
	return ReservationSettings{
		PopupID:                   popupID,
		TimeSlotIntervalMinutes:   DefaultTimeSlotIntervalMinutes,
		MaxCapacityPerSlot:        DefaultMaxCapacityPerSlot,
		MaxPartySize:              DefaultMaxPartySize,
		AdvanceBookingDays:        DefaultAdvanceBookingDays,
		AllowSameDayBooking:       DefaultAllowSameDayBooking,
		CancellationDeadlineHours: DefaultCancellationDeadlineHours,
	}
}

// WithDefaults заменяет неположительные числовые значения значениями по умолчанию
func (s ReservationSettings) WithDefaults() ReservationSettings {
	if s.TimeSlotIntervalMinutes <= 0 {
		s.TimeSlotIntervalMinutes = DefaultTimeSlotIntervalMinutes
	}
	if s.MaxCapacityPerSlot <= 0 {
		s.MaxCapacityPerSlot = DefaultMaxCapacityPerSlot
	}
	if s.MaxPartySize <= 0 {
		s.MaxPartySize = DefaultMaxPartySize
	}
	if s.AdvanceBookingDays <= 0 {
		s.AdvanceBookingDays = DefaultAdvanceBookingDays
	}
	if s.CancellationDeadlineHours <= 0 {
		s.CancellationDeadlineHours = DefaultCancellationDeadlineHours
	}
	return s
}

// WithBasic возвращает копию с новой вместимостью слота и интервалом
func (s ReservationSettings) WithBasic(maxCapacityPerSlot, timeSlotIntervalMinutes int) ReservationSettings {
	s.MaxCapacityPerSlot = maxCapacityPerSlot
	s.TimeSlotIntervalMinutes = timeSlotIntervalMinutes
	return s
}

// Validate проверяет инварианты настроек
// Размер группы не может превышать вместимость слота
func (s ReservationSettings) Validate() error {
	if s.TimeSlotIntervalMinutes < MinTimeSlotIntervalMinutes || s.TimeSlotIntervalMinutes > MaxTimeSlotIntervalMinutes {
		return fmt.Errorf("%w: timeSlotInterval must be between %d and %d minutes",
			ErrInvalidInput, MinTimeSlotIntervalMinutes, MaxTimeSlotIntervalMinutes)
	}
	if s.MaxCapacityPerSlot < MinCapacityPerSlot || s.MaxCapacityPerSlot > MaxCapacityPerSlot {
		return fmt.Errorf("%w: maxCapacityPerSlot must be between %d and %d",
			ErrInvalidInput, MinCapacityPerSlot, MaxCapacityPerSlot)
	}
	if s.MaxPartySize <= 0 || s.AdvanceBookingDays <= 0 || s.CancellationDeadlineHours <= 0 {
		return fmt.Errorf("%w: numeric settings must be positive", ErrInvalidInput)
	}
	if s.MaxPartySize > s.MaxCapacityPerSlot {
		return fmt.Errorf("%w: maxPartySize %d exceeds maxCapacityPerSlot %d",
			ErrInvalidInput, s.MaxPartySize, s.MaxCapacityPerSlot)
	}
	return nil
}
