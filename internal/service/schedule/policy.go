package schedule

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Политика окна бронирования. Все функции чистые, календарные даты берутся
// в часовом поясе now.

// IsFuture слот начинается строго позже now
func IsFuture(slotStart, now time.Time) bool {
	return slotStart.After(now)
}

// IsWithinAdvanceWindow от сегодняшней даты до даты слота не больше AdvanceBookingDays дней
func IsWithinAdvanceWindow(slotStart time.Time, settings domain.ReservationSettings, now time.Time) bool {
	return domain.DaysBetween(now, slotStart.In(now.Location())) <= settings.AdvanceBookingDays
}

// IsSameDayAllowed слот на сегодня допустим только при AllowSameDayBooking
func IsSameDayAllowed(slotStart time.Time, settings domain.ReservationSettings, now time.Time) bool {
	if domain.DaysBetween(now, slotStart.In(now.Location())) == 0 {
		return settings.AllowSameDayBooking
	}
	return true
}

// CanCancel отмена разрешена строго до reservationDate - CancellationDeadlineHours
func CanCancel(reservationDate time.Time, settings domain.ReservationSettings, now time.Time) bool {
	deadline := reservationDate.Add(-time.Duration(settings.CancellationDeadlineHours) * time.Hour)
	return now.Before(deadline)
}

// Evaluate можно ли бронировать слот, и если нет - почему
func Evaluate(slotStart time.Time, settings domain.ReservationSettings, now time.Time) (bool, string) {
	if !IsFuture(slotStart, now) {
		return false, domain.ReasonPastCutoff
	}
	if !IsSameDayAllowed(slotStart, settings, now) {
		return false, domain.ReasonSameDayNotAllowed
	}
	if !IsWithinAdvanceWindow(slotStart, settings, now) {
		return false, domain.ReasonOutsideAdvanceWindow
	}
	return true, ""
}

// ApplyPolicy помечает слоты, не проходящие политику, как недоступные
// Слоты вне периода работы попапа тоже недоступны
func ApplyPolicy(popup *domain.Popup, slots []domain.TimeSlot, settings domain.ReservationSettings, now time.Time) []domain.TimeSlot {
	result := make([]domain.TimeSlot, len(slots))
	for i, slot := range slots {
		ok, reason := Evaluate(slot.Start, settings, now)
		if ok && !popup.IsRunningOn(slot.Start) {
			ok, reason = false, domain.ReasonOutsidePopupPeriod
		}
		slot.Bookable = ok
		slot.Reason = reason
		result[i] = slot
	}
	return result
}
