package schedule

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// GenerateSlots строит слоты на дату по часам работы попапа
//
// Для каждой строки расписания на день недели date идем от openTime к closeTime
// с шагом TimeSlotIntervalMinutes. Последний неполный слот отбрасывается.
// Слоты раздельных смен склеиваются в порядке строк, без сортировки.
// Нет строк на этот день недели - пустой результат: попап в этот день закрыт.
//
// Слоты получают вместимость из настроек и Bookable = true, занятость и политику
// окна бронирования накладывают вызывающие.
func GenerateSlots(popup *domain.Popup, settings domain.ReservationSettings, date time.Time) ([]domain.TimeSlot, error) {
	interval := settings.TimeSlotIntervalMinutes
	if interval <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidInterval, interval)
	}

	rows := popup.HoursFor(date.Weekday())
	slots := make([]domain.TimeSlot, 0)

	y, m, d := date.Date()
	loc := date.Location()

	for _, row := range rows {
		open, err := row.OpenTime.Minutes()
		if err != nil {
			return nil, fmt.Errorf("%w: open time: %v", ErrInvalidHours, err)
		}
		closeAt, err := row.CloseTime.Minutes()
		if err != nil {
			return nil, fmt.Errorf("%w: close time: %v", ErrInvalidHours, err)
		}

		for start := open; start+interval <= closeAt; start += interval {
			slots = append(slots, domain.TimeSlot{
				Start:    time.Date(y, m, d, 0, start, 0, 0, loc),
				End:      time.Date(y, m, d, 0, start+interval, 0, 0, loc),
				Capacity: settings.MaxCapacityPerSlot,
				Bookable: true,
			})
		}
	}

	return slots, nil
}
