package domain

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// PopupStatus жизненный цикл попапа, меняется внешним batch-процессом
// Для бронирований это только сигнал на чтение, он может отставать
type PopupStatus string

const (
	PopupStatusPlanned PopupStatus = "PLANNED"
	PopupStatusOngoing PopupStatus = "ONGOING"
	PopupStatusEnded   PopupStatus = "ENDED"
	PopupStatusUnknown PopupStatus = "UNKNOWN"
)

// ParsePopupStatus неизвестные значения превращаются в UNKNOWN
func ParsePopupStatus(s string) PopupStatus {
	switch PopupStatus(s) {
	case PopupStatusPlanned, PopupStatusOngoing, PopupStatusEnded:
		return PopupStatus(s)
	default:
		return PopupStatusUnknown
	}
}

// OperatingHours строка расписания: день недели и интервал работы
// На один день может быть несколько строк (раздельные смены)
type OperatingHours struct {
	DayOfWeek time.Weekday
	OpenTime  types.TimeString
	CloseTime types.TimeString
}

// Popup модель попапа на чтение из PopupService
type Popup struct {
	ID                 int64
	BrandID            int64
	Name               string
	Status             PopupStatus
	ReservationEnabled bool
	StartDate          time.Time // первая дата работы, полночь в часовом поясе попапа
	EndDate            time.Time // последняя дата работы, включительно
	OperatingHours     []OperatingHours
}

// AcceptsReservations статический флаг попапа
func (p *Popup) AcceptsReservations() bool {
	return p.ReservationEnabled
}

// HoursFor строки расписания на день недели в исходном порядке
func (p *Popup) HoursFor(day time.Weekday) []OperatingHours {
	hours := make([]OperatingHours, 0, 1)
	for _, h := range p.OperatingHours {
		if h.DayOfWeek == day {
			hours = append(hours, h)
		}
	}
	return hours
}

// IsOpenOn есть ли хотя бы одна строка расписания на день недели
func (p *Popup) IsOpenOn(day time.Weekday) bool {
	for _, h := range p.OperatingHours {
		if h.DayOfWeek == day {
			return true
		}
	}
	return false
}

// IsRunningOn дата входит в период работы попапа (по календарным датам)
func (p *Popup) IsRunningOn(date time.Time) bool {
	d := CivilDate(date)
	if !p.StartDate.IsZero() && d.Before(CivilDate(p.StartDate)) {
		return false
	}
	if !p.EndDate.IsZero() && d.After(CivilDate(p.EndDate)) {
		return false
	}
	return true
}

// CivilDate календарная дата момента t (в его часовом поясе) как полночь UTC
// Используется для сравнения и подсчета дней без влияния перехода на летнее время
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween количество календарных дней от from до to
func DaysBetween(from, to time.Time) int {
	return int(CivilDate(to).Sub(CivilDate(from)).Hours() / 24)
}
