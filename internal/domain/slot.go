package domain

import "time"

// TimeSlot слот фиксированной длины в рамках часов работы
// Вычисляется на каждый запрос и не сохраняется
type TimeSlot struct {
	Start     time.Time
	End       time.Time
	Capacity  int
	Occupancy int    // сумма размеров групп активных бронирований
	Bookable  bool   // слот проходит политику окна бронирования
	Reason    string // причина недоступности, пусто если слот доступен
}

// Remaining свободная вместимость
func (s TimeSlot) Remaining() int {
	if s.Occupancy >= s.Capacity {
		return 0
	}
	return s.Capacity - s.Occupancy
}

// Available слот можно забронировать хотя бы на одного человека
func (s TimeSlot) Available() bool {
	return s.Bookable && s.Occupancy < s.Capacity
}

// CanAdmit помещается ли группа размера partySize
func (s TimeSlot) CanAdmit(partySize int) bool {
	return s.Occupancy+partySize <= s.Capacity
}

// UnavailableReason причина недоступности: сначала политика, затем заполненность
func (s TimeSlot) UnavailableReason() string {
	if !s.Bookable {
		return s.Reason
	}
	if s.Occupancy >= s.Capacity {
		return ReasonFullyBooked
	}
	return ""
}
