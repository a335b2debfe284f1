package domain

import (
	"fmt"
	"time"
)

// ReservationStatus статус бронирования
type ReservationStatus string

const (
	StatusReserved  ReservationStatus = "RESERVED"
	StatusCancelled ReservationStatus = "CANCELLED"
	StatusVisited   ReservationStatus = "VISITED"
)

// InactiveStatuses статусы, не занимающие вместимость слота
var InactiveStatuses = []ReservationStatus{
	StatusCancelled,
	StatusVisited,
}

// ParseReservationStatus парсит статус из строки
func ParseReservationStatus(s string) (ReservationStatus, error) {
	switch ReservationStatus(s) {
	case StatusReserved, StatusCancelled, StatusVisited:
		return ReservationStatus(s), nil
	default:
		return "", fmt.Errorf("%w: unknown reservation status %q", ErrInvalidInput, s)
	}
}

// Reservation бронирование посещения попапа
type Reservation struct {
	ID              int64
	PopupID         int64
	UserID          int64
	ContactName     string
	ContactPhone    string
	PartySize       int
	ReservationDate time.Time // совпадает с началом одного из слотов
	Status          ReservationStatus

	PaymentAmount    int64   // в минимальных единицах валюты
	PaymentCompleted bool    // оплата прошла, при отмене нужен возврат
	PaymentKey       *string // идентификатор платежа у провайдера (Stripe PaymentIntent)

	ReservedAt  time.Time
	CancelledAt *time.Time
	VisitedAt   *time.Time
	UpdatedAt   time.Time
}

// IsActive бронирование занимает место в слоте
func (r *Reservation) IsActive() bool {
	return r.Status == StatusReserved
}

// IsOwnedBy бронирование принадлежит пользователю
func (r *Reservation) IsOwnedBy(userID int64) bool {
	return r.UserID == userID
}

// IsPaid к бронированию привязан завершенный платеж
func (r *Reservation) IsPaid() bool {
	return r.PaymentCompleted
}

// CanTransitionTo переходы статусов монотонны: RESERVED -> CANCELLED | VISITED
func (r *Reservation) CanTransitionTo(next ReservationStatus) bool {
	return r.Status == StatusReserved && (next == StatusCancelled || next == StatusVisited)
}

// PopupReservationsFilter фильтр бронирований попапа для хоста
type PopupReservationsFilter struct {
	PopupID         int64              // Обязательный параметр
	StartDate       *time.Time         // Начало периода, включительно
	EndDate         *time.Time         // Конец периода, не включительно
	Status          *ReservationStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать отмененные и посещенные
}
