package models

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request модели

// GetUserReservationsRequest запрос на получение бронирований пользователя
type GetUserReservationsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetPopupReservationsRequest запрос хоста на получение бронирований попапа
type GetPopupReservationsRequest struct {
	UserID          int64      `json:"userId"`
	PopupID         int64      `json:"popupId"`
	Date            *time.Time `json:"date,omitempty"`            // Бронирования на дату (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отмененные и посещенные
}

// ToDomainFilter конвертирует request в domain фильтр
// Дата превращается в полуинтервал [полночь, полночь следующего дня) в поясе loc
func (r *GetPopupReservationsRequest) ToDomainFilter(loc *time.Location) (domain.PopupReservationsFilter, error) {
	filter := domain.PopupReservationsFilter{
		PopupID:         r.PopupID,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Date != nil {
		y, m, d := r.Date.Date()
		start := time.Date(y, m, d, 0, 0, 0, 0, loc)
		end := start.AddDate(0, 0, 1)
		filter.StartDate = &start
		filter.EndDate = &end
	}

	if r.Status != nil {
		status, err := domain.ParseReservationStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID               int64      `json:"id"`
	PopupID          int64      `json:"popupId"`
	UserID           int64      `json:"userId"`
	ContactName      string     `json:"name"`
	ContactPhone     string     `json:"phone"`
	PartySize        int        `json:"partySize"`
	ReservationDate  string     `json:"reservationDate"` // "2025-03-10T10:00", локальное время попапа
	Date             string     `json:"date"`            // "2025-03-10"
	StartTime        string     `json:"startTime"`       // "10:00"
	Status           string     `json:"status"`
	PaymentAmount    int64      `json:"paymentAmount"`
	PaymentCompleted bool       `json:"paymentCompleted"`
	ReservedAt       time.Time  `json:"reservedAt"`
	CancelledAt      *time.Time `json:"cancelledAt,omitempty"`
	VisitedAt        *time.Time `json:"visitedAt,omitempty"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation, loc *time.Location) *ReservationResponse {
	if r == nil {
		return nil
	}

	local := r.ReservationDate.In(loc)
	return &ReservationResponse{
		ID:               r.ID,
		PopupID:          r.PopupID,
		UserID:           r.UserID,
		ContactName:      r.ContactName,
		ContactPhone:     r.ContactPhone,
		PartySize:        r.PartySize,
		ReservationDate:  local.Format(domain.DateTimeFormat),
		Date:             local.Format(domain.DateFormat),
		StartTime:        local.Format(domain.TimeFormat),
		Status:           string(r.Status),
		PaymentAmount:    r.PaymentAmount,
		PaymentCompleted: r.PaymentCompleted,
		ReservedAt:       r.ReservedAt,
		CancelledAt:      r.CancelledAt,
		VisitedAt:        r.VisitedAt,
	}
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation, loc *time.Location) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(reservations)),
	}

	for _, r := range reservations {
		if item := FromDomainReservation(r, loc); item != nil {
			resp.Reservations = append(resp.Reservations, *item)
		}
	}

	return resp
}
