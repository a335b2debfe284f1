package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	createReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	Name            string  `json:"name"`
	Phone           string  `json:"phone"`
	PartySize       int     `json:"partySize"`
	ReservationDate string  `json:"reservationDate"` // "2025-03-17T10:00", локальное время попапа
	PaymentKey      *string `json:"paymentKey,omitempty"` // Stripe PaymentIntent, сумма берется у провайдера
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID              int64     `json:"id"`
	PopupID         int64     `json:"popupId"`
	PartySize       int       `json:"partySize"`
	ReservationDate string    `json:"reservationDate"`
	Status          string    `json:"status"`
	Remaining       int       `json:"remaining"`
	ReservedAt      time.Time `json:"reservedAt"`
}

// ToUseCaseRequest разбирает reservationDate на дату и время начала слота
func (r *CreateReservationRequest) ToUseCaseRequest(userID, popupID int64) (*createReservation.Request, error) {
	at, err := time.Parse(domain.DateTimeFormat, r.ReservationDate)
	if err != nil {
		return nil, err
	}

	return &createReservation.Request{
		UserID:        userID,
		PopupID:       popupID,
		ContactName:   r.Name,
		ContactPhone:  r.Phone,
		PartySize:     r.PartySize,
		Date:          at,
		StartTime:     types.NewTimeString(at),
		PaymentKey:    r.PaymentKey,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ID:              resp.ID,
		PopupID:         resp.PopupID,
		PartySize:       resp.PartySize,
		ReservationDate: resp.ReservationDate.Format(domain.DateTimeFormat),
		Status:          resp.Status,
		Remaining:       resp.Remaining,
		ReservedAt:      resp.ReservedAt,
	}
}
