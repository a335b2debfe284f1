package cancel_reservation

import (
	"time"

	cancelReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/cancel_reservation"
)

// CancelReservationResponse HTTP response model
type CancelReservationResponse struct {
	ID          int64     `json:"id"`
	Status      string    `json:"status"`
	Refunded    bool      `json:"refunded"`
	RefundID    string    `json:"refundId,omitempty"`
	CancelledAt time.Time `json:"cancelledAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelReservation.Response) *CancelReservationResponse {
	return &CancelReservationResponse{
		ID:          resp.ID,
		Status:      resp.Status,
		Refunded:    resp.Refunded,
		RefundID:    resp.RefundID,
		CancelledAt: resp.CancelledAt,
	}
}
