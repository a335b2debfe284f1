package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Publisher публикует доменные события во внешнюю шину
type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

// Subjects событий бронирований
const (
	ReservationCreated   = "reservation.created"
	ReservationCancelled = "reservation.cancelled"
	ReservationVisited   = "reservation.visited"
	PaymentRefunded      = "payment.refunded"
)

// Envelope обёртка события на проводе
type Envelope struct {
	ID         string          `json:"id"`
	Subject    string          `json:"subject"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// NewEnvelope сериализует payload в конверт с уникальным ID
func NewEnvelope(subject string, data interface{}) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}

	return json.Marshal(Envelope{
		ID:         uuid.NewString(),
		Subject:    subject,
		OccurredAt: time.Now().UTC(),
		Data:       payload,
	})
}

type ReservationCreatedEvent struct {
	ReservationID   int64     `json:"reservation_id"`
	PopupID         int64     `json:"popup_id"`
	UserID          int64     `json:"user_id"`
	PartySize       int       `json:"party_size"`
	ReservationDate time.Time `json:"reservation_date"`
	ReservedAt      time.Time `json:"reserved_at"`
}

type ReservationCancelledEvent struct {
	ReservationID int64     `json:"reservation_id"`
	PopupID       int64     `json:"popup_id"`
	UserID        int64     `json:"user_id"`
	PartySize     int       `json:"party_size"`
	Refunded      bool      `json:"refunded"`
	CancelledAt   time.Time `json:"cancelled_at"`
}

type ReservationVisitedEvent struct {
	ReservationID int64     `json:"reservation_id"`
	PopupID       int64     `json:"popup_id"`
	UserID        int64     `json:"user_id"`
	MarkedBy      int64     `json:"marked_by"`
	VisitedAt     time.Time `json:"visited_at"`
}

type PaymentRefundedEvent struct {
	ReservationID int64     `json:"reservation_id"`
	PaymentKey    string    `json:"payment_key"`
	RefundID      string    `json:"refund_id"`
	Amount        int64     `json:"amount"`
	RefundedAt    time.Time `json:"refunded_at"`
}
