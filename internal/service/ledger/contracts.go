package ledger

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// ReservationRepository источник активных бронирований
type ReservationRepository interface {
	SumActivePartySize(ctx context.Context, popupID int64, from, to time.Time) (int, error)
	GetByPopupWithFilter(ctx context.Context, filter domain.PopupReservationsFilter) ([]*domain.Reservation, error)
	LockSlot(ctx context.Context, popupID int64, slotStart time.Time) error
}
