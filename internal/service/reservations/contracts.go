package reservations

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error)
	GetByPopupWithFilter(ctx context.Context, filter domain.PopupReservationsFilter) ([]*domain.Reservation, error)
}

// AccessChecker проверка прав хоста попапа
type AccessChecker interface {
	GetPopup(ctx context.Context, popupID int64) (*domain.Popup, error)
	IsHost(ctx context.Context, popup *domain.Popup, userID int64) (bool, error)
	RequireHost(ctx context.Context, popupID, userID int64) (*domain.Popup, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
