package access

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// PopupClient источник данных о попапах и членстве в брендах
type PopupClient interface {
	GetPopup(ctx context.Context, popupID int64) (*domain.Popup, error)
	IsBrandMember(ctx context.Context, brandID, userID int64) (bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
