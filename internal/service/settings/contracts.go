package settings

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// SettingsRepository хранилище настроек бронирования
type SettingsRepository interface {
	GetByPopupID(ctx context.Context, popupID int64) (*domain.ReservationSettings, error)
	CreateIfAbsent(ctx context.Context, s domain.ReservationSettings) error
	Update(ctx context.Context, s domain.ReservationSettings) (*domain.ReservationSettings, error)
}

// SettingsCache кеш настроек по ID попапа
type SettingsCache interface {
	Get(ctx context.Context, popupID int64) (*domain.ReservationSettings, error)
	Set(ctx context.Context, s domain.ReservationSettings) error
	Delete(ctx context.Context, popupID int64) error
}

// AccessChecker проверка существования попапа и прав хоста
type AccessChecker interface {
	GetPopup(ctx context.Context, popupID int64) (*domain.Popup, error)
	RequireHost(ctx context.Context, popupID, userID int64) (*domain.Popup, error)
}

// Metrics счетчики попаданий в кеш
type Metrics interface {
	RecordSettingsCache(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
