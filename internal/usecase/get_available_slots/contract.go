package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// PopupProvider получение попапа с приведенными ошибками
type PopupProvider interface {
	GetPopup(ctx context.Context, popupID int64) (*domain.Popup, error)
}

// SettingsProvider действующие настройки бронирования попапа
type SettingsProvider interface {
	Resolve(ctx context.Context, popupID int64) (domain.ReservationSettings, error)
}

// CapacityLedger учет занятости слотов
type CapacityLedger interface {
	Annotate(ctx context.Context, popupID int64, slots []domain.TimeSlot) ([]domain.TimeSlot, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
