package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/payments"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	HasActive(ctx context.Context, popupID, userID int64) (bool, error)
}

// PopupProvider получение попапа с приведенными ошибками
type PopupProvider interface {
	GetPopup(ctx context.Context, popupID int64) (*domain.Popup, error)
}

// SettingsProvider действующие настройки бронирования попапа
type SettingsProvider interface {
	Resolve(ctx context.Context, popupID int64) (domain.ReservationSettings, error)
}

// PaymentVerifier проверка приложенного клиентом платежа у провайдера
type PaymentVerifier interface {
	Verify(ctx context.Context, paymentKey string, userID, popupID int64) (*payments.VerifiedPayment, error)
}

// CapacityLedger учет занятости слотов
type CapacityLedger interface {
	Acquire(ctx context.Context, popupID int64, slotStart time.Time) error
	Occupancy(ctx context.Context, popupID int64, slot domain.TimeSlot) (int, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикация доменных событий
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// Metrics доменные счетчики
type Metrics interface {
	RecordReservation(status string)
	RecordAdmissionRejected(reason string)
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
