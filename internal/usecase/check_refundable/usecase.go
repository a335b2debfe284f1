package check_refundable

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/schedule"
)

// UseCase проверка, доступна ли отмена с возвратом
// Только чтение; любая ошибка поиска дает false
type UseCase struct {
	reservationRepo ReservationRepository
	settings        SettingsReader
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(reservationRepo ReservationRepository, settings SettingsReader, logger Logger) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		settings:        settings,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute повторяет проверки отмены без изменения данных:
// владелец, бронирование активно, срок отмены не прошел, оплата была
func (uc *UseCase) Execute(ctx context.Context, req *Request) *Response {
	return &Response{
		ReservationID: req.ReservationID,
		Refundable:    uc.refundable(ctx, req),
	}
}

func (uc *UseCase) refundable(ctx context.Context, req *Request) bool {
	res, err := uc.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		uc.logger.Warn("CheckRefundable: reservation id=%d lookup failed: %v", req.ReservationID, err)
		return false
	}

	if !res.IsOwnedBy(req.UserID) || !res.IsActive() || !res.IsPaid() {
		return false
	}

	settings, err := uc.settings.Peek(ctx, res.PopupID)
	if err != nil {
		uc.logger.Warn("CheckRefundable: settings lookup failed for popup=%d: %v", res.PopupID, err)
		return false
	}

	return schedule.CanCancel(res.ReservationDate, settings, uc.timeProvider.Now())
}
