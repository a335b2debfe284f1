package cancel_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/payments"
	"github.com/m04kA/SMC-ReservationService/internal/service/schedule"
	"github.com/m04kA/SMC-ReservationService/pkg/events"
)

const (
	refundSuccess = "success"
	refundFailure = "failure"
)

// UseCase use case для отмены бронирования с возвратом оплаты
type UseCase struct {
	reservationRepo ReservationRepository
	settings        SettingsProvider
	refunder        Refunder
	txManager       TransactionManager
	publisher       EventPublisher
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	settings SettingsProvider,
	refunder Refunder,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		settings:        settings,
		refunder:        refunder,
		txManager:       txManager,
		publisher:       publisher,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute отменяет бронирование
//
// Настройки попапа разрешаются до транзакции, чтобы создание строки по умолчанию
// и запись в кеш не зависели от отката отмены.
// Строка бронирования блокируется на время транзакции. Оплаченное бронирование
// сначала возвращается синхронно; при ошибке или таймауте возврата транзакция
// откатывается и бронирование остается RESERVED. Повторить отмену должен вызывающий.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelReservation: reservation id=%d by user=%d", req.ReservationID, req.UserID)

	now := uc.timeProvider.Now()

	current, err := uc.getOwned(ctx, req)
	if err != nil {
		return nil, err
	}

	settings, err := uc.settings.Resolve(ctx, current.PopupID)
	if err != nil {
		uc.logger.Error("CancelReservation: failed to resolve settings for popup=%d: %v", current.PopupID, err)
		return nil, err
	}

	var (
		cancelled *domain.Reservation
		refund    *payments.RefundResult
	)

	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		res, err := uc.getOwned(txCtx, req)
		if err != nil {
			return err
		}

		if !res.CanTransitionTo(domain.StatusCancelled) {
			uc.logger.Warn("CancelReservation: reservation id=%d is %s", res.ID, res.Status)
			return ErrNotActive
		}

		if !schedule.CanCancel(res.ReservationDate, settings, now) {
			uc.logger.Warn("CancelReservation: reservation id=%d past deadline (%dh before start)",
				res.ID, settings.CancellationDeadlineHours)
			return ErrPastDeadline
		}

		if res.IsPaid() {
			result, err := uc.refunder.Refund(txCtx, res)
			if err != nil {
				uc.metrics.RecordRefund(refundFailure)
				uc.logger.Error("CancelReservation: refund failed for reservation id=%d: %v", res.ID, err)
				return fmt.Errorf("%w: %v", ErrRefundFailed, err)
			}
			uc.metrics.RecordRefund(refundSuccess)
			refund = result
		}

		if err := uc.reservationRepo.UpdateStatus(txCtx, res.ID, domain.StatusReserved, domain.StatusCancelled, now); err != nil {
			if errors.Is(err, reservationRepo.ErrStatusConflict) {
				return ErrNotActive
			}
			uc.logger.Error("CancelReservation: failed to update status for id=%d: %v", res.ID, err)
			return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
		}

		res.Status = domain.StatusCancelled
		res.CancelledAt = &now
		cancelled = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CancelReservation: reservation id=%d cancelled, refunded=%t", cancelled.ID, refund != nil)
	uc.metrics.RecordReservation(string(domain.StatusCancelled))
	uc.publish(ctx, cancelled, refund, now)

	resp := &Response{
		ID:          cancelled.ID,
		Status:      string(cancelled.Status),
		Refunded:    refund != nil,
		CancelledAt: now,
	}
	if refund != nil {
		resp.RefundID = refund.RefundID
	}
	return resp, nil
}

// getOwned бронирование пользователя; внутри транзакции строка блокируется
func (uc *UseCase) getOwned(ctx context.Context, req *Request) (*domain.Reservation, error) {
	res, err := uc.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Warn("CancelReservation: reservation id=%d not found", req.ReservationID)
			return nil, ErrReservationNotFound
		}
		uc.logger.Error("CancelReservation: repository error for id=%d: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
	}

	if !res.IsOwnedBy(req.UserID) {
		uc.logger.Warn("CancelReservation: user=%d is not the owner of reservation id=%d", req.UserID, res.ID)
		return nil, ErrNotOwner
	}

	return res, nil
}

// publish события после коммита; ошибки публикации только логируются
func (uc *UseCase) publish(ctx context.Context, res *domain.Reservation, refund *payments.RefundResult, now time.Time) {
	if err := uc.publisher.Publish(ctx, events.ReservationCancelled, events.ReservationCancelledEvent{
		ReservationID: res.ID,
		PopupID:       res.PopupID,
		UserID:        res.UserID,
		PartySize:     res.PartySize,
		Refunded:      refund != nil,
		CancelledAt:   now,
	}); err != nil {
		uc.logger.Warn("CancelReservation: failed to publish %s for id=%d: %v", events.ReservationCancelled, res.ID, err)
	}

	if refund == nil {
		return
	}

	var paymentKey string
	if res.PaymentKey != nil {
		paymentKey = *res.PaymentKey
	}
	if err := uc.publisher.Publish(ctx, events.PaymentRefunded, events.PaymentRefundedEvent{
		ReservationID: res.ID,
		PaymentKey:    paymentKey,
		RefundID:      refund.RefundID,
		Amount:        refund.Amount,
		RefundedAt:    now,
	}); err != nil {
		uc.logger.Warn("CancelReservation: failed to publish %s for id=%d: %v", events.PaymentRefunded, res.ID, err)
	}
}
