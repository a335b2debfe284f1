package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/payments"
	"github.com/m04kA/SMC-ReservationService/internal/service/access"
	"github.com/m04kA/SMC-ReservationService/internal/service/ledger"
	"github.com/m04kA/SMC-ReservationService/internal/service/schedule"
	"github.com/m04kA/SMC-ReservationService/pkg/events"
)

// причины отказа для метрик
const (
	rejectDuplicate       = "duplicate"
	rejectPastDate        = "past_date"
	rejectPartySize       = "party_size"
	rejectSlotNotFound    = "slot_not_found"
	rejectSlotUnavailable = "slot_unavailable"
	rejectCapacity        = "capacity"
	rejectPayment         = "payment"
)

// UseCase use case для создания бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	popups          PopupProvider
	settings        SettingsProvider
	payments        PaymentVerifier
	ledger          CapacityLedger
	txManager       TransactionManager
	publisher       EventPublisher
	metrics         Metrics
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	popups PopupProvider,
	settings SettingsProvider,
	payments PaymentVerifier,
	ledger CapacityLedger,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		popups:          popups,
		settings:        settings,
		payments:        payments,
		ledger:          ledger,
		txManager:       txManager,
		publisher:       publisher,
		metrics:         metrics,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования
//
// Проверка вместимости и вставка идут в одной транзакции под блокировкой слота,
// поэтому параллельные запросы в один слот не превышают вместимость.
// Второе активное бронирование пользователя отсекается уникальным индексом.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: user=%d, popup=%d, date=%s, time=%s, party=%d",
		req.UserID, req.PopupID, req.Date.Format(domain.DateFormat), req.StartTime, req.PartySize)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now().In(uc.location)

	// 2. Получаем попап
	popup, err := uc.popups.GetPopup(ctx, req.PopupID)
	if err != nil {
		if errors.Is(err, access.ErrPopupNotFound) {
			uc.logger.Warn("CreateReservation: popup id=%d not found", req.PopupID)
			return nil, ErrPopupNotFound
		}
		uc.logger.Error("CreateReservation: failed to get popup id=%d: %v", req.PopupID, err)
		return nil, fmt.Errorf("%w: failed to get popup: %v", ErrInternal, err)
	}

	if !popup.AcceptsReservations() {
		uc.logger.Warn("CreateReservation: popup id=%d does not accept reservations (status=%s)", popup.ID, popup.Status)
		return nil, ErrReservationsDisabled
	}

	// 3. Быстрая проверка активного бронирования, окончательно решает уникальный индекс
	hasActive, err := uc.reservationRepo.HasActive(ctx, req.PopupID, req.UserID)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to check active reservation: %v", err)
		return nil, fmt.Errorf("%w: failed to check active reservation: %v", ErrInternal, err)
	}
	if hasActive {
		uc.logger.Warn("CreateReservation: user=%d already has an active reservation for popup=%d", req.UserID, req.PopupID)
		uc.metrics.RecordAdmissionRejected(rejectDuplicate)
		return nil, ErrAlreadyReserved
	}

	// 4. Настройки попапа
	settings, err := uc.settings.Resolve(ctx, req.PopupID)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to resolve settings for popup=%d: %v", req.PopupID, err)
		return nil, err
	}

	localDate := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, uc.location)
	requested, err := req.StartTime.On(localDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid reservation time: %v", ErrInvalidInput, err)
	}
	if !requested.After(now) {
		uc.logger.Warn("CreateReservation: reservation date %s is in the past", requested.Format(time.RFC3339))
		uc.metrics.RecordAdmissionRejected(rejectPastDate)
		return nil, ErrPastDate
	}

	if err := validatePartySize(req.PartySize, settings); err != nil {
		uc.logger.Warn("CreateReservation: %v", err)
		uc.metrics.RecordAdmissionRejected(rejectPartySize)
		return nil, err
	}

	// 5. Генерируем слоты дня и ищем запрошенный
	slots, err := schedule.GenerateSlots(popup, settings, localDate)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to generate slots for popup=%d: %v", popup.ID, err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	slot, ok := findSlot(slots, req)
	if !ok {
		uc.logger.Warn("CreateReservation: no slot at %s on %s for popup=%d",
			req.StartTime, localDate.Format(domain.DateFormat), popup.ID)
		uc.metrics.RecordAdmissionRejected(rejectSlotNotFound)
		return nil, ErrSlotNotFound
	}

	slot = schedule.ApplyPolicy(popup, []domain.TimeSlot{slot}, settings, now)[0]
	if !slot.Bookable {
		uc.logger.Warn("CreateReservation: slot %s unavailable: %s", slot.Start.Format(time.RFC3339), slot.Reason)
		uc.metrics.RecordAdmissionRejected(rejectSlotUnavailable)
		return nil, fmt.Errorf("%w: %s", ErrSlotUnavailable, slot.Reason)
	}

	// 6. Оплата подтверждается у провайдера, сумма берется оттуда же
	var payment *payments.VerifiedPayment
	if req.PaymentKey != nil {
		payment, err = uc.payments.Verify(ctx, *req.PaymentKey, req.UserID, popup.ID)
		if err != nil {
			if errors.Is(err, payments.ErrPaymentNotVerified) {
				uc.logger.Warn("CreateReservation: payment %s rejected for user=%d popup=%d: %v",
					*req.PaymentKey, req.UserID, popup.ID, err)
				uc.metrics.RecordAdmissionRejected(rejectPayment)
				return nil, fmt.Errorf("%w: %v", ErrPaymentNotVerified, err)
			}
			uc.logger.Error("CreateReservation: failed to verify payment %s: %v", *req.PaymentKey, err)
			return nil, fmt.Errorf("%w: failed to verify payment: %v", ErrInternal, err)
		}
	}

	// 7. Проверка вместимости и вставка атомарно по слоту
	var result *domain.Reservation
	var remaining int

	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.ledger.Acquire(txCtx, popup.ID, slot.Start); err != nil {
			uc.logger.Error("CreateReservation: failed to lock slot: %v", err)
			return fmt.Errorf("%w: failed to lock slot: %v", ErrInternal, err)
		}

		occupancy, err := uc.ledger.Occupancy(txCtx, popup.ID, slot)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to read occupancy: %v", err)
			return fmt.Errorf("%w: failed to read occupancy: %v", ErrInternal, err)
		}
		slot.Occupancy = occupancy

		if !ledger.Admit(slot, req.PartySize) {
			uc.logger.Warn("CreateReservation: slot %s full, %d/%d taken, party=%d",
				slot.Start.Format(time.RFC3339), occupancy, slot.Capacity, req.PartySize)
			return fmt.Errorf("%w (remaining %d)", ErrInsufficientCapacity, slot.Remaining())
		}

		res := &domain.Reservation{
			PopupID:         popup.ID,
			UserID:          req.UserID,
			ContactName:     req.ContactName,
			ContactPhone:    req.ContactPhone,
			PartySize:       req.PartySize,
			ReservationDate: slot.Start,
			Status:          domain.StatusReserved,
		}
		if payment != nil {
			res.PaymentAmount = payment.Amount
			res.PaymentCompleted = true
			res.PaymentKey = &payment.PaymentKey
		}

		created, err := uc.reservationRepo.Create(txCtx, res)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrDuplicateActive) {
				uc.logger.Warn("CreateReservation: concurrent duplicate for user=%d popup=%d", req.UserID, popup.ID)
				return ErrAlreadyReserved
			}
			if errors.Is(err, reservationRepo.ErrPaymentKeyUsed) {
				uc.logger.Warn("CreateReservation: payment %s already attached to another reservation", payment.PaymentKey)
				return ErrPaymentAlreadyUsed
			}
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}

		result = created
		remaining = slot.Capacity - occupancy - req.PartySize
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyReserved):
			uc.metrics.RecordAdmissionRejected(rejectDuplicate)
		case errors.Is(err, ErrInsufficientCapacity):
			uc.metrics.RecordAdmissionRejected(rejectCapacity)
		case errors.Is(err, ErrPaymentAlreadyUsed):
			uc.metrics.RecordAdmissionRejected(rejectPayment)
		}
		return nil, err
	}

	uc.logger.Info("CreateReservation: created reservation id=%d for popup=%d at %s",
		result.ID, result.PopupID, result.ReservationDate.Format(time.RFC3339))
	uc.metrics.RecordReservation(string(domain.StatusReserved))

	if err := uc.publisher.Publish(ctx, events.ReservationCreated, events.ReservationCreatedEvent{
		ReservationID:   result.ID,
		PopupID:         result.PopupID,
		UserID:          result.UserID,
		PartySize:       result.PartySize,
		ReservationDate: result.ReservationDate,
		ReservedAt:      result.ReservedAt,
	}); err != nil {
		uc.logger.Warn("CreateReservation: failed to publish %s for id=%d: %v", events.ReservationCreated, result.ID, err)
	}

	return &Response{
		ID:              result.ID,
		PopupID:         result.PopupID,
		PartySize:       result.PartySize,
		ReservationDate: result.ReservationDate,
		Status:          string(result.Status),
		Remaining:       remaining,
		ReservedAt:      result.ReservedAt,
	}, nil
}
