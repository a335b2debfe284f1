package mark_visited

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/service/access"
	"github.com/m04kA/SMC-ReservationService/pkg/events"
)

// UseCase отметка посещения бронирования хостом
type UseCase struct {
	reservationRepo ReservationRepository
	access          AccessChecker
	txManager       TransactionManager
	publisher       EventPublisher
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	access AccessChecker,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		access:          access,
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

// Execute переводит бронирование RESERVED -> VISITED
// Повторная отметка посещенного или отмененного бронирования возвращает ErrNotActive
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("MarkVisited: reservation id=%d by host=%d", req.ReservationID, req.HostID)

	now := uc.timeProvider.Now()
	var visited *domain.Reservation

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		res, err := uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			uc.logger.Error("MarkVisited: repository error for id=%d: %v", req.ReservationID, err)
			return fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
		}

		popup, err := uc.access.GetPopup(txCtx, res.PopupID)
		if err != nil {
			if errors.Is(err, access.ErrPopupNotFound) {
				return ErrPopupNotFound
			}
			return err
		}

		isHost, err := uc.access.IsHost(txCtx, popup, req.HostID)
		if err != nil {
			return err
		}
		if !isHost {
			uc.logger.Warn("MarkVisited: user=%d is not a member of brand=%d", req.HostID, popup.BrandID)
			return ErrNotHost
		}

		if !res.CanTransitionTo(domain.StatusVisited) {
			uc.logger.Warn("MarkVisited: reservation id=%d is %s", res.ID, res.Status)
			return ErrNotActive
		}

		if err := uc.reservationRepo.UpdateStatus(txCtx, res.ID, domain.StatusReserved, domain.StatusVisited, now); err != nil {
			if errors.Is(err, reservationRepo.ErrStatusConflict) {
				return ErrNotActive
			}
			uc.logger.Error("MarkVisited: failed to update status for id=%d: %v", res.ID, err)
			return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
		}

		res.Status = domain.StatusVisited
		res.VisitedAt = &now
		visited = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("MarkVisited: reservation id=%d marked visited", visited.ID)
	uc.metrics.RecordReservation(string(domain.StatusVisited))

	if err := uc.publisher.Publish(ctx, events.ReservationVisited, events.ReservationVisitedEvent{
		ReservationID: visited.ID,
		PopupID:       visited.PopupID,
		UserID:        visited.UserID,
		MarkedBy:      req.HostID,
		VisitedAt:     now,
	}); err != nil {
		uc.logger.Warn("MarkVisited: failed to publish %s for id=%d: %v", events.ReservationVisited, visited.ID, err)
	}

	return &Response{
		ID:        visited.ID,
		Status:    string(visited.Status),
		VisitedAt: now,
	}, nil
}
