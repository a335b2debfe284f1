package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

// Service сервис чтения бронирований
type Service struct {
	reservationRepo ReservationRepository
	access          AccessChecker
	location        *time.Location
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	access AccessChecker,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		access:          access,
		location:        location,
		logger:          logger,
	}
}

// GetByID получает бронирование по ID
// Видеть бронирование может его владелец или хост попапа
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, userID)

	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !res.IsOwnedBy(userID) {
		popup, err := s.access.GetPopup(ctx, res.PopupID)
		if err != nil {
			return nil, err
		}
		isHost, err := s.access.IsHost(ctx, popup, userID)
		if err != nil {
			return nil, err
		}
		if !isHost {
			s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", userID, id)
			return nil, ErrAccessDenied
		}
	}

	return models.FromDomainReservation(res, s.location), nil
}

// GetUserReservations получает бронирования пользователя, новые сверху
// Опционально фильтрует по статусу
func (s *Service) GetUserReservations(ctx context.Context, req *models.GetUserReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetUserReservations: fetching reservations for user=%d, status=%v", req.UserID, req.Status)

	var status *domain.ReservationStatus
	if req.Status != nil {
		parsed, err := domain.ParseReservationStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserReservations: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		status = &parsed
	}

	list, err := s.reservationRepo.GetByUserID(ctx, req.UserID, status)
	if err != nil {
		s.logger.Error("GetUserReservations: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserReservations: fetched %d reservations for user=%d", len(list), req.UserID)
	return models.FromDomainReservationList(list, s.location), nil
}

// GetPopupReservations получает бронирования попапа для хоста
// По умолчанию только активные; дата, статус и includeInactive сужают или расширяют выборку
func (s *Service) GetPopupReservations(ctx context.Context, req *models.GetPopupReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetPopupReservations: fetching reservations for popup=%d, user=%d, status=%v, includeInactive=%t",
		req.PopupID, req.UserID, req.Status, req.IncludeInactive)

	if _, err := s.access.RequireHost(ctx, req.PopupID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter(s.location)
	if err != nil {
		s.logger.Warn("GetPopupReservations: invalid filter for popup=%d: %v", req.PopupID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	list, err := s.reservationRepo.GetByPopupWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetPopupReservations: repository error for popup=%d: %v", req.PopupID, err)
		return nil, fmt.Errorf("%w: GetPopupReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetPopupReservations: fetched %d reservations for popup=%d", len(list), req.PopupID)
	return models.FromDomainReservationList(list, s.location), nil
}
