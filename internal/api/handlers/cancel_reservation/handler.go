package cancel_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	cancelReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/cancel_reservation"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNotFound             = "бронирование не найдено"
	msgForbidden            = "отменить бронирование может только его владелец"
	msgNotActive            = "бронирование уже отменено или посещено"
	msgPastDeadline         = "срок отмены бронирования истек"
	msgRefundFailed         = "не удалось вернуть оплату, бронирование не отменено, попробуйте позже"
)

type Handler struct {
	useCase CancelReservationUseCase
	logger  Logger
}

func NewHandler(useCase CancelReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/reservations/{reservationId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathID(r, "reservationId")
	if err != nil {
		h.logger.Warn("PUT /reservations/{id}/cancel - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /reservations/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &cancelReservation.Request{
		ReservationID: reservationID,
		UserID:        userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, cancelReservation.ErrReservationNotFound):
			h.logger.Warn("PUT /reservations/{id}/cancel - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, cancelReservation.ErrNotOwner):
			h.logger.Warn("PUT /reservations/{id}/cancel - Not owner: reservation_id=%d, user_id=%d", reservationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, cancelReservation.ErrNotActive):
			h.logger.Warn("PUT /reservations/{id}/cancel - Not active: reservation_id=%d", reservationID)
			handlers.RespondInvalidState(w, msgNotActive)

		case errors.Is(err, cancelReservation.ErrPastDeadline):
			h.logger.Warn("PUT /reservations/{id}/cancel - Past deadline: reservation_id=%d", reservationID)
			handlers.RespondInvalidState(w, msgPastDeadline)

		case errors.Is(err, cancelReservation.ErrRefundFailed):
			h.logger.Error("PUT /reservations/{id}/cancel - Refund failed: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondError(w, http.StatusInternalServerError, msgRefundFailed)

		default:
			h.logger.Error("PUT /reservations/{id}/cancel - Failed to cancel reservation: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondDomainError(w, err)
		}
		return
	}

	h.logger.Info("PUT /reservations/{id}/cancel - Reservation cancelled: reservation_id=%d, user_id=%d, refunded=%t",
		reservationID, userID, result.Refunded)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
