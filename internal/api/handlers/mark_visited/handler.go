package mark_visited

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	markVisited "github.com/m04kA/SMC-ReservationService/internal/usecase/mark_visited"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNotFound             = "бронирование не найдено"
	msgPopupNotFound        = "попап не найден"
	msgForbidden            = "отмечать посещения могут только участники бренда"
	msgNotActive            = "бронирование уже отменено или посещено"
)

type Handler struct {
	useCase MarkVisitedUseCase
	logger  Logger
}

func NewHandler(useCase MarkVisitedUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/reservations/{reservationId}/visit
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathID(r, "reservationId")
	if err != nil {
		h.logger.Warn("PUT /reservations/{id}/visit - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	hostID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /reservations/{id}/visit - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &markVisited.Request{
		ReservationID: reservationID,
		HostID:        hostID,
	})
	if err != nil {
		switch {
		case errors.Is(err, markVisited.ErrReservationNotFound):
			h.logger.Warn("PUT /reservations/{id}/visit - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, markVisited.ErrPopupNotFound):
			h.logger.Warn("PUT /reservations/{id}/visit - Popup not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgPopupNotFound)

		case errors.Is(err, markVisited.ErrNotHost):
			h.logger.Warn("PUT /reservations/{id}/visit - Not a host: reservation_id=%d, user_id=%d", reservationID, hostID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, markVisited.ErrNotActive):
			h.logger.Warn("PUT /reservations/{id}/visit - Not active: reservation_id=%d", reservationID)
			handlers.RespondInvalidState(w, msgNotActive)

		default:
			h.logger.Error("PUT /reservations/{id}/visit - Failed to mark visit: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondDomainError(w, err)
		}
		return
	}

	h.logger.Info("PUT /reservations/{id}/visit - Reservation marked visited: reservation_id=%d, host_id=%d",
		reservationID, hostID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
