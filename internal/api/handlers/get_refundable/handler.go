package get_refundable

import (
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	checkRefundable "github.com/m04kA/SMC-ReservationService/internal/usecase/check_refundable"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgMissingUserID        = "отсутствует ID пользователя"
)

// RefundableResponse HTTP response model
type RefundableResponse struct {
	ReservationID int64 `json:"reservationId"`
	Refundable    bool  `json:"refundable"`
}

type Handler struct {
	useCase CheckRefundableUseCase
	logger  Logger
}

func NewHandler(useCase CheckRefundableUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/reservations/{reservationId}/refundable
// Всегда 200: при любой ошибке поиска refundable=false
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathID(r, "reservationId")
	if err != nil {
		h.logger.Warn("GET /reservations/{id}/refundable - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /reservations/{id}/refundable - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result := h.useCase.Execute(r.Context(), &checkRefundable.Request{
		ReservationID: reservationID,
		UserID:        userID,
	})

	handlers.RespondJSON(w, http.StatusOK, RefundableResponse{
		ReservationID: result.ReservationID,
		Refundable:    result.Refundable,
	})
}
