package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	createReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
)

const (
	msgInvalidPopupID     = "некорректный ID попапа"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DDTHH:MM"
	msgMissingUserID      = "отсутствует ID пользователя"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/popups/{popupId}/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	popupID, err := handlers.PathID(r, "popupId")
	if err != nil {
		h.logger.Warn("POST /popups/{id}/reservations - Invalid popup ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPopupID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /popups/{id}/reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /popups/{id}/reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID, popupID)
	if err != nil {
		h.logger.Warn("POST /popups/{id}/reservations - Invalid reservation date %q: %v", req.ReservationDate, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrPopupNotFound):
			h.logger.Warn("POST /popups/{id}/reservations - Popup not found: popup_id=%d", popupID)

		case errors.Is(err, createReservation.ErrAlreadyReserved):
			h.logger.Warn("POST /popups/{id}/reservations - Already reserved: popup_id=%d, user_id=%d", popupID, userID)

		case errors.Is(err, createReservation.ErrPaymentNotVerified),
			errors.Is(err, createReservation.ErrPaymentAlreadyUsed):
			h.logger.Warn("POST /popups/{id}/reservations - Payment rejected: popup_id=%d, user_id=%d, reason=%v",
				popupID, userID, err)

		case errors.Is(err, createReservation.ErrInsufficientCapacity),
			errors.Is(err, createReservation.ErrSlotUnavailable),
			errors.Is(err, createReservation.ErrSlotNotFound):
			h.logger.Warn("POST /popups/{id}/reservations - Slot rejected: popup_id=%d, user_id=%d, date=%s, reason=%v",
				popupID, userID, req.ReservationDate, err)

		case errors.Is(err, domain.ErrInternal):
			h.logger.Error("POST /popups/{id}/reservations - Failed to create reservation: popup_id=%d, user_id=%d, error=%v",
				popupID, userID, err)

		default:
			h.logger.Warn("POST /popups/{id}/reservations - Rejected: popup_id=%d, user_id=%d, reason=%v",
				popupID, userID, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("POST /popups/{id}/reservations - Reservation created: reservation_id=%d, popup_id=%d, user_id=%d",
		result.ID, popupID, userID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
