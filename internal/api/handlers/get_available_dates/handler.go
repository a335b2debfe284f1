package get_available_dates

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	getAvailableDates "github.com/m04kA/SMC-ReservationService/internal/usecase/get_available_dates"
)

const (
	msgInvalidPopupID = "некорректный ID попапа"
	msgPopupNotFound  = "попап не найден"
)

type Handler struct {
	useCase GetAvailableDatesUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableDatesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/popups/{popupId}/reservations/available-dates
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	popupID, err := handlers.PathID(r, "popupId")
	if err != nil {
		h.logger.Warn("GET /popups/{id}/reservations/available-dates - Invalid popup ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPopupID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableDates.Request{PopupID: popupID})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableDates.ErrPopupNotFound):
			h.logger.Warn("GET /popups/{id}/reservations/available-dates - Popup not found: popup_id=%d", popupID)
			handlers.RespondNotFound(w, msgPopupNotFound)

		default:
			h.logger.Error("GET /popups/{id}/reservations/available-dates - Failed to get dates: popup_id=%d, error=%v",
				popupID, err)
			handlers.RespondDomainError(w, err)
		}
		return
	}

	h.logger.Info("GET /popups/{id}/reservations/available-dates - Dates retrieved: popup_id=%d, count=%d",
		popupID, len(result.Dates))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
