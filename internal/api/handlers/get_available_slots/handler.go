package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-ReservationService/internal/usecase/get_available_slots"
)

const (
	msgInvalidPopupID = "некорректный ID попапа"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingDate    = "отсутствует параметр date"
	msgPopupNotFound  = "попап не найден"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/popups/{popupId}/reservations/available-slots?date=YYYY-MM-DD
// Возвращает все слоты дня, включая недоступные, с причиной недоступности
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	popupID, err := handlers.PathID(r, "popupId")
	if err != nil {
		h.logger.Warn("GET /popups/{id}/reservations/available-slots - Invalid popup ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPopupID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /popups/{id}/reservations/available-slots - Missing date: popup_id=%d", popupID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := ParseDate(dateStr)
	if err != nil {
		h.logger.Warn("GET /popups/{id}/reservations/available-slots - Invalid date %q: %v", dateStr, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{PopupID: popupID, Date: date})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrPopupNotFound):
			h.logger.Warn("GET /popups/{id}/reservations/available-slots - Popup not found: popup_id=%d", popupID)
			handlers.RespondNotFound(w, msgPopupNotFound)

		default:
			h.logger.Error("GET /popups/{id}/reservations/available-slots - Failed to get slots: popup_id=%d, date=%s, error=%v",
				popupID, dateStr, err)
			handlers.RespondDomainError(w, err)
		}
		return
	}

	h.logger.Info("GET /popups/{id}/reservations/available-slots - Slots retrieved: popup_id=%d, date=%s, count=%d",
		popupID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
