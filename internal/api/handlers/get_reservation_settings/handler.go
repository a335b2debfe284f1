package get_reservation_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/service/access"
)

const (
	msgInvalidPopupID = "некорректный ID попапа"
	msgPopupNotFound  = "попап не найден"
)

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/popups/{popupId}/reservation-settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	popupID, err := handlers.PathID(r, "popupId")
	if err != nil {
		h.logger.Warn("GET /popups/{id}/reservation-settings - Invalid popup ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPopupID)
		return
	}

	result, err := h.service.Get(r.Context(), popupID)
	if err != nil {
		switch {
		case errors.Is(err, access.ErrPopupNotFound):
			h.logger.Warn("GET /popups/{id}/reservation-settings - Popup not found: popup_id=%d", popupID)
			handlers.RespondNotFound(w, msgPopupNotFound)

		default:
			h.logger.Error("GET /popups/{id}/reservation-settings - Failed to get settings: popup_id=%d, error=%v",
				popupID, err)
			handlers.RespondDomainError(w, err)
		}
		return
	}

	h.logger.Info("GET /popups/{id}/reservation-settings - Settings retrieved: popup_id=%d", popupID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
