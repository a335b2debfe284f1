package update_reservation_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/access"
	"github.com/m04kA/SMC-ReservationService/internal/service/settings"
)

const (
	msgInvalidPopupID     = "некорректный ID попапа"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgPopupNotFound      = "попап не найден"
	msgForbidden          = "доступ запрещен"
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

// Handle PUT /api/v1/popups/{popupId}/reservation-settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	popupID, err := handlers.PathID(r, "popupId")
	if err != nil {
		h.logger.Warn("PUT /popups/{id}/reservation-settings - Invalid popup ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPopupID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /popups/{id}/reservation-settings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /popups/{id}/reservation-settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Сервис сам проверит, что пользователь состоит в бренде попапа
	result, err := h.service.UpdateBasic(r.Context(), req.ToServiceRequest(userID, popupID))
	if err != nil {
		switch {
		case errors.Is(err, access.ErrPopupNotFound):
			h.logger.Warn("PUT /popups/{id}/reservation-settings - Popup not found: popup_id=%d", popupID)
			handlers.RespondNotFound(w, msgPopupNotFound)

		case errors.Is(err, access.ErrAccessDenied):
			h.logger.Warn("PUT /popups/{id}/reservation-settings - Access denied: popup_id=%d, user_id=%d", popupID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, settings.ErrInvalidSettings):
			// причина (какое поле вне диапазона) уходит клиенту как есть
			h.logger.Warn("PUT /popups/{id}/reservation-settings - Invalid settings: popup_id=%d, error=%v", popupID, err)
			handlers.RespondDomainError(w, err)

		default:
			h.logger.Error("PUT /popups/{id}/reservation-settings - Failed to update settings: popup_id=%d, error=%v",
				popupID, err)
			handlers.RespondDomainError(w, err)
		}
		return
	}

	h.logger.Info("PUT /popups/{id}/reservation-settings - Settings updated: popup_id=%d, user_id=%d", popupID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
