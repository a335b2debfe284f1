package get_popup_reservations

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/access"
)

const (
	msgInvalidPopupID = "некорректный ID попапа"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgInvalidParams  = "некорректные параметры запроса"
	msgForbidden      = "доступ запрещен"
	msgPopupNotFound  = "попап не найден"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/popups/{popupId}/reservations
// Query params: date, status, includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	popupID, err := handlers.PathID(r, "popupId")
	if err != nil {
		h.logger.Warn("GET /popups/{id}/reservations - Invalid popup ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPopupID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /popups/{id}/reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(popupID, userID, query.Get("date"), query.Get("status"), query.Get("includeInactive"))
	if err != nil {
		h.logger.Warn("GET /popups/{id}/reservations - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Сервис сам проверит, что пользователь состоит в бренде попапа
	result, err := h.service.GetPopupReservations(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, access.ErrAccessDenied):
			h.logger.Warn("GET /popups/{id}/reservations - Access denied: popup_id=%d, user_id=%d", popupID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, access.ErrPopupNotFound):
			h.logger.Warn("GET /popups/{id}/reservations - Popup not found: popup_id=%d", popupID)
			handlers.RespondNotFound(w, msgPopupNotFound)

		default:
			h.logger.Error("GET /popups/{id}/reservations - Failed to get reservations: popup_id=%d, error=%v", popupID, err)
			handlers.RespondDomainError(w, err)
		}
		return
	}

	h.logger.Info("GET /popups/{id}/reservations - Reservations retrieved: popup_id=%d, count=%d",
		popupID, len(result.Reservations))
	handlers.RespondJSON(w, http.StatusOK, result)
}
