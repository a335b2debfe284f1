package get_popup_reservations

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(
	popupID int64,
	userID int64,
	dateStr string,
	statusStr string,
	includeInactiveStr string,
) (*models.GetPopupReservationsRequest, error) {
	req := &models.GetPopupReservationsRequest{
		UserID:  userID,
		PopupID: popupID,
	}

	if dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}

	if statusStr != "" {
		if _, err := domain.ParseReservationStatus(statusStr); err != nil {
			return nil, err
		}
		req.Status = &statusStr
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
