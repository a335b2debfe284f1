package get_available_dates

import (
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	getAvailableDates "github.com/m04kA/SMC-ReservationService/internal/usecase/get_available_dates"
)

// AvailableDatesResponse HTTP response model
type AvailableDatesResponse struct {
	PopupID int64    `json:"popupId"`
	Dates   []string `json:"dates"` // "2025-03-17"
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableDates.Response) *AvailableDatesResponse {
	dates := make([]string, 0, len(resp.Dates))
	for _, d := range resp.Dates {
		dates = append(dates, d.Format(domain.DateFormat))
	}
	return &AvailableDatesResponse{
		PopupID: resp.PopupID,
		Dates:   dates,
	}
}
