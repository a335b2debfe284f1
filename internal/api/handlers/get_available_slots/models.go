package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-ReservationService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	PopupID int64          `json:"popupId"`
	Date    string         `json:"date"`
	Slots   []SlotResponse `json:"slots"`
}

// SlotResponse слот дня с занятостью
type SlotResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Capacity  int    `json:"capacity"`
	Occupancy int    `json:"occupancy"`
	Remaining int    `json:"remaining"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// ParseDate разбирает query параметр date
func ParseDate(raw string) (time.Time, error) {
	return time.Parse(domain.DateFormat, raw)
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime: s.StartTime.String(),
			EndTime:   s.EndTime.String(),
			Capacity:  s.Capacity,
			Occupancy: s.Occupancy,
			Remaining: s.Remaining,
			Available: s.Available,
			Reason:    s.Reason,
		})
	}

	return &AvailableSlotsResponse{
		PopupID: resp.PopupID,
		Date:    resp.Date.Format(domain.DateFormat),
		Slots:   slots,
	}
}
