package popupservice

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Popup модель попапа из PopupService
type Popup struct {
	ID                 int64            `json:"id"`
	BrandID            int64            `json:"brand_id"`
	Name               string           `json:"name"`
	Status             string           `json:"status"` // PLANNED, ONGOING, ENDED
	ReservationEnabled bool             `json:"reservation_enabled"`
	StartDate          string           `json:"start_date"` // YYYY-MM-DD
	EndDate            string           `json:"end_date"`   // YYYY-MM-DD
	OperatingHours     []OperatingHours `json:"operating_hours"`
}

// OperatingHours строка расписания работы
type OperatingHours struct {
	DayOfWeek string `json:"day_of_week"` // MONDAY ... SUNDAY
	OpenTime  string `json:"open_time"`   // HH:MM
	CloseTime string `json:"close_time"`  // HH:MM
}

// BrandMembership ответ проверки членства в бренде
type BrandMembership struct {
	IsMember bool `json:"is_member"`
}

// ErrorResponse модель ошибки от PopupService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var weekdays = map[string]time.Weekday{
	"SUNDAY":    time.Sunday,
	"MONDAY":    time.Monday,
	"TUESDAY":   time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"THURSDAY":  time.Thursday,
	"FRIDAY":    time.Friday,
	"SATURDAY":  time.Saturday,
}

// ToDomain конвертирует ответ в доменную модель
// Даты интерпретируются в часовом поясе попапов loc
func (p *Popup) ToDomain(loc *time.Location) (*domain.Popup, error) {
	popup := &domain.Popup{
		ID:                 p.ID,
		BrandID:            p.BrandID,
		Name:               p.Name,
		Status:             domain.ParsePopupStatus(p.Status),
		ReservationEnabled: p.ReservationEnabled,
		OperatingHours:     make([]domain.OperatingHours, 0, len(p.OperatingHours)),
	}

	var err error
	if p.StartDate != "" {
		if popup.StartDate, err = time.ParseInLocation(domain.DateFormat, p.StartDate, loc); err != nil {
			return nil, fmt.Errorf("invalid start_date %q: %w", p.StartDate, err)
		}
	}
	if p.EndDate != "" {
		if popup.EndDate, err = time.ParseInLocation(domain.DateFormat, p.EndDate, loc); err != nil {
			return nil, fmt.Errorf("invalid end_date %q: %w", p.EndDate, err)
		}
	}

	for _, h := range p.OperatingHours {
		day, ok := weekdays[strings.ToUpper(h.DayOfWeek)]
		if !ok {
			return nil, fmt.Errorf("invalid day_of_week %q", h.DayOfWeek)
		}
		open, err := types.NewTimeStringFromString(h.OpenTime)
		if err != nil {
			return nil, fmt.Errorf("invalid open_time: %w", err)
		}
		closeTime, err := types.NewTimeStringFromString(h.CloseTime)
		if err != nil {
			return nil, fmt.Errorf("invalid close_time: %w", err)
		}
		popup.OperatingHours = append(popup.OperatingHours, domain.OperatingHours{
			DayOfWeek: day,
			OpenTime:  open,
			CloseTime: closeTime,
		})
	}

	return popup, nil
}
