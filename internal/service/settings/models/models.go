package models

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// UpdateBasicSettingsRequest запрос хоста на изменение базовых настроек
type UpdateBasicSettingsRequest struct {
	UserID                  int64
	PopupID                 int64
	MaxCapacityPerSlot      int
	TimeSlotIntervalMinutes int
}

// SettingsResponse настройки бронирования попапа
type SettingsResponse struct {
	PopupID                   int64     `json:"popupId"`
	TimeSlotIntervalMinutes   int       `json:"timeSlotInterval"`
	MaxCapacityPerSlot        int       `json:"maxCapacityPerSlot"`
	MaxPartySize              int       `json:"maxPartySize"`
	AdvanceBookingDays        int       `json:"advanceBookingDays"`
	AllowSameDayBooking       bool      `json:"allowSameDayBooking"`
	CancellationDeadlineHours int       `json:"cancellationDeadlineHours"`
	UpdatedAt                 time.Time `json:"updatedAt"`
}

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s domain.ReservationSettings) *SettingsResponse {
	return &SettingsResponse{
		PopupID:                   s.PopupID,
		TimeSlotIntervalMinutes:   s.TimeSlotIntervalMinutes,
		MaxCapacityPerSlot:        s.MaxCapacityPerSlot,
		MaxPartySize:              s.MaxPartySize,
		AdvanceBookingDays:        s.AdvanceBookingDays,
		AllowSameDayBooking:       s.AllowSameDayBooking,
		CancellationDeadlineHours: s.CancellationDeadlineHours,
		UpdatedAt:                 s.UpdatedAt,
	}
}
