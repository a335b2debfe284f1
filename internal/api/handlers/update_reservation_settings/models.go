package update_reservation_settings

import "github.com/m04kA/SMC-ReservationService/internal/service/settings/models"

// UpdateSettingsRequest HTTP request model
type UpdateSettingsRequest struct {
	MaxCapacityPerSlot int `json:"maxCapacityPerSlot"`
	TimeSlotInterval   int `json:"timeSlotInterval"` // минуты
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateSettingsRequest) ToServiceRequest(userID, popupID int64) *models.UpdateBasicSettingsRequest {
	return &models.UpdateBasicSettingsRequest{
		UserID:                  userID,
		PopupID:                 popupID,
		MaxCapacityPerSlot:      r.MaxCapacityPerSlot,
		TimeSlotIntervalMinutes: r.TimeSlotInterval,
	}
}
