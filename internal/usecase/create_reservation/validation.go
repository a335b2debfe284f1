package create_reservation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
// Диапазон размера группы зависит от настроек попапа и проверяется позже
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.PopupID <= 0 {
		return fmt.Errorf("%w: popupID must be positive", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.ContactName)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > domain.MaxContactNameLength {
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, domain.MaxContactNameLength)
	}

	phone := strings.TrimSpace(req.ContactPhone)
	if phone == "" {
		return fmt.Errorf("%w: phone is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(phone) > domain.MaxContactPhoneLength {
		return fmt.Errorf("%w: phone must be at most %d characters", ErrInvalidInput, domain.MaxContactPhoneLength)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: reservationDate is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: reservation time is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid reservation time: %v", ErrInvalidInput, err)
	}

	if req.PaymentKey != nil && strings.TrimSpace(*req.PaymentKey) == "" {
		return fmt.Errorf("%w: paymentKey must not be empty", ErrInvalidInput)
	}

	return nil
}

// validatePartySize размер группы в [1, maxPartySize]
func validatePartySize(partySize int, settings domain.ReservationSettings) error {
	if partySize < 1 || partySize > settings.MaxPartySize {
		return fmt.Errorf("%w: must be between 1 and %d", ErrInvalidPartySize, settings.MaxPartySize)
	}
	return nil
}

// findSlot ищет слот с тем же временем начала
func findSlot(slots []domain.TimeSlot, req *Request) (domain.TimeSlot, bool) {
	for _, slot := range slots {
		if slot.Start.Format(domain.TimeFormat) == req.StartTime.String() {
			return slot, true
		}
	}
	return domain.TimeSlot{}, false
}
