package get_available_slots

import "github.com/m04kA/SMC-ReservationService/internal/domain"

var (
	// ErrPopupNotFound возвращается, когда попап не найден
	ErrPopupNotFound = domain.NewError(domain.ErrNotFound, "popup not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.ErrInvalidInput, "invalid slots request")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = domain.NewError(domain.ErrInternal, "get_available_slots: internal error")
)
