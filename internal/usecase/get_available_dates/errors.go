package get_available_dates

import "github.com/m04kA/SMC-ReservationService/internal/domain"

var (
	// ErrPopupNotFound возвращается, когда попап не найден
	ErrPopupNotFound = domain.NewError(domain.ErrNotFound, "popup not found")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = domain.NewError(domain.ErrInternal, "get_available_dates: internal error")
)
