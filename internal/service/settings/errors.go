package settings

import "github.com/m04kA/SMC-ReservationService/internal/domain"

var (
	// ErrInvalidSettings новые значения настроек не проходят проверку
	ErrInvalidSettings = domain.NewError(domain.ErrInvalidInput, "invalid reservation settings")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = domain.NewError(domain.ErrInternal, "settings service: internal error")
)
