package reservations

import "github.com/m04kA/SMC-ReservationService/internal/domain"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = domain.NewError(domain.ErrNotFound, "reservation not found")

	// ErrAccessDenied пользователь не владелец бронирования и не хост попапа
	ErrAccessDenied = domain.NewError(domain.ErrForbidden, "access to reservation denied")

	// ErrInvalidInput возвращается при некорректных параметрах запроса
	ErrInvalidInput = domain.NewError(domain.ErrInvalidInput, "invalid filter")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = domain.NewError(domain.ErrInternal, "reservations service: internal error")
)
