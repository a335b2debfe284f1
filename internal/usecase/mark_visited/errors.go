package mark_visited

import "github.com/m04kA/SMC-ReservationService/internal/domain"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = domain.NewError(domain.ErrNotFound, "reservation not found")

	// ErrPopupNotFound попап бронирования не найден
	ErrPopupNotFound = domain.NewError(domain.ErrNotFound, "popup not found")

	// ErrNotHost отметить посещение может только участник бренда попапа
	ErrNotHost = domain.NewError(domain.ErrForbidden, "only brand members can mark visits")

	// ErrNotActive бронирование уже отменено или посещено
	ErrNotActive = domain.NewError(domain.ErrInvalidState, "reservation is not active")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = domain.NewError(domain.ErrInternal, "mark_visited: internal error")
)
