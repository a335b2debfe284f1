package cancel_reservation

import "github.com/m04kA/SMC-ReservationService/internal/domain"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = domain.NewError(domain.ErrNotFound, "reservation not found")

	// ErrNotOwner отменить бронирование может только его владелец
	ErrNotOwner = domain.NewError(domain.ErrForbidden, "only the owner can cancel the reservation")

	// ErrNotActive бронирование уже отменено или посещено
	ErrNotActive = domain.NewError(domain.ErrInvalidState, "reservation is not active")

	// ErrPastDeadline срок отмены прошел
	ErrPastDeadline = domain.NewError(domain.ErrInvalidState, "past cancellation deadline")

	// ErrRefundFailed возврат не прошел, бронирование осталось активным
	ErrRefundFailed = domain.NewError(domain.ErrInternal, "refund failed, reservation was not cancelled")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = domain.NewError(domain.ErrInternal, "cancel_reservation: internal error")
)
