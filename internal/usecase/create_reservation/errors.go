package create_reservation

import "github.com/m04kA/SMC-ReservationService/internal/domain"

var (
	// ErrPopupNotFound возвращается, когда попап не найден
	ErrPopupNotFound = domain.NewError(domain.ErrNotFound, "popup not found")

	// ErrReservationsDisabled попап не принимает бронирования
	ErrReservationsDisabled = domain.NewError(domain.ErrInvalidState, "popup does not accept reservations")

	// ErrAlreadyReserved у пользователя уже есть активное бронирование этого попапа
	ErrAlreadyReserved = domain.NewError(domain.ErrConflict, "user already has an active reservation for this popup")

	// ErrPaymentNotVerified платеж не подтвержден провайдером для этого пользователя и попапа
	ErrPaymentNotVerified = domain.NewError(domain.ErrInvalidInput, "payment is not verified")

	// ErrPaymentAlreadyUsed платеж уже привязан к другому бронированию
	ErrPaymentAlreadyUsed = domain.NewError(domain.ErrConflict, "payment is already attached to another reservation")

	// ErrPastDate дата бронирования в прошлом
	ErrPastDate = domain.NewError(domain.ErrInvalidInput, "reservation date is in the past")

	// ErrInvalidPartySize размер группы вне [1, maxPartySize]
	ErrInvalidPartySize = domain.NewError(domain.ErrInvalidInput, "invalid party size")

	// ErrSlotNotFound в расписании дня нет слота с таким временем начала
	ErrSlotNotFound = domain.NewError(domain.ErrInvalidInput, "slot not found")

	// ErrSlotUnavailable слот не проходит политику окна бронирования
	ErrSlotUnavailable = domain.NewError(domain.ErrInvalidInput, "slot unavailable")

	// ErrInsufficientCapacity в слоте не хватает мест для группы
	ErrInsufficientCapacity = domain.NewError(domain.ErrInvalidInput, "insufficient remaining capacity")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.ErrInvalidInput, "invalid reservation request")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = domain.NewError(domain.ErrInternal, "create_reservation: internal error")
)
