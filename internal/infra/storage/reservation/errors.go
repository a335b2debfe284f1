package reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrDuplicateActive нарушение уникального индекса: у пользователя уже есть активное бронирование попапа
	ErrDuplicateActive = errors.New("reservation.repository: active reservation already exists")

	// ErrPaymentKeyUsed платеж уже привязан к другому бронированию
	ErrPaymentKeyUsed = errors.New("reservation.repository: payment key already used")

	// ErrStatusConflict бронирование не в ожидаемом статусе (изменено параллельно)
	ErrStatusConflict = errors.New("reservation.repository: reservation status changed concurrently")

	// ErrTransaction возвращается, когда операция требует транзакцию
	ErrTransaction = errors.New("reservation.repository: transaction required")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)
