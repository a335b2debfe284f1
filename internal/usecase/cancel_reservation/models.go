package cancel_reservation

import "time"

// Request модель запроса на отмену бронирования
type Request struct {
	ReservationID int64
	UserID        int64
}

// Response модель ответа с результатом отмены
type Response struct {
	ID          int64
	Status      string
	Refunded    bool   // был выполнен возврат оплаты
	RefundID    string // идентификатор возврата у провайдера
	CancelledAt time.Time
}
