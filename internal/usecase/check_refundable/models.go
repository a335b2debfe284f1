package check_refundable

// Request модель запроса
type Request struct {
	ReservationID int64
	UserID        int64
}

// Response можно ли сейчас отменить бронирование с возвратом оплаты
type Response struct {
	ReservationID int64
	Refundable    bool
}
