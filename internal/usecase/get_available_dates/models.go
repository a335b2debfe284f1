package get_available_dates

import "time"

// Request модель запроса на получение дат
type Request struct {
	PopupID int64
}

// Response даты, на которые у попапа есть часы работы в пределах окна бронирования
type Response struct {
	PopupID int64
	Dates   []time.Time // полночь каждой даты в часовом поясе попапа, по возрастанию
}
