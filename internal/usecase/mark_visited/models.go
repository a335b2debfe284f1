package mark_visited

import "time"

// Request модель запроса на отметку посещения
type Request struct {
	ReservationID int64
	HostID        int64
}

// Response модель ответа
type Response struct {
	ID        int64
	Status    string
	VisitedAt time.Time
}
