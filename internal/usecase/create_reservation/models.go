package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID       int64            // ID пользователя
	PopupID      int64            // ID попапа
	ContactName  string           // Имя для связи
	ContactPhone string           // Телефон для связи
	PartySize    int              // Размер группы
	Date         time.Time        // Дата визита (берутся только год, месяц, день)
	StartTime    types.TimeString // Время начала слота (например, "10:00"), локальное время попапа

	PaymentKey *string // Stripe PaymentIntent, если бронирование оплачено; сумма берется у провайдера
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64     // ID созданного бронирования
	PopupID         int64     // ID попапа
	PartySize       int       // Размер группы
	ReservationDate time.Time // Начало слота
	Status          string    // Статус бронирования
	Remaining       int       // Свободных мест в слоте после бронирования
	ReservedAt      time.Time // Время создания
}
