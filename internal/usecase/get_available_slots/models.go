package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на получение слотов
type Request struct {
	PopupID int64     // ID попапа
	Date    time.Time // Дата (берутся только год, месяц, день)
}

// Response модель ответа со списком слотов дня
type Response struct {
	Date    time.Time // Дата, на которую запрашивались слоты
	PopupID int64     // ID попапа
	Slots   []Slot    // Все слоты дня, включая недоступные
}

// Slot модель временного слота
type Slot struct {
	StartTime types.TimeString // Время начала слота (например, "10:00")
	EndTime   types.TimeString // Время окончания слота
	Start     time.Time        // Начало слота
	Capacity  int              // Вместимость слота
	Occupancy int              // Занято мест
	Remaining int              // Свободно мест
	Available bool             // Можно ли забронировать
	Reason    string           // Почему нельзя забронировать
}
