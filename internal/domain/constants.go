package domain

// Значения настроек бронирования по умолчанию
const (
	DefaultTimeSlotIntervalMinutes   = 30
	DefaultMaxCapacityPerSlot        = 10
	DefaultMaxPartySize              = 5
	DefaultAdvanceBookingDays        = 30
	DefaultAllowSameDayBooking       = true
	DefaultCancellationDeadlineHours = 24
)

// Границы валидации настроек
const (
	MinTimeSlotIntervalMinutes = 5
	MaxTimeSlotIntervalMinutes = 720 // 12 часов
	MinCapacityPerSlot         = 1
	MaxCapacityPerSlot         = 1000
	MaxContactNameLength       = 100
	MaxContactPhoneLength      = 20
)

// Форматы времени
const (
	TimeFormat     = "15:04"            // HH:MM
	DateFormat     = "2006-01-02"       // YYYY-MM-DD
	DateTimeFormat = "2006-01-02T15:04" // YYYY-MM-DDTHH:MM, локальное время попапа
)

// Причины недоступности слота
const (
	ReasonPastCutoff           = "past cutoff"
	ReasonSameDayNotAllowed    = "same-day booking not allowed"
	ReasonOutsideAdvanceWindow = "outside advance booking window"
	ReasonOutsidePopupPeriod   = "outside popup period"
	ReasonFullyBooked          = "fully booked"
	ReasonReservationsDisabled = "reservations disabled"
)
