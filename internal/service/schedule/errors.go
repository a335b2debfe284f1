package schedule

import "errors"

var (
	// ErrInvalidInterval интервал слотов должен быть положительным
	ErrInvalidInterval = errors.New("schedule: slot interval must be positive")

	// ErrInvalidHours строка часов работы содержит некорректное время
	ErrInvalidHours = errors.New("schedule: invalid operating hours")
)
