package popupservice

import "errors"

var (
	// ErrPopupNotFound возвращается, когда попап не найден
	ErrPopupNotFound = errors.New("popupservice client: popup not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("popupservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("popupservice client: invalid response")
)
