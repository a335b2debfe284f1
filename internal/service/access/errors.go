package access

import "github.com/m04kA/SMC-ReservationService/internal/domain"

var (
	// ErrPopupNotFound попап не существует
	ErrPopupNotFound = domain.NewError(domain.ErrNotFound, "access: popup not found")

	// ErrAccessDenied пользователь не является хостом попапа
	ErrAccessDenied = domain.NewError(domain.ErrForbidden, "access: user is not a host of the popup")

	// ErrInternal сервис попапов недоступен или ответил некорректно
	ErrInternal = domain.NewError(domain.ErrInternal, "access: internal error")
)
