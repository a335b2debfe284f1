package domain

import "errors"

// Виды ошибок. Каждая ошибка usecase оборачивает ровно один вид,
// по нему HTTP слой выбирает статус и код ответа
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidState = errors.New("invalid state")
	ErrInternal     = errors.New("internal error")
)

// Error ошибка с видом из таксономии выше
type Error struct {
	kind error
	msg  string
}

// NewError создает sentinel-ошибку заданного вида
func NewError(kind error, msg string) error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.kind
}

// Kind возвращает вид ошибки или ErrInternal, если вид не определен
func Kind(err error) error {
	for _, kind := range []error{ErrNotFound, ErrForbidden, ErrConflict, ErrInvalidInput, ErrInvalidState, ErrInternal} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrInternal
}
