package mark_visited

import (
	"context"

	markVisited "github.com/m04kA/SMC-ReservationService/internal/usecase/mark_visited"
)

type MarkVisitedUseCase interface {
	Execute(ctx context.Context, req *markVisited.Request) (*markVisited.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
