package get_refundable

import (
	"context"

	checkRefundable "github.com/m04kA/SMC-ReservationService/internal/usecase/check_refundable"
)

type CheckRefundableUseCase interface {
	Execute(ctx context.Context, req *checkRefundable.Request) *checkRefundable.Response
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
