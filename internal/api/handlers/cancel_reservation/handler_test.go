package cancel_reservation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	cancelReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/cancel_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *cancelReservation.Request) (*cancelReservation.Response, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*cancelReservation.Response); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(uc CancelReservationUseCase) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/reservations/{reservationId}/cancel", NewHandler(uc, logger.Nop()).Handle).Methods(http.MethodPut)

	req := httptest.NewRequest(http.MethodPut, "/reservations/12/cancel", nil)
	req.Header.Set(middleware.UserIDHeader, "5")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Success(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, &cancelReservation.Request{ReservationID: 12, UserID: 5}).
		Return(&cancelReservation.Response{
			ID:          12,
			Status:      "CANCELLED",
			Refunded:    true,
			RefundID:    "re_1",
			CancelledAt: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		}, nil)

	rec := serve(uc)

	require.Equal(t, http.StatusOK, rec.Code)
	var body CancelReservationResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.Refunded)
	assert.Equal(t, "re_1", body.RefundID)
	uc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", cancelReservation.ErrReservationNotFound, http.StatusNotFound, handlers.CodeNotFound},
		{"not owner", cancelReservation.ErrNotOwner, http.StatusForbidden, handlers.CodeForbidden},
		{"not active", cancelReservation.ErrNotActive, http.StatusBadRequest, handlers.CodeInvalidState},
		{"past deadline", cancelReservation.ErrPastDeadline, http.StatusBadRequest, handlers.CodeInvalidState},
		{
			"refund failed",
			fmt.Errorf("%w: payments: refund timed out", cancelReservation.ErrRefundFailed),
			http.StatusInternalServerError,
			handlers.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(uc)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}
