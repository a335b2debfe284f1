package payments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

func paidReservation() *domain.Reservation {
	return &domain.Reservation{
		ID:               42,
		PaymentAmount:    15000,
		PaymentCompleted: true,
		PaymentKey:       ptr.Ptr("pi_123"),
	}
}

func newStripeServer(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestStripeRefunder_Success(t *testing.T) {
	url := newStripeServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/refunds", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Idempotency-Key"), "reservation-42-refund-"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "pi_123", r.PostForm.Get("payment_intent"))
		assert.Equal(t, "15000", r.PostForm.Get("amount"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "re_1", "object": "refund", "status": "succeeded", "amount": 15000}`))
	})

	refunder := NewStripeRefunder("sk_test_123", url, time.Second, logger.Nop())

	result, err := refunder.Refund(context.Background(), paidReservation())
	require.NoError(t, err)
	assert.Equal(t, "re_1", result.RefundID)
	assert.Equal(t, int64(15000), result.Amount)
}

func TestStripeRefunder_FailedStatus(t *testing.T) {
	url := newStripeServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "re_2", "object": "refund", "status": "failed"}`))
	})

	refunder := NewStripeRefunder("sk_test_123", url, time.Second, logger.Nop())

	_, err := refunder.Refund(context.Background(), paidReservation())
	assert.ErrorIs(t, err, ErrRefundFailed)
}

func TestStripeRefunder_APIError(t *testing.T) {
	url := newStripeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"type": "invalid_request_error", "message": "Charge has already been refunded."}}`))
	})

	refunder := NewStripeRefunder("sk_test_123", url, time.Second, logger.Nop())

	_, err := refunder.Refund(context.Background(), paidReservation())
	assert.ErrorIs(t, err, ErrRefundFailed)
}

func TestStripeRefunder_AlreadyRefunded(t *testing.T) {
	url := newStripeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"type": "invalid_request_error", "code": "charge_already_refunded", "message": "Charge has already been refunded."}}`))
	})

	refunder := NewStripeRefunder("sk_test_123", url, time.Second, logger.Nop())

	result, err := refunder.Refund(context.Background(), paidReservation())
	require.NoError(t, err)
	assert.Equal(t, RefundStatusAlreadyRefunded, result.Status)
	assert.Equal(t, int64(15000), result.Amount)
}

func TestStripeRefunder_RetryAfterErrorUsesNewKey(t *testing.T) {
	var (
		mu   sync.Mutex
		keys []string
	)
	url := newStripeServer(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		attempt := len(keys)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if attempt == 1 {
			w.WriteHeader(http.StatusPaymentRequired)
			_, _ = w.Write([]byte(`{"error": {"type": "card_error", "message": "Your card was declined."}}`))
			return
		}
		_, _ = w.Write([]byte(`{"id": "re_3", "object": "refund", "status": "succeeded", "amount": 15000}`))
	})

	refunder := NewStripeRefunder("sk_test_123", url, time.Second, logger.Nop())

	_, err := refunder.Refund(context.Background(), paidReservation())
	require.ErrorIs(t, err, ErrRefundFailed)

	result, err := refunder.Refund(context.Background(), paidReservation())
	require.NoError(t, err)
	assert.Equal(t, "re_3", result.RefundID)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, keys, 2)
	assert.NotEqual(t, keys[0], keys[1])
}

func TestStripeRefunder_Timeout(t *testing.T) {
	url := newStripeServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})

	refunder := NewStripeRefunder("sk_test_123", url, 50*time.Millisecond, logger.Nop())

	_, err := refunder.Refund(context.Background(), paidReservation())
	assert.ErrorIs(t, err, ErrRefundTimeout)
}

func TestStripeRefunder_MissingPaymentKey(t *testing.T) {
	refunder := NewStripeRefunder("sk_test_123", "http://127.0.0.1:1", time.Second, logger.Nop())
	res := paidReservation()
	res.PaymentKey = nil

	_, err := refunder.Refund(context.Background(), res)
	assert.ErrorIs(t, err, ErrMissingPaymentKey)
}

func TestDisabledRefunder(t *testing.T) {
	_, err := DisabledRefunder{}.Refund(context.Background(), paidReservation())
	assert.ErrorIs(t, err, ErrRefundsDisabled)
}
