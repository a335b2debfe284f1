package payments

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/refund"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// RefundStatusAlreadyRefunded платеж уже был возвращен ранее
const RefundStatusAlreadyRefunded = "already_refunded"

// StripeRefunder возвращает оплату бронирования через Stripe Refunds API
// Запрос ограничен по времени, автоматических повторов нет: повтор - ответственность вызывающего
type StripeRefunder struct {
	refunds refund.Client
	timeout time.Duration
	log     Logger
}

// newBackend backend Stripe без сетевых повторов
// apiURL переопределяет адрес API (пусто - api.stripe.com)
func newBackend(apiURL string, timeout time.Duration) stripe.Backend {
	cfg := &stripe.BackendConfig{
		// Таймаут контекста срабатывает раньше таймаута клиента
		HTTPClient:        &http.Client{Timeout: 2 * timeout},
		MaxNetworkRetries: stripe.Int64(0),
	}
	if apiURL != "" {
		cfg.URL = stripe.String(apiURL)
	}
	return stripe.GetBackendWithConfig(stripe.APIBackend, cfg)
}

// NewStripeRefunder создает клиента возвратов
func NewStripeRefunder(secretKey, apiURL string, timeout time.Duration, log Logger) *StripeRefunder {
	return &StripeRefunder{
		refunds: refund.Client{
			B:   newBackend(apiURL, timeout),
			Key: secretKey,
		},
		timeout: timeout,
		log:     log,
	}
}

// Refund возвращает платеж бронирования целиком
//
// Каждая попытка идет со своим Idempotency-Key: Stripe запоминает и ошибочные
// ответы, и повтор с тем же ключом вернул бы прежнюю ошибку. Двойной возврат
// невозможен на стороне Stripe: повтор после успешного, но не зафиксированного у нас
// возврата получает charge_already_refunded и считается успешным.
func (r *StripeRefunder) Refund(ctx context.Context, res *domain.Reservation) (*RefundResult, error) {
	if res.PaymentKey == nil || *res.PaymentKey == "" {
		return nil, fmt.Errorf("%w: reservation_id=%d", ErrMissingPaymentKey, res.ID)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(*res.PaymentKey),
	}
	if res.PaymentAmount > 0 {
		params.Amount = stripe.Int64(res.PaymentAmount)
	}
	params.Context = ctx
	params.SetIdempotencyKey(fmt.Sprintf("reservation-%d-refund-%s", res.ID, uuid.NewString()))
	params.AddMetadata("reservation_id", fmt.Sprintf("%d", res.ID))

	r.log.Info("Requesting refund for reservation_id=%d, amount=%d", res.ID, res.PaymentAmount)

	rf, err := r.refunds.New(params)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			r.log.Error("Refund timed out for reservation_id=%d after %s", res.ID, r.timeout)
			return nil, fmt.Errorf("%w: reservation_id=%d", ErrRefundTimeout, res.ID)
		}

		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeChargeAlreadyRefunded {
			r.log.Warn("Payment %s for reservation_id=%d was already refunded", *res.PaymentKey, res.ID)
			return &RefundResult{
				Status: RefundStatusAlreadyRefunded,
				Amount: res.PaymentAmount,
			}, nil
		}

		r.log.Error("Refund request failed for reservation_id=%d: %v", res.ID, err)
		return nil, fmt.Errorf("%w: reservation_id=%d: %v", ErrRefundFailed, res.ID, err)
	}

	switch rf.Status {
	case stripe.RefundStatusFailed, stripe.RefundStatusCanceled:
		r.log.Error("Refund %s for reservation_id=%d ended with status=%s", rf.ID, res.ID, rf.Status)
		return nil, fmt.Errorf("%w: refund %s status %s", ErrRefundFailed, rf.ID, rf.Status)
	}

	r.log.Info("Refund %s accepted for reservation_id=%d, status=%s", rf.ID, res.ID, rf.Status)
	return &RefundResult{
		RefundID: rf.ID,
		Status:   string(rf.Status),
		Amount:   rf.Amount,
	}, nil
}

// DisabledRefunder используется, когда ключ Stripe не задан: любой возврат неуспешен
type DisabledRefunder struct{}

func (DisabledRefunder) Refund(_ context.Context, res *domain.Reservation) (*RefundResult, error) {
	return nil, fmt.Errorf("%w: reservation_id=%d", ErrRefundsDisabled, res.ID)
}
