package payments

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// StripeVerifier проверяет PaymentIntent, который клиент прикладывает к бронированию
type StripeVerifier struct {
	intents paymentintent.Client
	timeout time.Duration
	log     Logger
}

// NewStripeVerifier создает клиента проверки платежей
func NewStripeVerifier(secretKey, apiURL string, timeout time.Duration, log Logger) *StripeVerifier {
	return &StripeVerifier{
		intents: paymentintent.Client{
			B:   newBackend(apiURL, timeout),
			Key: secretKey,
		},
		timeout: timeout,
		log:     log,
	}
}

// Verify платеж принимается, только если он завершен (succeeded), деньги получены
// и в метаданных указаны этот пользователь и этот попап
// Сумма берется у провайдера, а не из запроса клиента
func (v *StripeVerifier) Verify(ctx context.Context, paymentKey string, userID, popupID int64) (*VerifiedPayment, error) {
	if paymentKey == "" {
		return nil, fmt.Errorf("%w: empty payment key", ErrPaymentNotVerified)
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := v.intents.Get(paymentKey, params)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			v.log.Error("Payment verification timed out for %s after %s", paymentKey, v.timeout)
			return nil, fmt.Errorf("%w: timed out", ErrVerifyFailed)
		}

		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == http.StatusNotFound {
			v.log.Warn("Payment %s not found", paymentKey)
			return nil, fmt.Errorf("%w: payment %s not found", ErrPaymentNotVerified, paymentKey)
		}

		v.log.Error("Payment verification request failed for %s: %v", paymentKey, err)
		return nil, fmt.Errorf("%w: %v", ErrVerifyFailed, err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		v.log.Warn("Payment %s has status=%s", paymentKey, pi.Status)
		return nil, fmt.Errorf("%w: payment %s status %s", ErrPaymentNotVerified, paymentKey, pi.Status)
	}

	if pi.AmountReceived <= 0 {
		v.log.Warn("Payment %s has no received amount", paymentKey)
		return nil, fmt.Errorf("%w: payment %s has no received amount", ErrPaymentNotVerified, paymentKey)
	}

	if pi.Metadata[MetadataUserID] != strconv.FormatInt(userID, 10) ||
		pi.Metadata[MetadataPopupID] != strconv.FormatInt(popupID, 10) {
		v.log.Warn("Payment %s is issued for user=%q popup=%q, requested by user=%d popup=%d",
			paymentKey, pi.Metadata[MetadataUserID], pi.Metadata[MetadataPopupID], userID, popupID)
		return nil, fmt.Errorf("%w: payment %s belongs to another user or popup", ErrPaymentNotVerified, paymentKey)
	}

	return &VerifiedPayment{
		PaymentKey: pi.ID,
		Amount:     pi.AmountReceived,
		Currency:   string(pi.Currency),
	}, nil
}

// DisabledVerifier используется, когда ключ Stripe не задан: оплаченные бронирования не принимаются
type DisabledVerifier struct{}

func (DisabledVerifier) Verify(_ context.Context, paymentKey string, _, _ int64) (*VerifiedPayment, error) {
	return nil, fmt.Errorf("%w: payments are not configured, payment %s", ErrPaymentNotVerified, paymentKey)
}
