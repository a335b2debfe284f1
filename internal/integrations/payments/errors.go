package payments

import "errors"

var (
	// ErrRefundFailed провайдер отклонил возврат или вернул ошибку
	ErrRefundFailed = errors.New("payments: refund failed")

	// ErrRefundTimeout возврат не завершился за отведенное время, считается неуспешным
	ErrRefundTimeout = errors.New("payments: refund timed out")

	// ErrMissingPaymentKey у оплаченного бронирования нет идентификатора платежа
	ErrMissingPaymentKey = errors.New("payments: reservation has no payment key")

	// ErrRefundsDisabled ключ Stripe не настроен
	ErrRefundsDisabled = errors.New("payments: refunds are not configured")

	// ErrPaymentNotVerified платеж не найден, не завершен или выписан не на этого пользователя и попап
	ErrPaymentNotVerified = errors.New("payments: payment is not verified")

	// ErrVerifyFailed провайдер недоступен или не ответил вовремя при проверке платежа
	ErrVerifyFailed = errors.New("payments: payment verification failed")
)
