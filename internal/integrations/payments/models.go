package payments

// Ключи метаданных PaymentIntent, которые выставляет сервис оплаты при создании платежа
const (
	MetadataUserID  = "user_id"
	MetadataPopupID = "popup_id"
)

// RefundResult результат успешного возврата
type RefundResult struct {
	RefundID string
	Status   string
	Amount   int64
}

// VerifiedPayment подтвержденный у провайдера платеж
type VerifiedPayment struct {
	PaymentKey string
	Amount     int64 // фактически полученная сумма в минимальных единицах валюты
	Currency   string
}
