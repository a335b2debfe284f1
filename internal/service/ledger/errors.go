package ledger

import "errors"

var (
	// ErrLedger ошибка чтения занятости или блокировки слота
	ErrLedger = errors.New("ledger: storage error")
)
