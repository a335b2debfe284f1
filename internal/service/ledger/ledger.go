package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Ledger учет занятости слотов
//
// Занятость слота - сумма PartySize бронирований в статусе RESERVED,
// у которых ReservationDate попадает в [slot.Start, slot.End).
// Отмененные и посещенные бронирования вместимость не занимают.
type Ledger struct {
	repo ReservationRepository
}

// New создает учет занятости поверх репозитория бронирований
func New(repo ReservationRepository) *Ledger {
	return &Ledger{repo: repo}
}

// Occupancy занятость одного слота
func (l *Ledger) Occupancy(ctx context.Context, popupID int64, slot domain.TimeSlot) (int, error) {
	occupied, err := l.repo.SumActivePartySize(ctx, popupID, slot.Start, slot.End)
	if err != nil {
		return 0, fmt.Errorf("%w: Occupancy - popup=%d slot=%s: %v", ErrLedger, popupID, slot.Start.Format(time.RFC3339), err)
	}
	return occupied, nil
}

// Annotate проставляет занятость всем слотам одним запросом
func (l *Ledger) Annotate(ctx context.Context, popupID int64, slots []domain.TimeSlot) ([]domain.TimeSlot, error) {
	result := make([]domain.TimeSlot, len(slots))
	copy(result, slots)
	if len(result) == 0 {
		return result, nil
	}

	from, to := result[0].Start, result[0].End
	for _, s := range result[1:] {
		if s.Start.Before(from) {
			from = s.Start
		}
		if s.End.After(to) {
			to = s.End
		}
	}

	active, err := l.repo.GetByPopupWithFilter(ctx, domain.PopupReservationsFilter{
		PopupID:   popupID,
		StartDate: &from,
		EndDate:   &to,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: Annotate - popup=%d: %v", ErrLedger, popupID, err)
	}

	for i := range result {
		result[i].Occupancy = 0
		for _, r := range active {
			if !r.IsActive() {
				continue
			}
			if !r.ReservationDate.Before(result[i].Start) && r.ReservationDate.Before(result[i].End) {
				result[i].Occupancy += r.PartySize
			}
		}
	}

	return result, nil
}

// Acquire берет эксклюзивную блокировку слота до конца текущей транзакции
// Проверка вместимости и вставка бронирования должны идти после Acquire в той же транзакции
func (l *Ledger) Acquire(ctx context.Context, popupID int64, slotStart time.Time) error {
	if err := l.repo.LockSlot(ctx, popupID, slotStart); err != nil {
		return fmt.Errorf("%w: Acquire - popup=%d slot=%s: %v", ErrLedger, popupID, slotStart.Format(time.RFC3339), err)
	}
	return nil
}

// Admit группа размера partySize помещается в слот
func Admit(slot domain.TimeSlot, partySize int) bool {
	return partySize > 0 && slot.CanAdmit(partySize)
}
