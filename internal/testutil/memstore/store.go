// Package memstore хранилище в памяти для тестов: бронирования, настройки и
// транзакции с блокировками слотов и строк
//
// Семантика повторяет PostgreSQL-реализацию в той мере, в которой на нее
// опираются сценарии: блокировка слота держится до конца транзакции,
// GetByID внутри транзакции блокирует строку, второе активное бронирование
// пользователя на попап отклоняется как reservation.ErrDuplicateActive,
// повторный платеж как reservation.ErrPaymentKeyUsed,
// изменения откатываемой транзакции отменяются.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/settings"
)

type txKey struct{}

type txState struct {
	undo  []func()
	held  []*sync.Mutex
	owned map[string]bool
}

// Store хранилище в памяти
type Store struct {
	mu           sync.Mutex
	reservations map[int64]*domain.Reservation
	nextID       int64
	settings     map[int64]domain.ReservationSettings
	nextSettings int64

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	now func() time.Time
}

// New создает пустое хранилище
func New() *Store {
	return &Store{
		reservations: make(map[int64]*domain.Reservation),
		settings:     make(map[int64]domain.ReservationSettings),
		locks:        make(map[string]*sync.Mutex),
		now:          time.Now,
	}
}

// Do выполняет fn в транзакции; вложенный вызов присоединяется к внешней
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.run(ctx, fn)
}

// DoSerializable то же, что Do
func (s *Store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.run(ctx, fn)
}

// DoReadOnly то же, что Do
func (s *Store) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.run(ctx, fn)
}

func (s *Store) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*txState); ok {
		return fn(ctx)
	}

	tx := &txState{owned: make(map[string]bool)}
	txCtx := context.WithValue(ctx, txKey{}, tx)

	defer func() {
		if p := recover(); p != nil {
			s.rollback(tx)
			panic(p)
		}
		if err != nil {
			s.rollback(tx)
			return
		}
		s.release(tx)
	}()

	return fn(txCtx)
}

func (s *Store) rollback(tx *txState) {
	s.mu.Lock()
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	s.mu.Unlock()
	s.release(tx)
}

func (s *Store) release(tx *txState) {
	for i := len(tx.held) - 1; i >= 0; i-- {
		tx.held[i].Unlock()
	}
}

// lock берет именованную блокировку до конца транзакции
func (s *Store) lock(ctx context.Context, key string) {
	tx, ok := ctx.Value(txKey{}).(*txState)
	if !ok || tx.owned[key] {
		return
	}

	s.locksMu.Lock()
	m, ok := s.locks[key]
	if !ok {
		m = &sync.Mutex{}
		s.locks[key] = m
	}
	s.locksMu.Unlock()

	m.Lock()
	tx.owned[key] = true
	tx.held = append(tx.held, m)
}

// onRollback регистрирует отмену изменения; вызывать под s.mu
func (s *Store) onRollback(ctx context.Context, undo func()) {
	if tx, ok := ctx.Value(txKey{}).(*txState); ok {
		tx.undo = append(tx.undo, undo)
	}
}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*txState)
	return ok
}

// InTransaction выполняется ли ctx внутри транзакции хранилища
func InTransaction(ctx context.Context) bool {
	return inTx(ctx)
}

// Reservations

// Create сохраняет бронирование
func (s *Store) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.reservations {
		if res.Status == domain.StatusReserved &&
			existing.PopupID == res.PopupID && existing.UserID == res.UserID && existing.IsActive() {
			return nil, reservation.ErrDuplicateActive
		}
		if res.PaymentKey != nil && existing.PaymentKey != nil && *existing.PaymentKey == *res.PaymentKey {
			return nil, reservation.ErrPaymentKeyUsed
		}
	}

	s.nextID++
	now := s.now()
	stored := *res
	stored.ID = s.nextID
	stored.ReservedAt = now
	stored.UpdatedAt = now
	s.reservations[stored.ID] = &stored

	id := stored.ID
	s.onRollback(ctx, func() { delete(s.reservations, id) })

	res.ID = stored.ID
	res.ReservedAt = stored.ReservedAt
	res.UpdatedAt = stored.UpdatedAt
	return res, nil
}

// GetByID получает бронирование; в транзакции блокирует строку
func (s *Store) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	s.lock(ctx, fmt.Sprintf("row:%d", id))

	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.reservations[id]
	if !ok {
		return nil, reservation.ErrReservationNotFound
	}
	c := *res
	return &c, nil
}

// GetByUserID бронирования пользователя, новые сверху
func (s *Store) GetByUserID(_ context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.Reservation, 0)
	for _, res := range s.reservations {
		if res.UserID != userID {
			continue
		}
		if status != nil && res.Status != *status {
			continue
		}
		c := *res
		result = append(result, &c)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].ReservedAt.Equal(result[j].ReservedAt) {
			return result[i].ReservedAt.After(result[j].ReservedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// GetByPopupWithFilter бронирования попапа по фильтру
func (s *Store) GetByPopupWithFilter(_ context.Context, filter domain.PopupReservationsFilter) ([]*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.Reservation, 0)
	for _, res := range s.reservations {
		if res.PopupID != filter.PopupID {
			continue
		}
		if filter.StartDate != nil && res.ReservationDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && !res.ReservationDate.Before(*filter.EndDate) {
			continue
		}
		if filter.Status != nil {
			if res.Status != *filter.Status {
				continue
			}
		} else if !filter.IncludeInactive && !res.IsActive() {
			continue
		}
		c := *res
		result = append(result, &c)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].ReservationDate.Equal(result[j].ReservationDate) {
			return result[i].ReservationDate.Before(result[j].ReservationDate)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// HasActive есть ли у пользователя активное бронирование попапа
func (s *Store) HasActive(_ context.Context, popupID, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, res := range s.reservations {
		if res.PopupID == popupID && res.UserID == userID && res.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

// SumActivePartySize сумма групп активных бронирований с датой в [from, to)
func (s *Store) SumActivePartySize(_ context.Context, popupID int64, from, to time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, res := range s.reservations {
		if res.PopupID == popupID && res.IsActive() &&
			!res.ReservationDate.Before(from) && res.ReservationDate.Before(to) {
			total += res.PartySize
		}
	}
	return total, nil
}

// UpdateStatus условный переход статуса from -> to
func (s *Store) UpdateStatus(ctx context.Context, id int64, from, to domain.ReservationStatus, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.reservations[id]
	if !ok || res.Status != from {
		return reservation.ErrStatusConflict
	}

	before := *res
	res.Status = to
	res.UpdatedAt = at
	switch to {
	case domain.StatusCancelled:
		res.CancelledAt = &at
	case domain.StatusVisited:
		res.VisitedAt = &at
	}

	s.onRollback(ctx, func() { *res = before })
	return nil
}

// LockSlot блокировка слота до конца транзакции
func (s *Store) LockSlot(ctx context.Context, popupID int64, slotStart time.Time) error {
	if !inTx(ctx) {
		return fmt.Errorf("%w: LockSlot", reservation.ErrTransaction)
	}
	s.lock(ctx, fmt.Sprintf("slot:%d:%d", popupID, slotStart.Unix()))
	return nil
}

// Put кладет бронирование как есть, сохраняя ID; для подготовки тестов
func (s *Store) Put(res domain.Reservation) *domain.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()

	if res.ID == 0 {
		s.nextID++
		res.ID = s.nextID
	} else if res.ID > s.nextID {
		s.nextID = res.ID
	}
	s.reservations[res.ID] = &res
	c := res
	return &c
}

// Reservation снимок бронирования по ID
func (s *Store) Reservation(id int64) (domain.Reservation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.reservations[id]
	if !ok {
		return domain.Reservation{}, false
	}
	return *res, true
}

// Settings

// Settings возвращает репозиторий настроек поверх того же хранилища
func (s *Store) Settings() *SettingsStore {
	return &SettingsStore{store: s}
}

// SettingsStore репозиторий настроек в памяти
type SettingsStore struct {
	store *Store
}

// GetByPopupID настройки попапа; значения по умолчанию применяются как при чтении из БД
func (r *SettingsStore) GetByPopupID(_ context.Context, popupID int64) (*domain.ReservationSettings, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.settings[popupID]
	if !ok {
		return nil, settings.ErrSettingsNotFound
	}
	result := stored.WithDefaults()
	return &result, nil
}

// CreateIfAbsent сохраняет настройки, если их еще нет
func (r *SettingsStore) CreateIfAbsent(_ context.Context, s domain.ReservationSettings) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.settings[s.PopupID]; ok {
		return nil
	}
	r.store.nextSettings++
	now := r.store.now()
	s.ID = r.store.nextSettings
	s.CreatedAt = now
	s.UpdatedAt = now
	r.store.settings[s.PopupID] = s
	return nil
}

// Update перезаписывает настройки попапа
func (r *SettingsStore) Update(_ context.Context, s domain.ReservationSettings) (*domain.ReservationSettings, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.settings[s.PopupID]
	if !ok {
		return nil, settings.ErrSettingsNotFound
	}
	s.ID = stored.ID
	s.CreatedAt = stored.CreatedAt
	s.UpdatedAt = r.store.now()
	r.store.settings[s.PopupID] = s
	return &s, nil
}

// Put сохраняет настройки как есть, без значений по умолчанию; для подготовки тестов
func (r *SettingsStore) Put(s domain.ReservationSettings) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if s.ID == 0 {
		r.store.nextSettings++
		s.ID = r.store.nextSettings
	}
	r.store.settings[s.PopupID] = s
}

// Count количество строк настроек
func (r *SettingsStore) Count() int {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return len(r.store.settings)
}
