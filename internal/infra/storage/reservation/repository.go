package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

const (
	table = "reservations"

	// activeUniqueIndex частичный уникальный индекс (popup_id, user_id) WHERE status = 'RESERVED'
	activeUniqueIndex = "reservations_active_popup_user_uidx"

	// paymentKeyUniqueIndex один платеж привязан не больше чем к одному бронированию
	paymentKeyUniqueIndex = "reservations_payment_key_uidx"

	pgUniqueViolation = "23505"
)

var columns = []string{
	"id",
	"popup_id",
	"user_id",
	"contact_name",
	"contact_phone",
	"party_size",
	"reservation_date",
	"status",
	"payment_amount",
	"payment_completed",
	"payment_key",
	"reserved_at",
	"cancelled_at",
	"visited_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование в статусе из r.Status
// Второе активное бронирование того же пользователя на тот же попап отклоняется
// уникальным индексом и возвращается как ErrDuplicateActive
// Повторное использование платежа возвращается как ErrPaymentKeyUsed
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"popup_id",
			"user_id",
			"contact_name",
			"contact_phone",
			"party_size",
			"reservation_date",
			"status",
			"payment_amount",
			"payment_completed",
			"payment_key",
		).
		Values(
			res.PopupID,
			res.UserID,
			res.ContactName,
			res.ContactPhone,
			res.PartySize,
			res.ReservationDate,
			res.Status,
			res.PaymentAmount,
			res.PaymentCompleted,
			res.PaymentKey,
		).
		Suffix("RETURNING id, reserved_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&res.ID, &res.ReservedAt, &res.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			switch pqErr.Constraint {
			case activeUniqueIndex:
				return nil, ErrDuplicateActive
			case paymentKeyUniqueIndex:
				return nil, ErrPaymentKeyUsed
			}
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return res, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE) до её завершения
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// GetByUserID получает бронирования пользователя, новые сверху
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("reservation_date DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// GetByPopupWithFilter получает бронирования попапа с фильтрацией
// Период задается полуинтервалом [StartDate, EndDate)
// Без Status и IncludeInactive возвращаются только активные (RESERVED)
func (r *Repository) GetByPopupWithFilter(ctx context.Context, filter domain.PopupReservationsFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"popup_id": filter.PopupID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"reservation_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"reservation_date": *filter.EndDate})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": domain.StatusReserved})
	}

	query, args, err := selectBuilder.OrderBy("reservation_date ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByPopupWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByPopupWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// HasActive есть ли у пользователя активное бронирование попапа
func (r *Repository) HasActive(ctx context.Context, popupID, userID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From(table).
		Where(squirrel.Eq{"popup_id": popupID, "user_id": userID, "status": domain.StatusReserved}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasActive - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: HasActive - scan: %v", ErrScanRow, err)
	}

	return true, nil
}

// SumActivePartySize сумма размеров групп активных бронирований с датой в [from, to)
func (r *Repository) SumActivePartySize(ctx context.Context, popupID int64, from, to time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COALESCE(SUM(party_size), 0)").
		From(table).
		Where(squirrel.Eq{"popup_id": popupID, "status": domain.StatusReserved}).
		Where(squirrel.GtOrEq{"reservation_date": from}).
		Where(squirrel.Lt{"reservation_date": to}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: SumActivePartySize - build select query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: SumActivePartySize - scan: %v", ErrScanRow, err)
	}

	return total, nil
}

// UpdateStatus переводит бронирование из статуса from в статус to
// Условие на текущий статус делает переход монотонным при параллельных запросах
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.ReservationStatus, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update(table).
		Set("status", to).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "status": from})

	switch to {
	case domain.StatusCancelled:
		updateBuilder = updateBuilder.Set("cancelled_at", at)
	case domain.StatusVisited:
		updateBuilder = updateBuilder.Set("visited_at", at)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

// LockSlot берет транзакционную advisory-блокировку на слот (попап, начало слота)
// Блокировка держится до конца транзакции, поэтому подсчет занятости и вставка
// нового бронирования в одном слоте выполняются строго по очереди
func (r *Repository) LockSlot(ctx context.Context, popupID int64, slotStart time.Time) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return fmt.Errorf("%w: LockSlot", ErrTransaction)
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	key := fmt.Sprintf("reservation:popup:%d:slot:%d", popupID, slotStart.Unix())
	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", key); err != nil {
		return fmt.Errorf("%w: LockSlot - acquire advisory lock: %v", ErrExecQuery, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	err := row.Scan(
		&res.ID,
		&res.PopupID,
		&res.UserID,
		&res.ContactName,
		&res.ContactPhone,
		&res.PartySize,
		&res.ReservationDate,
		&res.Status,
		&res.PaymentAmount,
		&res.PaymentCompleted,
		&res.PaymentKey,
		&res.ReservedAt,
		&res.CancelledAt,
		&res.VisitedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// scanReservations сканирует результаты запроса в слайс бронирований
func scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}
