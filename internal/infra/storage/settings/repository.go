package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

const table = "reservation_settings"

// Repository репозиторий настроек бронирования попапов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByPopupID получает настройки попапа
// Колонки допускают NULL: пропущенные значения заменяются значениями по умолчанию
func (r *Repository) GetByPopupID(ctx context.Context, popupID int64) (*domain.ReservationSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"popup_id",
		"time_slot_interval_minutes",
		"max_capacity_per_slot",
		"max_party_size",
		"advance_booking_days",
		"allow_same_day_booking",
		"cancellation_deadline_hours",
		"created_at",
		"updated_at",
	).
		From(table).
		Where(squirrel.Eq{"popup_id": popupID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByPopupID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		s                                             domain.ReservationSettings
		interval, capacity, partySize, advance, hours sql.NullInt64
		sameDay                                       sql.NullBool
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.PopupID,
		&interval,
		&capacity,
		&partySize,
		&advance,
		&sameDay,
		&hours,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByPopupID - scan settings: %v", ErrScanRow, err)
	}

	s.TimeSlotIntervalMinutes = int(interval.Int64)
	s.MaxCapacityPerSlot = int(capacity.Int64)
	s.MaxPartySize = int(partySize.Int64)
	s.AdvanceBookingDays = int(advance.Int64)
	s.CancellationDeadlineHours = int(hours.Int64)
	s.AllowSameDayBooking = domain.DefaultAllowSameDayBooking
	if sameDay.Valid {
		s.AllowSameDayBooking = sameDay.Bool
	}

	result := s.WithDefaults()
	return &result, nil
}

// CreateIfAbsent сохраняет настройки, если у попапа их еще нет
// Параллельные вызовы для одного попапа безопасны: проигравший вызов ничего не пишет
func (r *Repository) CreateIfAbsent(ctx context.Context, s domain.ReservationSettings) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"popup_id",
			"time_slot_interval_minutes",
			"max_capacity_per_slot",
			"max_party_size",
			"advance_booking_days",
			"allow_same_day_booking",
			"cancellation_deadline_hours",
		).
		Values(
			s.PopupID,
			s.TimeSlotIntervalMinutes,
			s.MaxCapacityPerSlot,
			s.MaxPartySize,
			s.AdvanceBookingDays,
			s.AllowSameDayBooking,
			s.CancellationDeadlineHours,
		).
		Suffix("ON CONFLICT (popup_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: CreateIfAbsent - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CreateIfAbsent - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// Update сохраняет все поля настроек попапа
func (r *Repository) Update(ctx context.Context, s domain.ReservationSettings) (*domain.ReservationSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("time_slot_interval_minutes", s.TimeSlotIntervalMinutes).
		Set("max_capacity_per_slot", s.MaxCapacityPerSlot).
		Set("max_party_size", s.MaxPartySize).
		Set("advance_booking_days", s.AdvanceBookingDays).
		Set("allow_same_day_booking", s.AllowSameDayBooking).
		Set("cancellation_deadline_hours", s.CancellationDeadlineHours).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"popup_id": s.PopupID}).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	return &s, nil
}
