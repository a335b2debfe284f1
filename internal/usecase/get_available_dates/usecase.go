package get_available_dates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/access"
)

// UseCase use case для получения дат, доступных для бронирования
type UseCase struct {
	popups       PopupProvider
	settings     SettingsProvider
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(popups PopupProvider, settings SettingsProvider, location *time.Location, logger Logger) *UseCase {
	return &UseCase{
		popups:       popups,
		settings:     settings,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute возвращает даты из диапазона
// [max(начало попапа, сегодня или завтра), min(конец попапа, сегодня + advanceBookingDays)],
// в которые у попапа есть хотя бы одна строка часов работы.
// Занятость слотов не учитывается: полностью занятая дата остается в списке.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableDates: popup=%d", req.PopupID)

	popup, err := uc.popups.GetPopup(ctx, req.PopupID)
	if err != nil {
		if errors.Is(err, access.ErrPopupNotFound) {
			uc.logger.Warn("GetAvailableDates: popup id=%d not found", req.PopupID)
			return nil, ErrPopupNotFound
		}
		uc.logger.Error("GetAvailableDates: failed to get popup id=%d: %v", req.PopupID, err)
		return nil, fmt.Errorf("%w: failed to get popup: %v", ErrInternal, err)
	}

	resp := &Response{PopupID: popup.ID, Dates: []time.Time{}}
	if !popup.AcceptsReservations() {
		uc.logger.Info("GetAvailableDates: popup=%d does not accept reservations", popup.ID)
		return resp, nil
	}

	settings, err := uc.settings.Resolve(ctx, req.PopupID)
	if err != nil {
		uc.logger.Error("GetAvailableDates: failed to resolve settings for popup=%d: %v", req.PopupID, err)
		return nil, err
	}

	from, to := bookingRange(popup, settings, uc.timeProvider.Now().In(uc.location), uc.location)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if popup.IsOpenOn(d.Weekday()) {
			resp.Dates = append(resp.Dates, d)
		}
	}

	uc.logger.Info("GetAvailableDates: popup=%d, %d dates between %s and %s",
		popup.ID, len(resp.Dates), from.Format(domain.DateFormat), to.Format(domain.DateFormat))
	return resp, nil
}

// bookingRange границы диапазона дат, обе включительно, полночь в поясе loc
func bookingRange(popup *domain.Popup, settings domain.ReservationSettings, now time.Time, loc *time.Location) (time.Time, time.Time) {
	today := midnight(now, loc)

	from := today
	if !settings.AllowSameDayBooking {
		from = today.AddDate(0, 0, 1)
	}
	if !popup.StartDate.IsZero() {
		if start := midnight(popup.StartDate, loc); start.After(from) {
			from = start
		}
	}

	to := today.AddDate(0, 0, settings.AdvanceBookingDays)
	if !popup.EndDate.IsZero() {
		if end := midnight(popup.EndDate, loc); end.Before(to) {
			to = end
		}
	}

	return from, to
}

func midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
