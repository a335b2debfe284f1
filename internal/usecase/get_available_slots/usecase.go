package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/access"
	"github.com/m04kA/SMC-ReservationService/internal/service/schedule"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// UseCase use case для получения слотов дня с занятостью
type UseCase struct {
	popups       PopupProvider
	settings     SettingsProvider
	ledger       CapacityLedger
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	popups PopupProvider,
	settings SettingsProvider,
	ledger CapacityLedger,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		popups:       popups,
		settings:     settings,
		ledger:       ledger,
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

// Execute возвращает все слоты дня, включая недоступные
// Недоступный слот несет причину: прошедший, вне окна бронирования, заполнен и т.д.
// Порядок слотов - порядок строк расписания
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: popup=%d, date=%s", req.PopupID, req.Date.Format(domain.DateFormat))

	if req.PopupID <= 0 {
		return nil, fmt.Errorf("%w: popupID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	now := uc.timeProvider.Now().In(uc.location)

	popup, err := uc.popups.GetPopup(ctx, req.PopupID)
	if err != nil {
		if errors.Is(err, access.ErrPopupNotFound) {
			uc.logger.Warn("GetAvailableSlots: popup id=%d not found", req.PopupID)
			return nil, ErrPopupNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get popup id=%d: %v", req.PopupID, err)
		return nil, fmt.Errorf("%w: failed to get popup: %v", ErrInternal, err)
	}

	settings, err := uc.settings.Resolve(ctx, req.PopupID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve settings for popup=%d: %v", req.PopupID, err)
		return nil, err
	}

	localDate := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, uc.location)

	slots, err := schedule.GenerateSlots(popup, settings, localDate)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	slots = schedule.ApplyPolicy(popup, slots, settings, now)
	if !popup.AcceptsReservations() {
		for i := range slots {
			slots[i].Bookable = false
			slots[i].Reason = domain.ReasonReservationsDisabled
		}
	}

	slots, err = uc.ledger.Annotate(ctx, popup.ID, slots)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to read occupancy for popup=%d: %v", popup.ID, err)
		return nil, fmt.Errorf("%w: failed to read occupancy: %v", ErrInternal, err)
	}

	result := make([]Slot, len(slots))
	for i, slot := range slots {
		result[i] = Slot{
			StartTime: types.NewTimeString(slot.Start),
			EndTime:   endTime(slot),
			Start:     slot.Start,
			Capacity:  slot.Capacity,
			Occupancy: slot.Occupancy,
			Remaining: slot.Remaining(),
			Available: slot.Available(),
			Reason:    slot.UnavailableReason(),
		}
	}

	uc.logger.Info("GetAvailableSlots: popup=%d, date=%s, %d slots",
		req.PopupID, localDate.Format(domain.DateFormat), len(result))

	return &Response{
		Date:    localDate,
		PopupID: popup.ID,
		Slots:   result,
	}, nil
}

// endTime конец слота в формате HH:MM, слот до полуночи заканчивается в "24:00"
func endTime(slot domain.TimeSlot) types.TimeString {
	if slot.End.Day() != slot.Start.Day() {
		return types.TimeString("24:00")
	}
	return types.NewTimeString(slot.End)
}
