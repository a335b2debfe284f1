package create_reservation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/testutil/fixture"
	"github.com/m04kA/SMC-ReservationService/pkg/events"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

type CreateReservationSuite struct {
	suite.Suite
	env *fixture.Env
	uc  *UseCase
}

func TestCreateReservationSuite(t *testing.T) {
	suite.Run(t, new(CreateReservationSuite))
}

func (s *CreateReservationSuite) SetupTest() {
	s.env = fixture.New()
	s.uc = NewUseCase(
		s.env.Store,
		s.env.Access,
		s.env.Settings,
		s.env.Payments,
		s.env.Ledger,
		s.env.Store,
		s.env.Events,
		s.env.Metrics,
		fixture.Location,
		s.env.Logger,
	).WithTimeProvider(s.env.Clock)
}

func (s *CreateReservationSuite) useSettings(capacity, maxParty, advanceDays int, sameDay bool) {
	settings := domain.DefaultSettings(fixture.PopupID)
	settings.MaxCapacityPerSlot = capacity
	settings.MaxPartySize = maxParty
	settings.AdvanceBookingDays = advanceDays
	settings.AllowSameDayBooking = sameDay
	s.env.UseSettings(settings)
}

func request(userID int64, date time.Time, start string, party int) *Request {
	return &Request{
		UserID:       userID,
		PopupID:      fixture.PopupID,
		ContactName:  "Lee",
		ContactPhone: "010-1111-2222",
		PartySize:    party,
		Date:         date,
		StartTime:    types.TimeString(start),
	}
}

// следующий понедельник относительно часов фикстуры
var nextMonday = time.Date(2025, 3, 17, 0, 0, 0, 0, fixture.Location)

func (s *CreateReservationSuite) TestExampleScenario() {
	s.useSettings(4, 3, 7, false)
	ctx := context.Background()

	resp, err := s.uc.Execute(ctx, request(1, nextMonday, "10:00", 3))
	s.Require().NoError(err)
	s.Equal(1, resp.Remaining)
	s.Equal(time.Date(2025, 3, 17, 10, 0, 0, 0, fixture.Location), resp.ReservationDate)
	s.Equal("RESERVED", resp.Status)

	_, err = s.uc.Execute(ctx, request(2, nextMonday, "10:00", 2))
	s.ErrorIs(err, ErrInsufficientCapacity)
	s.ErrorIs(err, domain.ErrInvalidInput)
	s.Contains(err.Error(), "remaining 1")

	today := time.Date(2025, 3, 10, 0, 0, 0, 0, fixture.Location)
	_, err = s.uc.Execute(ctx, request(3, today, "11:00", 1))
	s.ErrorIs(err, ErrSlotUnavailable)
	s.Contains(err.Error(), domain.ReasonSameDayNotAllowed)

	popup := fixture.MondayPopup()
	popup.OperatingHours = append(popup.OperatingHours,
		domain.OperatingHours{DayOfWeek: time.Tuesday, OpenTime: "10:00", CloseTime: "12:00"})
	s.env.Popups.AddPopup(popup)

	eightDaysOut := time.Date(2025, 3, 18, 0, 0, 0, 0, fixture.Location)
	_, err = s.uc.Execute(ctx, request(4, eightDaysOut, "10:00", 1))
	s.ErrorIs(err, ErrSlotUnavailable)
	s.Contains(err.Error(), domain.ReasonOutsideAdvanceWindow)
}

func (s *CreateReservationSuite) TestPublishesCreatedEvent() {
	resp, err := s.uc.Execute(context.Background(), request(1, nextMonday, "10:30", 2))
	s.Require().NoError(err)

	last, ok := s.env.Events.Last()
	s.Require().True(ok)
	s.Equal(events.ReservationCreated, last.Subject)
	event, ok := last.Data.(events.ReservationCreatedEvent)
	s.Require().True(ok)
	s.Equal(resp.ID, event.ReservationID)
	s.Equal(2, event.PartySize)
}

func (s *CreateReservationSuite) TestStoresVerifiedPayment() {
	s.env.Payments.Issue("pi_123", 1, fixture.PopupID, 15000)
	req := request(1, nextMonday, "10:30", 2)
	req.PaymentKey = ptr.Ptr("pi_123")

	resp, err := s.uc.Execute(context.Background(), req)
	s.Require().NoError(err)

	stored, ok := s.env.Store.Reservation(resp.ID)
	s.Require().True(ok)
	s.True(stored.PaymentCompleted)
	s.Equal(int64(15000), stored.PaymentAmount)
	s.Equal("pi_123", ptr.Value(stored.PaymentKey))
}

func (s *CreateReservationSuite) TestRejectsForeignPayment() {
	s.env.Payments.Issue("pi_someone_elses_intent", 7, fixture.PopupID, 999999)
	req := request(42, nextMonday, "10:30", 2)
	req.PaymentKey = ptr.Ptr("pi_someone_elses_intent")

	_, err := s.uc.Execute(context.Background(), req)
	s.ErrorIs(err, ErrPaymentNotVerified)
	s.ErrorIs(err, domain.ErrInvalidInput)

	active, err := s.env.Store.GetByUserID(context.Background(), 42, nil)
	s.Require().NoError(err)
	s.Empty(active)
}

func (s *CreateReservationSuite) TestRejectsUnknownPayment() {
	req := request(42, nextMonday, "10:30", 2)
	req.PaymentKey = ptr.Ptr("pi_made_up")

	_, err := s.uc.Execute(context.Background(), req)
	s.ErrorIs(err, ErrPaymentNotVerified)
}

func (s *CreateReservationSuite) TestRejectsReusedPayment() {
	ctx := context.Background()
	s.env.Payments.Issue("pi_123", 1, fixture.PopupID, 15000)

	req := request(1, nextMonday, "10:30", 2)
	req.PaymentKey = ptr.Ptr("pi_123")
	resp, err := s.uc.Execute(ctx, req)
	s.Require().NoError(err)
	s.Require().NoError(s.env.Store.UpdateStatus(ctx, resp.ID,
		domain.StatusReserved, domain.StatusCancelled, s.env.Clock.Now()))

	again := request(1, nextMonday, "11:00", 2)
	again.PaymentKey = ptr.Ptr("pi_123")
	_, err = s.uc.Execute(ctx, again)
	s.ErrorIs(err, ErrPaymentAlreadyUsed)
	s.ErrorIs(err, domain.ErrConflict)
}

func (s *CreateReservationSuite) TestRejections() {
	ctx := context.Background()

	tests := []struct {
		name    string
		prepare func()
		req     *Request
		wantErr error
		kind    error
	}{
		{
			name:    "unknown popup",
			req:     &Request{UserID: 1, PopupID: 99, ContactName: "Lee", ContactPhone: "010", PartySize: 1, Date: nextMonday, StartTime: "10:00"},
			wantErr: ErrPopupNotFound,
			kind:    domain.ErrNotFound,
		},
		{
			name: "reservations disabled",
			prepare: func() {
				popup := fixture.MondayPopup()
				popup.ReservationEnabled = false
				s.env.Popups.AddPopup(popup)
			},
			req:     request(1, nextMonday, "10:00", 1),
			wantErr: ErrReservationsDisabled,
			kind:    domain.ErrInvalidState,
		},
		{
			name:    "past date",
			req:     request(1, time.Date(2025, 3, 3, 0, 0, 0, 0, fixture.Location), "10:00", 1),
			wantErr: ErrPastDate,
			kind:    domain.ErrInvalidInput,
		},
		{
			name:    "party too large",
			req:     request(1, nextMonday, "10:00", domain.DefaultMaxPartySize+1),
			wantErr: ErrInvalidPartySize,
			kind:    domain.ErrInvalidInput,
		},
		{
			name:    "empty party",
			req:     request(1, nextMonday, "10:00", 0),
			wantErr: ErrInvalidPartySize,
			kind:    domain.ErrInvalidInput,
		},
		{
			name:    "time between slots",
			req:     request(1, nextMonday, "10:15", 1),
			wantErr: ErrSlotNotFound,
			kind:    domain.ErrInvalidInput,
		},
		{
			name:    "closed day",
			req:     request(1, time.Date(2025, 3, 18, 0, 0, 0, 0, fixture.Location), "10:00", 1),
			wantErr: ErrSlotNotFound,
			kind:    domain.ErrInvalidInput,
		},
		{
			name: "outside popup period",
			prepare: func() {
				popup := fixture.MondayPopup()
				popup.EndDate = time.Date(2025, 3, 16, 0, 0, 0, 0, fixture.Location)
				s.env.Popups.AddPopup(popup)
			},
			req:     request(1, nextMonday, "10:00", 1),
			wantErr: ErrSlotUnavailable,
			kind:    domain.ErrInvalidInput,
		},
		{
			name:    "missing name",
			req:     &Request{UserID: 1, PopupID: fixture.PopupID, ContactPhone: "010", PartySize: 1, Date: nextMonday, StartTime: "10:00"},
			wantErr: ErrInvalidInput,
			kind:    domain.ErrInvalidInput,
		},
		{
			name: "already reserved",
			prepare: func() {
				s.env.Reserve(1, time.Date(2025, 3, 17, 11, 0, 0, 0, fixture.Location), 1)
			},
			req:     request(1, nextMonday, "10:00", 1),
			wantErr: ErrAlreadyReserved,
			kind:    domain.ErrConflict,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			if tt.prepare != nil {
				tt.prepare()
			}

			_, err := s.uc.Execute(ctx, tt.req)
			s.ErrorIs(err, tt.wantErr)
			s.ErrorIs(err, tt.kind)
		})
	}
}

func (s *CreateReservationSuite) TestCancelledReservationFreesUser() {
	res := s.env.Reserve(1, time.Date(2025, 3, 17, 11, 0, 0, 0, fixture.Location), 1)
	s.Require().NoError(s.env.Store.UpdateStatus(context.Background(), res.ID,
		domain.StatusReserved, domain.StatusCancelled, s.env.Clock.Now()))

	_, err := s.uc.Execute(context.Background(), request(1, nextMonday, "10:00", 1))
	s.NoError(err)
}

func TestCapacityInvariantUnderConcurrency(t *testing.T) {
	env := fixture.New()
	settings := domain.DefaultSettings(fixture.PopupID)
	settings.MaxCapacityPerSlot = 10
	settings.MaxPartySize = 3
	env.UseSettings(settings)

	uc := NewUseCase(env.Store, env.Access, env.Settings, env.Payments, env.Ledger, env.Store, env.Events, env.Metrics,
		fixture.Location, env.Logger).WithTimeProvider(env.Clock)

	const callers = 20
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
		sum      int
		failures []error
	)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			resp, err := uc.Execute(context.Background(), request(userID, nextMonday, "11:00", 3))

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, err)
				return
			}
			admitted++
			sum += resp.PartySize
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, 3, admitted)
	assert.LessOrEqual(t, sum, settings.MaxCapacityPerSlot)
	require.Len(t, failures, callers-admitted)
	for _, err := range failures {
		assert.True(t, errors.Is(err, ErrInsufficientCapacity), "unexpected error: %v", err)
	}

	occupied, err := env.Store.SumActivePartySize(context.Background(), fixture.PopupID,
		time.Date(2025, 3, 17, 11, 0, 0, 0, fixture.Location),
		time.Date(2025, 3, 17, 11, 30, 0, 0, fixture.Location))
	require.NoError(t, err)
	assert.Equal(t, 9, occupied)
}

func TestOneActiveReservationUnderConcurrency(t *testing.T) {
	env := fixture.New()
	uc := NewUseCase(env.Store, env.Access, env.Settings, env.Payments, env.Ledger, env.Store, env.Events, env.Metrics,
		fixture.Location, env.Logger).WithTimeProvider(env.Clock)

	starts := []string{"10:00", "10:30", "11:00", "11:30"}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(start string) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), request(7, nextMonday, start, 1))

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			assert.ErrorIs(t, err, domain.ErrConflict)
		}(starts[i%len(starts)])
	}
	wg.Wait()

	assert.Equal(t, 1, successes)

	active, err := env.Store.GetByUserID(context.Background(), 7, ptr.Ptr(domain.StatusReserved))
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
