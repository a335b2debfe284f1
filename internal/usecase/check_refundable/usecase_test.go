package check_refundable

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/testutil/fixture"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

var slotStart = time.Date(2025, 3, 17, 10, 0, 0, 0, fixture.Location)

type failingSettings struct{}

func (failingSettings) Peek(context.Context, int64) (domain.ReservationSettings, error) {
	return domain.ReservationSettings{}, errors.New("db is down")
}

func paid(env *fixture.Env, userID int64) *domain.Reservation {
	res := env.Reserve(userID, slotStart, 2)
	res.PaymentAmount = 15000
	res.PaymentCompleted = true
	res.PaymentKey = ptr.Ptr("pi_123")
	return env.Store.Put(*res)
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(env *fixture.Env) int64
		userID  int64
		now     time.Time
		want    bool
	}{
		{
			name:    "paid owner before deadline",
			prepare: func(env *fixture.Env) int64 { return paid(env, 1).ID },
			userID:  1,
			want:    true,
		},
		{
			name:    "unpaid",
			prepare: func(env *fixture.Env) int64 { return env.Reserve(1, slotStart, 2).ID },
			userID:  1,
		},
		{
			name:    "not owner",
			prepare: func(env *fixture.Env) int64 { return paid(env, 1).ID },
			userID:  2,
		},
		{
			name:    "past deadline",
			prepare: func(env *fixture.Env) int64 { return paid(env, 1).ID },
			userID:  1,
			now:     slotStart.Add(-time.Hour),
		},
		{
			name: "cancelled",
			prepare: func(env *fixture.Env) int64 {
				res := paid(env, 1)
				res.Status = domain.StatusCancelled
				return env.Store.Put(*res).ID
			},
			userID: 1,
		},
		{
			name:    "unknown reservation",
			prepare: func(env *fixture.Env) int64 { return 404 },
			userID:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := fixture.New()
			id := tt.prepare(env)
			if !tt.now.IsZero() {
				env.Clock.Set(tt.now)
			}

			uc := NewUseCase(env.Store, env.Settings, env.Logger).WithTimeProvider(env.Clock)
			resp := uc.Execute(context.Background(), &Request{ReservationID: id, UserID: tt.userID})

			assert.Equal(t, tt.want, resp.Refundable)
			assert.Equal(t, id, resp.ReservationID)
		})
	}
}

func TestExecute_HasNoSideEffects(t *testing.T) {
	env := fixture.New()
	res := paid(env, 1)

	uc := NewUseCase(env.Store, env.Settings, env.Logger).WithTimeProvider(env.Clock)
	assert.True(t, uc.Execute(context.Background(), &Request{ReservationID: res.ID, UserID: 1}).Refundable)

	assert.Zero(t, env.Store.Settings().Count())
	stored, _ := env.Store.Reservation(res.ID)
	assert.Equal(t, domain.StatusReserved, stored.Status)
}

func TestExecute_FailsClosedOnSettingsError(t *testing.T) {
	env := fixture.New()
	res := paid(env, 1)

	uc := NewUseCase(env.Store, failingSettings{}, env.Logger).WithTimeProvider(env.Clock)
	assert.False(t, uc.Execute(context.Background(), &Request{ReservationID: res.ID, UserID: 1}).Refundable)
}
