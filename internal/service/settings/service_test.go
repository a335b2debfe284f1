package settings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	settingsCache "github.com/m04kA/SMC-ReservationService/internal/infra/cache/settings"
	"github.com/m04kA/SMC-ReservationService/internal/service/access"
	"github.com/m04kA/SMC-ReservationService/internal/service/settings/models"
	"github.com/m04kA/SMC-ReservationService/internal/testutil/memstore"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
)

type fakeAccess struct {
	hosts map[int64]bool
}

func (f *fakeAccess) GetPopup(_ context.Context, popupID int64) (*domain.Popup, error) {
	if popupID == 404 {
		return nil, access.ErrPopupNotFound
	}
	return &domain.Popup{ID: popupID, BrandID: 1, ReservationEnabled: true}, nil
}

func (f *fakeAccess) RequireHost(ctx context.Context, popupID, userID int64) (*domain.Popup, error) {
	popup, err := f.GetPopup(ctx, popupID)
	if err != nil {
		return nil, err
	}
	if !f.hosts[userID] {
		return nil, access.ErrAccessDenied
	}
	return popup, nil
}

type failingCache struct{}

func (failingCache) Get(context.Context, int64) (*domain.ReservationSettings, error) {
	return nil, errors.New("redis: connection refused")
}

func (failingCache) Set(context.Context, domain.ReservationSettings) error {
	return errors.New("redis: connection refused")
}

func (failingCache) Delete(context.Context, int64) error {
	return errors.New("redis: connection refused")
}

type countingRepo struct {
	SettingsRepository
	mu    sync.Mutex
	reads int
}

func (r *countingRepo) GetByPopupID(ctx context.Context, popupID int64) (*domain.ReservationSettings, error) {
	r.mu.Lock()
	r.reads++
	r.mu.Unlock()
	return r.SettingsRepository.GetByPopupID(ctx, popupID)
}

func newService(repo SettingsRepository, cache SettingsCache) *Service {
	var m *metrics.Metrics
	return NewService(repo, cache, &fakeAccess{hosts: map[int64]bool{100: true}}, m, logger.Nop())
}

func TestResolve_CreatesDefaultsOnFirstRead(t *testing.T) {
	store := memstore.New().Settings()
	svc := newService(store, settingsCache.NewMemoryCache(time.Minute))

	got, err := svc.Resolve(context.Background(), 7)
	require.NoError(t, err)

	want := domain.DefaultSettings(7)
	assert.Equal(t, want.TimeSlotIntervalMinutes, got.TimeSlotIntervalMinutes)
	assert.Equal(t, want.MaxCapacityPerSlot, got.MaxCapacityPerSlot)
	assert.Equal(t, want.MaxPartySize, got.MaxPartySize)
	assert.Equal(t, want.AdvanceBookingDays, got.AdvanceBookingDays)
	assert.Equal(t, want.AllowSameDayBooking, got.AllowSameDayBooking)
	assert.Equal(t, want.CancellationDeadlineHours, got.CancellationDeadlineHours)
	assert.Equal(t, 1, store.Count())
}

func TestResolve_ReplacesNonPositiveStoredValues(t *testing.T) {
	store := memstore.New().Settings()
	store.Put(domain.ReservationSettings{PopupID: 3, TimeSlotIntervalMinutes: 0, MaxCapacityPerSlot: -1, MaxPartySize: 2})
	svc := newService(store, settingsCache.NewMemoryCache(time.Minute))

	got, err := svc.Resolve(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultTimeSlotIntervalMinutes, got.TimeSlotIntervalMinutes)
	assert.Equal(t, domain.DefaultMaxCapacityPerSlot, got.MaxCapacityPerSlot)
	assert.Equal(t, 2, got.MaxPartySize)
}

func TestResolve_ServedFromCache(t *testing.T) {
	repo := &countingRepo{SettingsRepository: memstore.New().Settings()}
	svc := newService(repo, settingsCache.NewMemoryCache(time.Minute))

	for i := 0; i < 3; i++ {
		_, err := svc.Resolve(context.Background(), 1)
		require.NoError(t, err)
	}

	// первое чтение: промах + повторное чтение после создания значений по умолчанию
	assert.Equal(t, 2, repo.reads)
}

func TestResolve_CacheFailureFallsBackToRepository(t *testing.T) {
	svc := newService(memstore.New().Settings(), failingCache{})

	got, err := svc.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMaxCapacityPerSlot, got.MaxCapacityPerSlot)
}

func TestPeek_DoesNotCreateRow(t *testing.T) {
	store := memstore.New().Settings()
	svc := newService(store, settingsCache.NewMemoryCache(time.Minute))

	got, err := svc.Peek(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCancellationDeadlineHours, got.CancellationDeadlineHours)
	assert.Zero(t, store.Count())
}

func TestPeek_ReadsStoredSettings(t *testing.T) {
	store := memstore.New().Settings()
	stored := domain.DefaultSettings(5)
	stored.CancellationDeadlineHours = 2
	store.Put(stored)
	svc := newService(store, failingCache{})

	got, err := svc.Peek(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CancellationDeadlineHours)
}

func TestGet_UnknownPopup(t *testing.T) {
	store := memstore.New().Settings()
	svc := newService(store, settingsCache.NewMemoryCache(time.Minute))

	_, err := svc.Get(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, store.Count())
}

func TestUpdateBasic(t *testing.T) {
	t.Run("writes through cache", func(t *testing.T) {
		cache := settingsCache.NewMemoryCache(time.Minute)
		svc := newService(memstore.New().Settings(), cache)

		_, err := svc.Resolve(context.Background(), 1)
		require.NoError(t, err)

		resp, err := svc.UpdateBasic(context.Background(), &models.UpdateBasicSettingsRequest{
			UserID: 100, PopupID: 1, MaxCapacityPerSlot: 20, TimeSlotIntervalMinutes: 60,
		})
		require.NoError(t, err)
		assert.Equal(t, 20, resp.MaxCapacityPerSlot)
		assert.Equal(t, 60, resp.TimeSlotIntervalMinutes)

		cached, err := cache.Get(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, 20, cached.MaxCapacityPerSlot)
		assert.Equal(t, 60, cached.TimeSlotIntervalMinutes)

		got, err := svc.Resolve(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, 20, got.MaxCapacityPerSlot)
	})

	t.Run("not a host", func(t *testing.T) {
		svc := newService(memstore.New().Settings(), settingsCache.NewMemoryCache(time.Minute))

		_, err := svc.UpdateBasic(context.Background(), &models.UpdateBasicSettingsRequest{
			UserID: 5, PopupID: 1, MaxCapacityPerSlot: 20, TimeSlotIntervalMinutes: 60,
		})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("capacity below party size", func(t *testing.T) {
		svc := newService(memstore.New().Settings(), settingsCache.NewMemoryCache(time.Minute))

		_, err := svc.UpdateBasic(context.Background(), &models.UpdateBasicSettingsRequest{
			UserID: 100, PopupID: 1, MaxCapacityPerSlot: 3, TimeSlotIntervalMinutes: 30,
		})
		assert.ErrorIs(t, err, ErrInvalidSettings)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("interval out of range", func(t *testing.T) {
		svc := newService(memstore.New().Settings(), settingsCache.NewMemoryCache(time.Minute))

		_, err := svc.UpdateBasic(context.Background(), &models.UpdateBasicSettingsRequest{
			UserID: 100, PopupID: 1, MaxCapacityPerSlot: 10, TimeSlotIntervalMinutes: 1,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("cache write failure still succeeds", func(t *testing.T) {
		svc := newService(memstore.New().Settings(), failingCache{})

		resp, err := svc.UpdateBasic(context.Background(), &models.UpdateBasicSettingsRequest{
			UserID: 100, PopupID: 1, MaxCapacityPerSlot: 12, TimeSlotIntervalMinutes: 15,
		})
		require.NoError(t, err)
		assert.Equal(t, 12, resp.MaxCapacityPerSlot)
	})
}

// stallingRepo задерживает первое чтение настроек уже после того, как строка прочитана
type stallingRepo struct {
	SettingsRepository
	once    sync.Once
	loaded  chan struct{}
	release chan struct{}
}

func (r *stallingRepo) GetByPopupID(ctx context.Context, popupID int64) (*domain.ReservationSettings, error) {
	stored, err := r.SettingsRepository.GetByPopupID(ctx, popupID)
	first := false
	r.once.Do(func() { first = true })
	if first {
		close(r.loaded)
		<-r.release
	}
	return stored, err
}

func TestResolve_SlowFillDoesNotOverwriteUpdate(t *testing.T) {
	store := memstore.New().Settings()
	store.Put(domain.DefaultSettings(1))
	repo := &stallingRepo{
		SettingsRepository: store,
		loaded:             make(chan struct{}),
		release:            make(chan struct{}),
	}
	cache := settingsCache.NewMemoryCache(time.Minute)
	svc := newService(repo, cache)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := svc.Resolve(ctx, 1)
		done <- err
	}()

	<-repo.loaded
	_, err := svc.UpdateBasic(ctx, &models.UpdateBasicSettingsRequest{
		UserID: 100, PopupID: 1, MaxCapacityPerSlot: 20, TimeSlotIntervalMinutes: 60,
	})
	require.NoError(t, err)

	close(repo.release)
	require.NoError(t, <-done)

	cached, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 20, cached.MaxCapacityPerSlot)
	assert.Equal(t, 60, cached.TimeSlotIntervalMinutes)

	got, err := svc.Resolve(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 20, got.MaxCapacityPerSlot)
}
