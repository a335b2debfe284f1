package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	settingsCache "github.com/m04kA/SMC-ReservationService/internal/infra/cache/settings"
	settingsRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-ReservationService/internal/service/settings/models"
)

const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

// Service сервис настроек бронирования попапов
type Service struct {
	repo    SettingsRepository
	cache   SettingsCache
	access  AccessChecker
	metrics Metrics
	logger  Logger

	loads singleflight.Group

	// generations номер версии настроек попапа в этом процессе; меняется при UpdateBasic
	// Заполнение кеша из БД пишет значение, только если версия не сменилась за время загрузки
	genMu       sync.Mutex
	generations map[int64]uint64
}

// NewService создает новый экземпляр сервиса настроек
func NewService(
	repo SettingsRepository,
	cache SettingsCache,
	access AccessChecker,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		repo:    repo,
		cache:   cache,
		access:  access,
		metrics: metrics,
		logger:  logger,

		generations: make(map[int64]uint64),
	}
}

// Resolve возвращает действующие настройки попапа с примененными значениями по умолчанию
//
// Побочный эффект: если у попапа еще нет строки настроек, она создается со
// значениями по умолчанию. Чтение может привести к записи в БД.
// Параллельные промахи кеша по одному попапу схлопываются в одну загрузку.
func (s *Service) Resolve(ctx context.Context, popupID int64) (domain.ReservationSettings, error) {
	cached, err := s.cache.Get(ctx, popupID)
	switch {
	case err == nil:
		s.metrics.RecordSettingsCache(cacheHit)
		return cached.WithDefaults(), nil
	case errors.Is(err, settingsCache.ErrCacheMiss):
		s.metrics.RecordSettingsCache(cacheMiss)
	default:
		s.metrics.RecordSettingsCache(cacheError)
		s.logger.Warn("Resolve: cache read failed for popup=%d, falling back to repository: %v", popupID, err)
	}

	v, err, _ := s.loads.Do(strconv.FormatInt(popupID, 10), func() (interface{}, error) {
		gen := s.generation(popupID)

		loaded, err := s.loadOrCreate(ctx, popupID)
		if err != nil {
			return nil, err
		}
		s.fill(ctx, loaded, gen)
		return loaded, nil
	})
	if err != nil {
		return domain.ReservationSettings{}, err
	}

	return v.(domain.ReservationSettings), nil
}

// Peek настройки попапа без побочных эффектов
// Отсутствующая строка не создается: возвращаются значения по умолчанию
func (s *Service) Peek(ctx context.Context, popupID int64) (domain.ReservationSettings, error) {
	if cached, err := s.cache.Get(ctx, popupID); err == nil {
		s.metrics.RecordSettingsCache(cacheHit)
		return cached.WithDefaults(), nil
	}

	stored, err := s.repo.GetByPopupID(ctx, popupID)
	if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
		return domain.DefaultSettings(popupID), nil
	}
	if err != nil {
		s.logger.Error("Peek: repository error for popup=%d: %v", popupID, err)
		return domain.ReservationSettings{}, fmt.Errorf("%w: Peek - repository error: %v", ErrInternal, err)
	}

	return stored.WithDefaults(), nil
}

// Get настройки попапа для чтения через API
// Несуществующий попап - ошибка NotFound, строка настроек для него не создается
func (s *Service) Get(ctx context.Context, popupID int64) (*models.SettingsResponse, error) {
	if _, err := s.access.GetPopup(ctx, popupID); err != nil {
		return nil, err
	}

	current, err := s.Resolve(ctx, popupID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainSettings(current), nil
}

// UpdateBasic меняет вместимость слота и интервал слотов
// Доступно только участникам бренда попапа. Новое значение сразу пишется в кеш,
// при ошибке записи ключ удаляется, чтобы следующее чтение пошло в БД.
func (s *Service) UpdateBasic(ctx context.Context, req *models.UpdateBasicSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("UpdateBasic: popup=%d capacity=%d interval=%d by user=%d",
		req.PopupID, req.MaxCapacityPerSlot, req.TimeSlotIntervalMinutes, req.UserID)

	if _, err := s.access.RequireHost(ctx, req.PopupID, req.UserID); err != nil {
		return nil, err
	}

	current, err := s.loadOrCreate(ctx, req.PopupID)
	if err != nil {
		return nil, err
	}

	next := current.WithBasic(req.MaxCapacityPerSlot, req.TimeSlotIntervalMinutes)
	if err := next.Validate(); err != nil {
		s.logger.Warn("UpdateBasic: rejected settings for popup=%d: %v", req.PopupID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	saved, err := s.repo.Update(ctx, next)
	if err != nil {
		s.logger.Error("UpdateBasic: repository error for popup=%d: %v", req.PopupID, err)
		return nil, fmt.Errorf("%w: UpdateBasic - repository error: %v", ErrInternal, err)
	}
	result := saved.WithDefaults()

	s.genMu.Lock()
	s.generations[req.PopupID]++
	if err := s.cache.Set(ctx, result); err != nil {
		s.logger.Warn("UpdateBasic: cache write failed for popup=%d, invalidating: %v", req.PopupID, err)
		if err := s.cache.Delete(ctx, req.PopupID); err != nil {
			s.logger.Error("UpdateBasic: cache invalidation failed for popup=%d: %v", req.PopupID, err)
		}
	}
	s.genMu.Unlock()

	s.logger.Info("UpdateBasic: settings updated for popup=%d", req.PopupID)
	return models.FromDomainSettings(result), nil
}

func (s *Service) generation(popupID int64) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.generations[popupID]
}

// fill кладет загруженные из БД настройки в кеш, если с начала загрузки их не обновляли
// Версия и запись проверяются под тем же мьютексом, что и запись в UpdateBasic.
// Кеш, уже содержащий более свежие настройки (другой экземпляр сервиса), не перезаписывается.
func (s *Service) fill(ctx context.Context, loaded domain.ReservationSettings, gen uint64) {
	s.genMu.Lock()
	defer s.genMu.Unlock()

	if s.generations[loaded.PopupID] != gen {
		s.logger.Info("Resolve: settings for popup=%d changed during load, skipping cache fill", loaded.PopupID)
		return
	}
	if cached, err := s.cache.Get(ctx, loaded.PopupID); err == nil && cached.UpdatedAt.After(loaded.UpdatedAt) {
		return
	}
	if err := s.cache.Set(ctx, loaded); err != nil {
		s.logger.Warn("Resolve: cache write failed for popup=%d: %v", loaded.PopupID, err)
	}
}

// loadOrCreate читает настройки из БД, создавая строку по умолчанию при ее отсутствии
func (s *Service) loadOrCreate(ctx context.Context, popupID int64) (domain.ReservationSettings, error) {
	stored, err := s.repo.GetByPopupID(ctx, popupID)
	if err == nil {
		return stored.WithDefaults(), nil
	}
	if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
		s.logger.Error("loadOrCreate: repository error for popup=%d: %v", popupID, err)
		return domain.ReservationSettings{}, fmt.Errorf("%w: loadOrCreate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("loadOrCreate: no settings for popup=%d, creating defaults", popupID)
	if err := s.repo.CreateIfAbsent(ctx, domain.DefaultSettings(popupID)); err != nil {
		s.logger.Error("loadOrCreate: failed to create default settings for popup=%d: %v", popupID, err)
		return domain.ReservationSettings{}, fmt.Errorf("%w: loadOrCreate - create defaults: %v", ErrInternal, err)
	}

	stored, err = s.repo.GetByPopupID(ctx, popupID)
	if err != nil {
		s.logger.Error("loadOrCreate: failed to re-read settings for popup=%d: %v", popupID, err)
		return domain.ReservationSettings{}, fmt.Errorf("%w: loadOrCreate - re-read: %v", ErrInternal, err)
	}

	return stored.WithDefaults(), nil
}
