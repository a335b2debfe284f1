package settings

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

type memoryEntry struct {
	value     domain.ReservationSettings
	expiresAt time.Time
}

// MemoryCache кеш настроек в памяти процесса (cache.driver = "memory")
type MemoryCache struct {
	mu    sync.RWMutex
	items map[int64]memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		items: make(map[int64]memoryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, popupID int64) (*domain.ReservationSettings, error) {
	c.mu.RLock()
	entry, ok := c.items[popupID]
	c.mu.RUnlock()

	if !ok || !c.now().Before(entry.expiresAt) {
		return nil, ErrCacheMiss
	}

	value := entry.value
	return &value, nil
}

func (c *MemoryCache) Set(_ context.Context, s domain.ReservationSettings) error {
	c.mu.Lock()
	c.items[s.PopupID] = memoryEntry{value: s, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, popupID int64) error {
	c.mu.Lock()
	delete(c.items, popupID)
	c.mu.Unlock()
	return nil
}
