package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// RedisCache кеш настроек в Redis, значения в JSON с TTL
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisCache(client *redis.Client, ttl time.Duration, prefix string) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
		prefix: prefix,
	}
}

func (c *RedisCache) Get(ctx context.Context, popupID int64) (*domain.ReservationSettings, error) {
	data, err := c.client.Get(ctx, c.key(popupID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - popup_id=%d: %v", ErrCache, popupID, err)
	}

	var cached cachedSettings
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("%w: Get - decode popup_id=%d: %v", ErrCache, popupID, err)
	}

	s := cached.toDomain()
	return &s, nil
}

func (c *RedisCache) Set(ctx context.Context, s domain.ReservationSettings) error {
	data, err := json.Marshal(fromDomain(s))
	if err != nil {
		return fmt.Errorf("%w: Set - encode popup_id=%d: %v", ErrCache, s.PopupID, err)
	}

	if err := c.client.Set(ctx, c.key(s.PopupID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Set - popup_id=%d: %v", ErrCache, s.PopupID, err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, popupID int64) error {
	if err := c.client.Del(ctx, c.key(popupID)).Err(); err != nil {
		return fmt.Errorf("%w: Delete - popup_id=%d: %v", ErrCache, popupID, err)
	}
	return nil
}

func (c *RedisCache) key(popupID int64) string {
	return c.prefix + strconv.FormatInt(popupID, 10)
}
