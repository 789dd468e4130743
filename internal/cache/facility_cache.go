package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/sports_booking/internal/model"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// FacilitySource первичный источник площадок
type FacilitySource interface {
	GetByID(ctx context.Context, id int64) (*model.Facility, error)
}

// FacilityCache read-through кеш площадок в Redis.
// Недоступность Redis не ломает чтение: запрос уходит в источник.
type FacilityCache struct {
	client redis.Cmdable
	source FacilitySource
	ttl    time.Duration
	logger *zap.Logger
}

func NewFacilityCache(client redis.Cmdable, source FacilitySource, ttl time.Duration, logger *zap.Logger) *FacilityCache {
	return &FacilityCache{
		client: client,
		source: source,
		ttl:    ttl,
		logger: logger,
	}
}

// Key ключ площадки в Redis
func Key(id int64) string {
	return fmt.Sprintf("facility:%d", id)
}

// GetByID возвращает площадку из кеша или источника; nil если площадки нет
func (c *FacilityCache) GetByID(ctx context.Context, id int64) (*model.Facility, error) {
	key := Key(id)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var facility model.Facility
		if err := json.Unmarshal(data, &facility); err == nil {
			return &facility, nil
		}
		c.logger.Warn("Dropping corrupted facility cache entry", zap.String("key", key))
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("Facility cache read failed", zap.String("key", key), zap.Error(err))
	}

	facility, err := c.source.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if facility == nil {
		return nil, nil
	}

	encoded, err := json.Marshal(facility)
	if err != nil {
		return nil, fmt.Errorf("encode facility: %w", err)
	}

	if err := c.client.Set(ctx, key, string(encoded), c.ttl).Err(); err != nil {
		c.logger.Warn("Facility cache write failed", zap.String("key", key), zap.Error(err))
	}

	return facility, nil
}

// Invalidate удаляет площадку из кеша
func (c *FacilityCache) Invalidate(ctx context.Context, id int64) error {
	if err := c.client.Del(ctx, Key(id)).Err(); err != nil {
		return fmt.Errorf("invalidate facility %d: %w", id, err)
	}
	return nil
}
