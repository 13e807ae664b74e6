package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/tablebooking/config"
	"github.com/Domenick1991/tablebooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     *redis.Client
	catalogTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, catalogTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		catalogTTL: catalogTTL,
	}
}

// GetCatalog returns the cached restaurant catalog, or nil on a miss.
func (c *RedisCache) GetCatalog(ctx context.Context) ([]domain.Restaurant, error) {
	data, err := c.client.Get(ctx, catalogKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var restaurants []domain.Restaurant
	if err := json.Unmarshal(data, &restaurants); err != nil {
		return nil, err
	}
	return restaurants, nil
}

func (c *RedisCache) SetCatalog(ctx context.Context, restaurants []domain.Restaurant) error {
	payload, err := json.Marshal(restaurants)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, catalogKey(), payload, c.catalogTTL).Err()
}

// AcquireSlotLock takes a short-lived lock on a table's hour bucket so that
// concurrent bookings for nearby times fail fast instead of racing to the
// database transaction. Two starts within the same clock hour are always
// inside each other's booking window, so sharing a bucket never rejects a
// bookable slot.
func (c *RedisCache) AcquireSlotLock(ctx context.Context, tableID int64, slot time.Time, ttl time.Duration) (bool, error) {
	key := slotLockKey(tableID, slot)
	return c.client.SetNX(ctx, key, "locked", ttl).Result()
}

func (c *RedisCache) ReleaseSlotLock(ctx context.Context, tableID int64, slot time.Time) error {
	return c.client.Del(ctx, slotLockKey(tableID, slot)).Err()
}

func catalogKey() string {
	return "cache:catalog"
}

func slotLockKey(tableID int64, slot time.Time) string {
	bucket := slot.UTC().Truncate(time.Hour)
	return fmt.Sprintf("lock:table:%d:slot:%d", tableID, bucket.Unix())
}
