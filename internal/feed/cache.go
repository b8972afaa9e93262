package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"rescuefeed/internal/domain"
)

// ErrCacheMiss reports that a key is absent from the KV store.
var ErrCacheMiss = errors.New("cache miss")

// KVStore abstracts the key-value cache so unit tests can swap Redis out.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// RedisKVStore is a go-redis backed KVStore.
type RedisKVStore struct {
	client *redis.Client
}

// NewRedisKVStore wraps an existing Redis client.
func NewRedisKVStore(client *redis.Client) *RedisKVStore {
	return &RedisKVStore{client: client}
}

func (r *RedisKVStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", err
	}
	return val, nil
}

func (r *RedisKVStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Cache stores rendered global-feed pages. Failures are logged and swallowed:
// a broken cache degrades to live aggregation, never to an error response.
type Cache struct {
	kv     KVStore
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCache creates a feed cache with the given TTL.
func NewCache(kv KVStore, ttl time.Duration, logger zerolog.Logger) *Cache {
	return &Cache{kv: kv, ttl: ttl, logger: logger}
}

func globalFeedKey(limit int) string {
	return fmt.Sprintf("feed:global:%d", limit)
}

// GetGlobal returns the cached global feed for the given limit, if present.
func (c *Cache) GetGlobal(ctx context.Context, limit int) ([]domain.Activity, bool) {
	raw, err := c.kv.Get(ctx, globalFeedKey(limit))
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			c.logger.Warn().Err(err).Msg("feed cache: get failed")
		}
		return nil, false
	}
	var items []domain.Activity
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		c.logger.Warn().Err(err).Msg("feed cache: corrupt entry dropped")
		return nil, false
	}
	return items, true
}

// SetGlobal stores the global feed for the given limit.
func (c *Cache) SetGlobal(ctx context.Context, limit int, items []domain.Activity) {
	data, err := json.Marshal(items)
	if err != nil {
		c.logger.Warn().Err(err).Msg("feed cache: marshal failed")
		return
	}
	if err := c.kv.Set(ctx, globalFeedKey(limit), string(data), c.ttl); err != nil {
		c.logger.Warn().Err(err).Msg("feed cache: set failed")
	}
}
