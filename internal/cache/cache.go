// Package cache provides a small redis-backed read cache for listing
// endpoints. A nil *Cache is valid and disables caching, so callers never
// need to branch on whether redis is configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/reelstack/apiserver/config"
)

const (
	MoviesListKey  = "movies:list"
	ReviewsListKey = "reviews:list"

	pingTimeout = 2 * time.Second
)

// ErrMiss is returned when a key is absent.
var ErrMiss = errors.New("cache miss")

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to redis and returns a Cache, or nil when no address is
// configured or the server cannot be reached. Callers degrade to uncached
// operation on nil.
func New(cfg config.RedisConfig) *Cache {
	if cfg.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("cache disabled, redis unreachable: %v", err)
		return nil
	}
	ttl := time.Duration(cfg.TTLSecs) * time.Second
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Cache{client: client, ttl: ttl}
}

// GetJSON unmarshals the cached value at key into dest.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) error {
	if c == nil {
		return ErrMiss
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return err
	}
	return json.Unmarshal(raw, dest)
}

// SetJSON stores value at key with the configured TTL. Failures are logged
// and swallowed; the cache is an optimization, not a dependency.
func (c *Cache) SetJSON(ctx context.Context, key string, value any) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Printf("cache set %s: %v", key, err)
	}
}

// Invalidate removes the given keys.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("cache invalidate: %v", err)
	}
}

// Close releases the underlying connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
