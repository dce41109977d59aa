package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL keeps upstream answers for a day.
const DefaultCacheTTL = 24 * time.Hour

// Cache stores upstream geocoding answers by normalised query.
type Cache interface {
	Get(ctx context.Context, key string) (Result, bool, error)
	Set(ctx context.Context, key string, r Result) error
}

// OpenRedis returns a client for addr, or nil when addr is empty.
func OpenRedis(addr, password string) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr, Password: password})
}

// RedisCache keeps results as JSON strings under "geocode:<query>".
type RedisCache struct {
	rc  *redis.Client
	ttl time.Duration
}

func NewRedisCache(rc *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{rc: rc, ttl: ttl}
}

func (c *RedisCache) key(q string) string {
	return "geocode:" + q
}

func (c *RedisCache) Get(ctx context.Context, q string) (Result, bool, error) {
	s, err := c.rc.Get(ctx, c.key(q)).Result()
	if errors.Is(err, redis.Nil) {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, fmt.Errorf("redis get: %w", err)
	}

	var r Result
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return Result{}, false, fmt.Errorf("decoding cached result: %w", err)
	}
	return r, true, nil
}

func (c *RedisCache) Set(ctx context.Context, q string, r Result) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if err := c.rc.Set(ctx, c.key(q), string(b), c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// NopCache never stores anything; used when Redis is not configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (Result, bool, error) { return Result{}, false, nil }
func (NopCache) Set(context.Context, string, Result) error { return nil }
