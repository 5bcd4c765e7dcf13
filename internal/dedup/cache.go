package dedup

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

// Cache stores the instant a key was last recorded. Implementations must be
// safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (time.Time, bool, error)
	Set(ctx context.Context, key string, at time.Time, ttl time.Duration) error
}

// MemoryCache is a bounded LRU with a single eviction TTL. Per-key windows are
// enforced by the suppressor against the stored instant, so ttl only needs to
// cover the longest window.
type MemoryCache struct {
	lru *expirable.LRU[string, time.Time]
}

func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{lru: expirable.NewLRU[string, time.Time](size, nil, ttl)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (time.Time, bool, error) {
	at, ok := c.lru.Get(key)
	return at, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, at time.Time, _ time.Duration) error {
	c.lru.Add(key, at)
	return nil
}

func (c *MemoryCache) Len() int {
	return c.lru.Len()
}

const redisKeyPrefix = "tracker:dedup:"

// RedisCache keeps entries in Redis so suppression survives restarts.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) (time.Time, bool, error) {
	val, err := c.client.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("redis get: %w", err)
	}

	nanos, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("decode %q: %w", key, err)
	}
	return time.Unix(0, nanos), true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, at time.Time, ttl time.Duration) error {
	if err := c.client.Set(ctx, redisKeyPrefix+key, strconv.FormatInt(at.UnixNano(), 10), ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
