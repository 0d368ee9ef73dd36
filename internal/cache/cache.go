package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/utils"
)

// Cache is a small JSON read-through cache for dashboard payloads. Every
// caller must treat a miss and an error identically: recompute from the
// database. The cache is an accelerator, never a source of truth.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
	Close() error
}

type redisCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
}

// New connects to Redis using REDIS_ADDR. When the address is unset or the
// ping fails the caller gets a no-op cache back along with the error, so the
// service keeps running without caching.
func New(log *logger.Logger) (Cache, error) {
	cacheLog := log.With("service", "RedisCache")

	addr := utils.GetEnv("REDIS_ADDR", "", log)
	if strings.TrimSpace(addr) == "" {
		return Noop(), fmt.Errorf("missing REDIS_ADDR")
	}
	prefix := utils.GetEnv("REDIS_KEY_PREFIX", "skillmatrix", log)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    utils.GetEnv("REDIS_PASSWORD", "", log),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return Noop(), fmt.Errorf("redis ping: %w", err)
	}

	return &redisCache{log: cacheLog, rdb: rdb, prefix: prefix}, nil
}

func (c *redisCache) key(k string) string {
	return c.prefix + ":" + k
}

func (c *redisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		c.log.Warn("cache get failed", "key", key, "error", err)
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// Stale shape from an older build. Drop it and report a miss.
		_ = c.rdb.Del(ctx, c.key(key)).Err()
		return false, nil
	}
	return true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, c.key(key), raw, ttl).Err(); err != nil {
		c.log.Warn("cache set failed", "key", key, "error", err)
		return err
	}
	return nil
}

func (c *redisCache) Invalidate(ctx context.Context, pattern string) error {
	full := c.key(pattern)
	iter := c.rdb.Scan(ctx, 0, full, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("cache scan failed", "pattern", pattern, "error", err)
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *redisCache) Close() error {
	return c.rdb.Close()
}

type noopCache struct{}

// Noop returns a cache that always misses. Used when Redis is unavailable.
func Noop() Cache { return noopCache{} }

func (noopCache) Get(ctx context.Context, key string, dest any) (bool, error) { return false, nil }
func (noopCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return nil
}
func (noopCache) Invalidate(ctx context.Context, pattern string) error { return nil }
func (noopCache) Close() error                                         { return nil }
