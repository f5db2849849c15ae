// Package redis shares solve results between replicas through Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"eveanchor/internal/app/ports"
)

const keyPrefix = "eveanchor:solve:"

// Cache stores results as JSON with a server-side TTL. Redis failures are
// logged and read as misses.
type Cache struct {
	client goredis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

func New(client goredis.UniversalClient, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// Dial connects to addr and pings it once.
func Dial(ctx context.Context, addr string) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func (c *Cache) Get(ctx context.Context, key string) (ports.CachedResult, bool) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.logger.Warn("result cache read failed", zap.String("key", key), zap.Error(err))
		}
		return ports.CachedResult{}, false
	}
	var res ports.CachedResult
	if err := json.Unmarshal(raw, &res); err != nil {
		c.logger.Warn("result cache entry is corrupt", zap.String("key", key), zap.Error(err))
		return ports.CachedResult{}, false
	}
	return res, true
}

func (c *Cache) Set(ctx context.Context, key string, result ports.CachedResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("result cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("result cache write failed", zap.String("key", key), zap.Error(err))
	}
}
