// Package local keeps solve results in process memory.
package local

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"eveanchor/internal/app/ports"
)

const DefaultTTL = 15 * time.Minute

// Cache is a ports.ResultCache over go-cache. No janitor runs; an expired
// entry is dropped the next time it is read.
type Cache struct {
	items *gocache.Cache
}

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{items: gocache.New(ttl, 0)}
}

func (c *Cache) Get(_ context.Context, key string) (ports.CachedResult, bool) {
	v, ok := c.items.Get(key)
	if !ok {
		return ports.CachedResult{}, false
	}
	res, ok := v.(ports.CachedResult)
	return res, ok
}

func (c *Cache) Set(_ context.Context, key string, result ports.CachedResult) {
	c.items.Set(key, result, gocache.DefaultExpiration)
}

func (c *Cache) Len() int {
	return c.items.ItemCount()
}
