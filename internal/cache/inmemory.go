package cache

import (
	"context"
	"time"

	goCache "github.com/patrickmn/go-cache"
	"github.com/taktakmenu/platform/internal/config"
)

const (
	// DefaultExpiration applies when the configuration does not set a ttl
	DefaultExpiration = 10 * time.Minute
	// DefaultCleanupInterval is how often expired items are removed from the cache
	DefaultCleanupInterval = 30 * time.Minute
)

// InMemoryCache implements the Cache interface using github.com/patrickmn/go-cache
type InMemoryCache struct {
	cache   *goCache.Cache
	enabled bool
}

// NewInMemoryCache creates a process local cache. A disabled cache misses on
// every read and drops every write.
func NewInMemoryCache(cfg *config.Configuration) Cache {
	ttl := cfg.Cache.TTL
	if ttl <= 0 {
		ttl = DefaultExpiration
	}
	return &InMemoryCache{
		cache:   goCache.New(ttl, DefaultCleanupInterval),
		enabled: cfg.Cache.Enabled,
	}
}

func (c *InMemoryCache) Get(_ context.Context, key string) (interface{}, bool) {
	if !c.enabled {
		return nil, false
	}
	return c.cache.Get(key)
}

func (c *InMemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) {
	if !c.enabled {
		return
	}
	if expiration == 0 {
		expiration = goCache.DefaultExpiration
	}
	c.cache.Set(key, value, expiration)
}

func (c *InMemoryCache) Delete(_ context.Context, key string) {
	if !c.enabled {
		return
	}
	c.cache.Delete(key)
}
