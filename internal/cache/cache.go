package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is a read-through cache for catalog lookups. Misses are never errors.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value; a zero expiration uses the configured ttl
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)

	Delete(ctx context.Context, key string)
}

// keyVersion is bumped whenever a cached struct changes shape
const keyVersion = "v1"

// PlanKey is the cache key of a single plan
func PlanKey(planID string) string {
	return key("plan", planID)
}

func key(entity string, parts ...string) string {
	return entity + ":" + keyVersion + ":" + strings.Join(parts, ":")
}
