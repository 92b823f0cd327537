package catalog

import (
	"context"
	"time"
)

// Cache keys evicted whenever the catalog changes
const (
	CacheKeyProducts  = "products"
	CacheKeyDashboard = "dashboard"
)

// Cache is a JSON value cache keyed by name
type Cache interface {
	// Get decodes the cached value into dest. found is false on a miss.
	Get(ctx context.Context, key string, dest any) (found bool, err error)

	// Set stores value under key. A zero ttl uses the implementation default.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete removes the given keys
	Delete(ctx context.Context, keys ...string) error
}
