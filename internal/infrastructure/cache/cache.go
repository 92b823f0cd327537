// Package cache provides JSON value caches for read-heavy catalog queries.
// Values are stored encoded so callers never share mutable state with the cache.
package cache

import (
	"context"
	"errors"
	"time"
)

const defaultTTL = 10 * time.Minute

// ErrCorruptEntry is returned when a cached value cannot be decoded.
// The entry is evicted before the error is returned.
var ErrCorruptEntry = errors.New("cache: corrupt entry")

// Store is a JSON value cache keyed by name
type Store interface {
	// Get decodes the cached value into dest. found is false on a miss.
	Get(ctx context.Context, key string, dest any) (found bool, err error)

	// Set stores value under key. A zero ttl uses the store default.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete removes the given keys
	Delete(ctx context.Context, keys ...string) error

	// Close releases resources owned by the store
	Close() error
}

// NopStore never holds anything. It is used when caching is disabled.
type NopStore struct{}

func (NopStore) Get(context.Context, string, any) (bool, error)        { return false, nil }
func (NopStore) Set(context.Context, string, any, time.Duration) error { return nil }
func (NopStore) Delete(context.Context, ...string) error               { return nil }
func (NopStore) Close() error                                          { return nil }
