package cache

import (
	"fmt"

	"github.com/partnerpro/product-manager/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Factory creates cache stores based on configuration
type Factory struct {
	cacheConfig           config.CacheConfig
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	newRedis              func(config.RedisConfig, ...RedisCacheOption) (Store, error)
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory store when Redis is unavailable.
// Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(cacheCfg config.CacheConfig, redisCfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		cacheConfig:           cacheCfg,
		redisConfig:           redisCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		newRedis: func(cfg config.RedisConfig, o ...RedisCacheOption) (Store, error) {
			return NewRedisCache(cfg, o...)
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore returns a NopStore when caching is disabled, the in-memory store
// for the memory backend, and otherwise a Redis store, falling back to
// memory when Redis cannot be reached and fallback is allowed.
func (f *Factory) CreateStore() (Store, error) {
	if !f.cacheConfig.Enabled {
		f.logger.Info("Cache disabled")
		return NopStore{}, nil
	}

	if f.cacheConfig.Backend == "memory" {
		f.logger.Info("Using in-memory cache", zap.Duration("ttl", f.cacheConfig.TTL))
		return NewMemoryCache(f.cacheConfig.TTL), nil
	}

	store, err := f.newRedis(f.redisConfig,
		WithPrefix(f.cacheConfig.Prefix),
		WithTTL(f.cacheConfig.TTL),
		WithCacheLogger(f.logger),
	)
	if err == nil {
		f.logger.Info("Using Redis cache", zap.String("addr", f.redisConfig.Addr()))
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis cache unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory cache. "+
		"Cached lists are not shared between instances.",
		zap.Error(err),
	)
	return NewMemoryCache(f.cacheConfig.TTL), nil
}
