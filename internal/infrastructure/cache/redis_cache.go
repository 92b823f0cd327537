package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/partnerpro/product-manager/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

// redisCommands is the subset of *redis.Client used by RedisCache
type redisCommands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisCache implements Store using Redis
type RedisCache struct {
	client redisCommands
	closer func() error
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// RedisCacheOption is a functional option for configuring the cache
type RedisCacheOption func(*RedisCache)

// WithPrefix namespaces every key, e.g. "pm:"
func WithPrefix(prefix string) RedisCacheOption {
	return func(c *RedisCache) {
		c.prefix = prefix
	}
}

// WithTTL sets the default expiration
func WithTTL(ttl time.Duration) RedisCacheOption {
	return func(c *RedisCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisCacheOption {
	return func(c *RedisCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewRedisCache connects to Redis and verifies the connection with a ping
func NewRedisCache(cfg config.RedisConfig, opts ...RedisCacheOption) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c := newRedisCache(client, opts...)
	c.closer = client.Close
	return c, nil
}

// NewRedisCacheWithClient creates a cache with an existing Redis client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisCacheWithClient(client *redis.Client, opts ...RedisCacheOption) *RedisCache {
	return newRedisCache(client, opts...)
}

func newRedisCache(client redisCommands, opts ...RedisCacheOption) *RedisCache {
	c := &RedisCache{
		client: client,
		ttl:    defaultTTL,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisCache) key(name string) string {
	return c.prefix + name
}

// Get decodes the cached value into dest
func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.logger.Debug("Cache miss", zap.String("key", key))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get %s from cache: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("Evicting undecodable cache entry", zap.String("key", key), zap.Error(err))
		_ = c.client.Del(ctx, c.key(key)).Err()
		return false, fmt.Errorf("%w: %s", ErrCorruptEntry, key)
	}

	c.logger.Debug("Cache hit", zap.String("key", key))
	return true, nil
}

// Set stores value under key
func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := c.client.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s in cache: %w", key, err)
	}
	return nil
}

// Delete removes the given keys
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}
	return nil
}

// Close closes the Redis client when the cache owns it
func (c *RedisCache) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}
