package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "clustergram:viz:"

// Cache implements Cache using Redis
type Cache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCache creates a new Redis result cache
func NewCache(client *redis.Client, logger *zap.Logger) *Cache {
	return &Cache{
		client: client,
		logger: logger,
	}
}

// Get retrieves a cached document
func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, getCacheKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get cached document: %w", err)
	}

	return value, true, nil
}

// Set stores a document with TTL; a zero ttl keeps it until evicted
func (c *Cache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, getCacheKey(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache document: %w", err)
	}

	c.logger.Debug("document cached",
		zap.String("key", key),
		zap.Int("bytes", len(value)),
		zap.Duration("ttl", ttl))

	return nil
}

// Ping checks the Redis connection
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// getCacheKey returns the Redis key for a cache entry
func getCacheKey(key string) string {
	return keyPrefix + key
}
