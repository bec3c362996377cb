// Package cache keeps encoded mazes in Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "maze:blob:"

// RedisBlobCache implements i.BlobCache on Redis strings with a TTL.
type RedisBlobCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBlobCache creates a cache whose entries expire after ttlSeconds.
// Zero keeps entries until Redis evicts them.
func NewRedisBlobCache(client *redis.Client, ttlSeconds int) *RedisBlobCache {
	return &RedisBlobCache{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
}

// Get returns the blob stored under key, or i.ErrCacheMiss.
func (c *RedisBlobCache) Get(ctx context.Context, key string) ([]byte, error) {
	blob, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, i.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return blob, nil
}

// Set stores blob under key and refreshes its TTL.
func (c *RedisBlobCache) Set(ctx context.Context, key string, blob []byte) error {
	if err := c.client.Set(ctx, keyPrefix+key, blob, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
