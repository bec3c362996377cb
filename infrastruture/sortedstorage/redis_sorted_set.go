package sortedstorage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSortedSet manages ranked members in Redis sorted sets with TTL support.
type RedisSortedSet struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSortedSet initializes a RedisSortedSet with the provided Redis client and TTL.
// A zero TTL keeps sets forever.
func NewRedisSortedSet(client *redis.Client, ttlSeconds int) *RedisSortedSet {
	return &RedisSortedSet{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
}

// Add adds or updates a member with a given score and sets expiration if necessary.
func (rs *RedisSortedSet) Add(ctx context.Context, key string, score float64, member string) error {
	_, err := rs.client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Result()
	if err != nil {
		return err
	}

	if rs.ttl <= 0 {
		return nil
	}
	// Set expiration only if it's not already set
	ttl, err := rs.client.TTL(ctx, key).Result()
	if err == nil && ttl == -1 {
		_ = rs.client.Expire(ctx, key, rs.ttl).Err()
	}

	return nil
}

// Top retrieves up to n members with the highest scores, highest first.
func (rs *RedisSortedSet) Top(ctx context.Context, key string, n int64) ([]string, error) {
	return rs.client.ZRevRange(ctx, key, 0, n-1).Result()
}

// Count returns the number of members in the sorted set.
func (rs *RedisSortedSet) Count(ctx context.Context, key string) int64 {
	return rs.client.ZCard(ctx, key).Val()
}
