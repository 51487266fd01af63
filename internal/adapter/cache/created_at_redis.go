package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisCreatedAtStore implements CreatedAtStore using Redis as the backing store.
type RedisCreatedAtStore struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisCreatedAtStore creates a new Redis-backed store. A ttl of zero keeps
// entries until they are removed.
func NewRedisCreatedAtStore(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisCreatedAtStore {
	return &RedisCreatedAtStore{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// cacheKey generates a Redis key for a user ID.
func (c *RedisCreatedAtStore) cacheKey(id int64) string {
	return fmt.Sprintf("user:created_at:%d", id)
}

// Get retrieves a creation time from Redis.
func (c *RedisCreatedAtStore) Get(ctx context.Context, id int64) (int64, bool, error) {
	key := c.cacheKey(id)

	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		// Cache miss - not an error
		c.log.Debug("cache miss", zap.Int64("user_id", id))
		return 0, false, nil
	}
	if err != nil {
		c.log.Error("failed to get from cache", zap.Int64("user_id", id), zap.Error(err))
		return 0, false, err
	}

	ts, err := strconv.ParseInt(data, 10, 64)
	if err != nil {
		c.log.Error("failed to parse cached creation time", zap.Int64("user_id", id), zap.String("value", data), zap.Error(err))
		return 0, false, err
	}

	c.log.Debug("cache hit", zap.Int64("user_id", id))
	return ts, true, nil
}

// Put stores a creation time in Redis with the configured TTL.
func (c *RedisCreatedAtStore) Put(ctx context.Context, id int64, ts int64) error {
	key := c.cacheKey(id)

	if err := c.client.Set(ctx, key, ts, c.ttl).Err(); err != nil {
		c.log.Error("failed to set cache", zap.Int64("user_id", id), zap.Error(err))
		return err
	}

	c.log.Debug("cached creation time", zap.Int64("user_id", id), zap.Duration("ttl", c.ttl))
	return nil
}

// Remove deletes a creation time from Redis.
func (c *RedisCreatedAtStore) Remove(ctx context.Context, id int64) error {
	key := c.cacheKey(id)

	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.Error("failed to delete from cache", zap.Int64("user_id", id), zap.Error(err))
		return err
	}

	c.log.Debug("deleted from cache", zap.Int64("user_id", id))
	return nil
}
