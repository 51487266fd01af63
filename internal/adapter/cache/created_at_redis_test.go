package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client, mr
}

func TestRedisCreatedAtStore_Put_Success(t *testing.T) {
	client, mr := setupTestRedis(t)

	logger := zaptest.NewLogger(t)
	store := NewRedisCreatedAtStore(client, 0, logger)

	err := store.Put(context.Background(), 1, 1700000000000)
	require.NoError(t, err)

	// Verify data is in Redis
	val, err := mr.Get("user:created_at:1")
	require.NoError(t, err)
	assert.Equal(t, "1700000000000", val)
	assert.Equal(t, time.Duration(0), mr.TTL("user:created_at:1"))
}

func TestRedisCreatedAtStore_Get_Success(t *testing.T) {
	client, _ := setupTestRedis(t)

	logger := zaptest.NewLogger(t)
	store := NewRedisCreatedAtStore(client, 5*time.Minute, logger)

	require.NoError(t, store.Put(context.Background(), 1, 42))

	ts, ok, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(42), ts)
}

func TestRedisCreatedAtStore_Get_CacheMiss(t *testing.T) {
	client, _ := setupTestRedis(t)

	logger := zaptest.NewLogger(t)
	store := NewRedisCreatedAtStore(client, 5*time.Minute, logger)

	_, ok, err := store.Get(context.Background(), 999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCreatedAtStore_Get_CorruptedValue(t *testing.T) {
	client, mr := setupTestRedis(t)

	logger := zaptest.NewLogger(t)
	store := NewRedisCreatedAtStore(client, 5*time.Minute, logger)

	require.NoError(t, mr.Set("user:created_at:1", "not-a-number"))

	_, ok, err := store.Get(context.Background(), 1)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisCreatedAtStore_TTLExpiry(t *testing.T) {
	client, mr := setupTestRedis(t)

	logger := zaptest.NewLogger(t)
	store := NewRedisCreatedAtStore(client, time.Minute, logger)

	require.NoError(t, store.Put(context.Background(), 1, 42))
	mr.FastForward(2 * time.Minute)

	_, ok, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCreatedAtStore_Remove_Success(t *testing.T) {
	client, mr := setupTestRedis(t)

	logger := zaptest.NewLogger(t)
	store := NewRedisCreatedAtStore(client, 5*time.Minute, logger)

	require.NoError(t, store.Put(context.Background(), 1, 42))
	require.NoError(t, store.Remove(context.Background(), 1))
	assert.False(t, mr.Exists("user:created_at:1"))

	// Removing again is fine
	require.NoError(t, store.Remove(context.Background(), 1))
}

func TestRedisCreatedAtStore_RedisDown(t *testing.T) {
	client, mr := setupTestRedis(t)

	logger := zaptest.NewLogger(t)
	store := NewRedisCreatedAtStore(client, 5*time.Minute, logger)

	mr.Close()

	_, _, err := store.Get(context.Background(), 1)
	assert.Error(t, err)
	assert.Error(t, store.Put(context.Background(), 1, 42))
	assert.Error(t, store.Remove(context.Background(), 1))
}
