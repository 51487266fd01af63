package cache

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCreatedAtStore_PutGetRemove(t *testing.T) {
	store := NewMemoryCreatedAtStore()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, 1, 1000))
	ts, ok, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1000), ts)

	require.NoError(t, store.Put(ctx, 1, 2000))
	ts, _, _ = store.Get(ctx, 1)
	assert.Equal(t, int64(2000), ts)

	require.NoError(t, store.Remove(ctx, 1))
	_, ok, _ = store.Get(ctx, 1)
	assert.False(t, ok)

	// removing an unknown id is a no-op
	require.NoError(t, store.Remove(ctx, 42))
	assert.Equal(t, 0, store.Len())
}

func TestMemoryCreatedAtStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryCreatedAtStore()
	ctx := context.Background()

	const workers = 16
	const perWorker = 200

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := int64(w*perWorker + i)
				_ = store.Put(ctx, id, id*10)
				got, ok, _ := store.Get(ctx, id)
				assert.True(t, ok)
				assert.Equal(t, id*10, got)
				if i%2 == 0 {
					_ = store.Remove(ctx, id)
				}
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, workers*perWorker/2, store.Len())
}
