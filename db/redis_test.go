package db

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStoreGetPutDelete(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "meta:alice:1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "meta:alice:1", `{"id":"1"}`, time.Minute))
	value, ok, err := store.Get(ctx, "meta:alice:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":"1"}`, value)
	assert.Equal(t, time.Minute, mr.TTL("meta:alice:1"))

	mr.FastForward(61 * time.Second)
	_, ok, err = store.Get(ctx, "meta:alice:1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "meta:alice:2", "x", time.Minute))
	require.NoError(t, store.Delete(ctx, "meta:alice:2"))
	require.NoError(t, store.Delete(ctx, "meta:alice:2"))
	assert.False(t, mr.Exists("meta:alice:2"))
}

func TestRedisStoreIncrement(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, err := store.Increment(ctx, "rl:alice:1", 2*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
	assert.Equal(t, 2*time.Minute, mr.TTL("rl:alice:1"))

	mr.FastForward(121 * time.Second)
	n, err := store.Increment(ctx, "rl:alice:1", 2*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRedisStoreIncrementIsAtomic(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Increment(ctx, "rl:bob:7", time.Minute)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	value, ok, err := store.Get(ctx, "rl:bob:7")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "50", value)
}

func TestRedisStoreSurfacesConnectionErrors(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	_, _, err := store.Get(context.Background(), "k")
	assert.Error(t, err)
	_, err = store.Increment(context.Background(), "k", time.Minute)
	assert.Error(t, err)
}
