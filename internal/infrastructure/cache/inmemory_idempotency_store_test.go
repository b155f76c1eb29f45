package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryIdempotencyStore(0)
	defer store.Close()

	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	t.Run("first mark wins", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "k1", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)

		isNew, err = store.MarkProcessed(ctx, "k1", time.Hour)
		require.NoError(t, err)
		assert.False(t, isNew)

		processed, err := store.IsProcessed(ctx, "k1")
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("expired key can be marked again", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "k2", time.Minute)
		require.NoError(t, err)

		clock = clock.Add(2 * time.Minute)
		processed, err := store.IsProcessed(ctx, "k2")
		require.NoError(t, err)
		assert.False(t, processed)

		isNew, err := store.MarkProcessed(ctx, "k2", time.Minute)
		require.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("released key can be marked again", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "k3", time.Hour)
		require.NoError(t, err)
		require.NoError(t, store.Release(ctx, "k3"))

		isNew, err := store.MarkProcessed(ctx, "k3", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)
	})
}

func TestInMemoryIdempotencyStore_ConcurrentMarkHasOneWinner(t *testing.T) {
	store := NewInMemoryIdempotencyStore(0)
	defer store.Close()

	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := store.MarkProcessed(context.Background(), "same-key", time.Hour); ok {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), winners.Load())
}

func TestInMemoryIdempotencyStore_SweepRemovesExpired(t *testing.T) {
	store := NewInMemoryIdempotencyStore(0)
	defer store.Close()

	clock := time.Now()
	store.now = func() time.Time { return clock }
	_, _ = store.MarkProcessed(context.Background(), "old", time.Second)
	_, _ = store.MarkProcessed(context.Background(), "fresh", time.Hour)

	clock = clock.Add(time.Minute)
	store.sweep()
	assert.Equal(t, 1, store.Size())
}

func TestInMemoryIdempotencyStore_CloseStopsJanitor(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	store := NewInMemoryIdempotencyStore(time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
