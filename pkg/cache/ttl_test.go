package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/checkoutkit/pkg/cache"
)

func TestTTLCacheGetSet(t *testing.T) {
	t.Parallel()

	now := time.Now()
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(d)
	}

	c := cache.NewTTL(time.Minute, cache.WithClock[string, int](clock))

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	advance(time.Minute + time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok, "expired entry must be treated as missing")
	assert.Equal(t, 0, c.Len(), "expired entry removed lazily on access")
}

func TestTTLCacheGetOrLoad(t *testing.T) {
	t.Parallel()

	t.Run("caches successful load", func(t *testing.T) {
		t.Parallel()

		c := cache.NewTTL[string, string](time.Minute)
		var calls atomic.Int32

		loader := func(ctx context.Context) (string, error) {
			calls.Add(1)
			return "value", nil
		}

		for range 5 {
			v, err := c.GetOrLoad(context.Background(), "key", loader)
			require.NoError(t, err)
			assert.Equal(t, "value", v)
		}

		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("errors are not cached", func(t *testing.T) {
		t.Parallel()

		c := cache.NewTTL[string, string](time.Minute)
		var calls atomic.Int32
		boom := errors.New("boom")

		loader := func(ctx context.Context) (string, error) {
			calls.Add(1)
			return "", boom
		}

		_, err := c.GetOrLoad(context.Background(), "key", loader)
		assert.ErrorIs(t, err, boom)
		_, err = c.GetOrLoad(context.Background(), "key", loader)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("concurrent loads collapse to one flight", func(t *testing.T) {
		t.Parallel()

		c := cache.NewTTL[string, int](time.Minute)
		var calls atomic.Int32
		release := make(chan struct{})

		loader := func(ctx context.Context) (int, error) {
			calls.Add(1)
			<-release
			return 42, nil
		}

		var wg sync.WaitGroup
		results := make([]int, 10)
		for i := range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := c.GetOrLoad(context.Background(), "key", loader)
				assert.NoError(t, err)
				results[i] = v
			}()
		}

		// Give all goroutines a chance to join the flight before releasing.
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
		for _, v := range results {
			assert.Equal(t, 42, v)
		}
	})
}

func TestTTLCacheInvalidate(t *testing.T) {
	t.Parallel()

	c := cache.NewTTL[string, int](time.Minute)
	c.Set("a", 1)

	v, ok := c.Invalidate("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("a")
	assert.False(t, ok)

	_, ok = c.Invalidate("a")
	assert.False(t, ok)
}

func TestTTLCacheClear(t *testing.T) {
	t.Parallel()

	c := cache.NewTTL[string, int](time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	require.Equal(t, 2, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestNewTTLPanicsOnInvalidTTL(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		cache.NewTTL[string, int](0)
	})
}
