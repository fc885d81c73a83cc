package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type ttlEntry[V any] struct {
	value  V
	expiry time.Time
}

// TTLCache is a thread-safe cache whose entries expire after a fixed TTL.
// Concurrent loads for the same key are collapsed into a single call.
type TTLCache[K comparable, V any] struct {
	ttl    time.Duration
	mu     sync.Mutex
	items  map[K]ttlEntry[V]
	flight singleflight.Group
	now    func() time.Time
}

// Option configures a TTLCache during construction.
type Option[K comparable, V any] func(*TTLCache[K, V])

// WithClock overrides the time source. Intended for tests.
func WithClock[K comparable, V any](now func() time.Time) Option[K, V] {
	return func(c *TTLCache[K, V]) {
		if now != nil {
			c.now = now
		}
	}
}

// NewTTL creates a TTL cache. The TTL must be positive, otherwise it panics.
func NewTTL[K comparable, V any](ttl time.Duration, opts ...Option[K, V]) *TTLCache[K, V] {
	if ttl <= 0 {
		panic("cache: TTL must be positive")
	}
	c := &TTLCache[K, V]{
		ttl:   ttl,
		items: make(map[K]ttlEntry[V]),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get retrieves a live value from the cache.
// Returns the zero value and false if the key is missing or expired.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}

	if c.now().After(entry.expiry) {
		delete(c.items, key)
		var zero V
		return zero, false
	}

	return entry.value, true
}

// Set stores a value with a fresh TTL, replacing any existing entry.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = ttlEntry[V]{value: value, expiry: c.now().Add(c.ttl)}
}

// GetOrLoad returns the cached value for key, calling loader on a miss.
// Concurrent callers for the same key share one loader invocation and all
// receive its result. Loader errors are returned to every waiting caller
// and are never cached.
func (c *TTLCache[K, V]) GetOrLoad(ctx context.Context, key K, loader func(ctx context.Context) (V, error)) (V, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	result, err, _ := c.flight.Do(fmt.Sprintf("%v", key), func() (any, error) {
		// Re-check under the flight: another caller may have populated
		// the entry between the miss and the flight starting.
		if value, ok := c.Get(key); ok {
			return value, nil
		}

		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}

		c.Set(key, value)
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	return result.(V), nil
}

// Invalidate removes a key from the cache.
// Returns the removed value and true if a live entry existed.
func (c *TTLCache[K, V]) Invalidate(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[key]
	delete(c.items, key)
	if !ok || c.now().After(entry.expiry) {
		var zero V
		return zero, false
	}
	return entry.value, true
}

// Clear removes all entries.
func (c *TTLCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]ttlEntry[V])
}

// Len returns the number of stored entries, including any not yet
// lazily expired.
func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
