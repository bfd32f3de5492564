// Package cache is a small in-process TTL cache for catalog listings.
// Entries are keyed by operation name plus parameters so that a mutation can
// drop every cached result of the operations it affects.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

const keySep = "\x1f"

type entry struct {
	value   any
	expires time.Time
}

// Cache holds values until their TTL elapses. A zero TTL disables caching.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	clock   Clock
}

// New creates a Cache. A nil clock uses SystemClock.
func New(ttl time.Duration, clock Clock) *Cache {
	if clock == nil {
		clock = SystemClock
	}
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		clock:   clock,
	}
}

// Key builds the cache key for op called with params.
func Key(op string, params ...string) string {
	if len(params) == 0 {
		return op + keySep
	}
	return op + keySep + strings.Join(params, keySep)
}

func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !c.clock.Now().Before(e.expires) {
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && cur.expires.Equal(e.expires) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Set(key string, value any) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = entry{value: value, expires: c.clock.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate drops every entry cached for the given operations, whatever
// their parameters.
func (c *Cache) Invalidate(ops ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		for _, op := range ops {
			if strings.HasPrefix(key, op+keySep) {
				delete(c.entries, key)
				break
			}
		}
	}
}

// Purge empties the cache.
func (c *Cache) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Load returns the cached value for key or calls fn and caches its result.
// Errors are not cached.
func Load[T any](ctx context.Context, c *Cache, key string, fn func(context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if t, ok := v.(T); ok {
			return t, nil
		}
	}
	v, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(key, v)
	return v, nil
}
