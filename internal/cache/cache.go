// Package cache is a single-process memoizing layer: get-or-compute keyed
// by operation+parameters with a per-operation TTL. Concurrent misses on
// the same key are coalesced through singleflight so only one upstream
// fallback sequence ever runs per key at a time.
package cache

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	expiresAt time.Time
	value     any
}

// Cache memoizes computed values with per-call TTLs.
type Cache struct {
	mu    sync.RWMutex
	items map[string]entry
	sf    singleflight.Group

	// now is replaceable in tests.
	now func() time.Time
}

func New() *Cache {
	return &Cache{items: make(map[string]entry), now: time.Now}
}

// Key builds a cache key from an operation name and its parameters.
// Parameters are case-normalized and sorted so the key is independent of
// argument order and caller casing.
func Key(op string, params ...string) string {
	norm := make([]string, 0, len(params))
	for _, p := range params {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			norm = append(norm, p)
		}
	}
	sort.Strings(norm)
	return strings.ToLower(op) + "|" + strings.Join(norm, "|")
}

// GetOrCompute returns the cached value for key while fresh, otherwise
// runs compute exactly once (concurrent callers share the in-flight
// result) and stores whatever it returns - including empty defaults, so
// providers known to have nothing are not re-queried within the TTL.
func (c *Cache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute func(ctx context.Context) (any, error)) (any, error) {
	if ttl <= 0 {
		return compute(ctx)
	}

	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if ok && c.now().Before(e.expiresAt) {
		return e.value, nil
	}

	v, err, _ := c.sf.Do(key, func() (any, error) {
		// Double check: another caller may have stored a fresh entry
		// between our miss and acquiring the flight.
		c.mu.RLock()
		e, ok := c.items[key]
		c.mu.RUnlock()
		if ok && c.now().Before(e.expiresAt) {
			return e.value, nil
		}

		val, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.items[key] = entry{expiresAt: c.now().Add(ttl), value: val}
		c.mu.Unlock()
		return val, nil
	})
	return v, err
}

// Invalidate drops a single key.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Len reports the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Cached is a typed wrapper over GetOrCompute for call-site type safety.
func Cached[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, compute func(ctx context.Context) (T, error)) (T, error) {
	v, err := c.GetOrCompute(ctx, key, ttl, func(ctx context.Context) (any, error) {
		return compute(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
