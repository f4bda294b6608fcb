// Package cache memoizes values computed during a run. Lookups are counted by the telemetry meter stored in the
// context, as `<name>_cache_hit_count` and `<name>_cache_miss_count`.
package cache

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/cradle-build/cradle/internal/telemetry"
)

// Cache is a concurrent map from string keys to values of type V.
type Cache[V any] struct {
	name   string
	values *xsync.MapOf[string, V]
}

func NewCache[V any](name string) *Cache[V] {
	return &Cache[V]{name: name, values: xsync.NewMapOf[string, V]()}
}

func (c *Cache[V]) Name() string {
	return c.name
}

// Len returns the number of cached values.
func (c *Cache[V]) Len() int {
	return c.values.Size()
}

func (c *Cache[V]) Get(ctx context.Context, key string) (V, bool) {
	value, found := c.values.Load(key)
	c.count(ctx, found)

	return value, found
}

func (c *Cache[V]) Put(_ context.Context, key string, value V) {
	c.values.Store(key, value)
}

func (c *Cache[V]) Delete(key string) {
	c.values.Delete(key)
}

// DeleteFunc removes the values whose key satisfies del.
func (c *Cache[V]) DeleteFunc(del func(key string) bool) {
	c.values.Range(func(key string, _ V) bool {
		if del(key) {
			c.values.Delete(key)
		}

		return true
	})
}

// GetOrCompute returns the value cached under key, computing and caching it first if needed. A failed computation
// is not cached. Concurrent callers may compute the same key more than once, the last result wins.
func (c *Cache[V]) GetOrCompute(ctx context.Context, key string, compute func() (V, error)) (V, error) {
	if value, found := c.Get(ctx, key); found {
		return value, nil
	}

	value, err := compute()
	if err != nil {
		return value, err
	}

	c.Put(ctx, key, value)

	return value, nil
}

func (c *Cache[V]) count(ctx context.Context, hit bool) {
	outcome := "_cache_miss"
	if hit {
		outcome = "_cache_hit"
	}

	telemetry.TelemeterFromContext(ctx).Count(ctx, c.name+outcome, 1, nil)
}
