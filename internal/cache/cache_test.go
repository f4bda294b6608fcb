package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cradle-build/cradle/internal/cache"
)

func TestCacheOperations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewCache[string]("test")

	assert.Equal(t, "test", c.Name())

	value, found := c.Get(ctx, "lib")
	assert.False(t, found)
	assert.Empty(t, value)

	c.Put(ctx, "lib", "liblib.a")
	value, found = c.Get(ctx, "lib")
	assert.True(t, found)
	assert.Equal(t, "liblib.a", value)
	assert.Equal(t, 1, c.Len())

	c.Delete("lib")
	_, found = c.Get(ctx, "lib")
	assert.False(t, found)
	assert.Zero(t, c.Len())
}

func TestDeleteFunc(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewCache[int]("test")

	for i, key := range []string{"src/a", "src/b", "include"} {
		c.Put(ctx, key, i)
	}

	c.DeleteFunc(func(key string) bool { return key != "include" })

	assert.Equal(t, 1, c.Len())
	_, found := c.Get(ctx, "include")
	assert.True(t, found)
}

func TestGetOrCompute(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewCache[int]("test")

	calls := 0
	compute := func() (int, error) {
		calls++
		return 42, nil
	}

	for range 3 {
		value, err := c.GetOrCompute(ctx, "answer", compute)
		require.NoError(t, err)
		assert.Equal(t, 42, value)
	}

	assert.Equal(t, 1, calls)

	failure := errors.New("scan failed")

	_, err := c.GetOrCompute(ctx, "broken", func() (int, error) { return 0, failure })
	require.ErrorIs(t, err, failure)

	_, found := c.Get(ctx, "broken")
	assert.False(t, found, "failed computations are not cached")
}

func TestHeaderScanCacheFromContext(t *testing.T) {
	t.Parallel()

	assert.Nil(t, cache.HeaderScanCacheFromContext(context.Background()))

	ctx := cache.ContextWithCache(context.Background())
	headers := cache.HeaderScanCacheFromContext(ctx)
	require.NotNil(t, headers)

	now := time.Now()
	headers.Put(ctx, "include", now)

	value, found := cache.HeaderScanCacheFromContext(ctx).Get(ctx, "include")
	assert.True(t, found)
	assert.True(t, now.Equal(value))
}
