package util_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cradle-build/cradle/internal/cache"
	"github.com/cradle-build/cradle/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string, modTime time.Time) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	if util.FileNotExists(path) {
		require.NoError(t, os.WriteFile(path, []byte(path), 0644))
	}

	require.NoError(t, os.Chtimes(path, modTime, modTime))
}

func TestIsTargetOlderThan(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	now := time.Now().Truncate(time.Second)

	target := filepath.Join(dir, "libmath.a")
	older := filepath.Join(dir, "a.o")
	newer := filepath.Join(dir, "b.o")

	touch(t, older, now.Add(-2*time.Hour))
	touch(t, newer, now)

	stale, err := util.IsTargetOlderThan(target, older)
	require.NoError(t, err)
	assert.True(t, stale, "missing target must be rebuilt")

	touch(t, target, now.Add(-time.Hour))

	stale, err = util.IsTargetOlderThan(target, older)
	require.NoError(t, err)
	assert.False(t, stale)

	stale, err = util.IsTargetOlderThan(target, older, newer)
	require.NoError(t, err)
	assert.True(t, stale)

	stale, err = util.IsTargetOlderThan(target, older, filepath.Join(dir, "libc.a"))
	require.NoError(t, err)
	assert.False(t, stale, "missing inputs are skipped")

	touch(t, target, now)

	stale, err = util.IsTargetOlderThan(target, newer)
	require.NoError(t, err)
	assert.False(t, stale, "equal times are up to date")
}

func TestIsTargetOlderThanSourceAndHeaders(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	now := time.Now().Truncate(time.Second)

	source := filepath.Join(dir, "src", "main.cpp")
	target := filepath.Join(dir, "build", "main.o")
	includeDir := filepath.Join(dir, "include")
	header := filepath.Join(includeDir, "nested", "util.hpp")

	touch(t, source, now.Add(-3*time.Hour))
	touch(t, header, now.Add(-3*time.Hour))
	touch(t, filepath.Join(includeDir, "notes.txt"), now)

	ctx := context.Background()

	stale, err := util.IsTargetOlderThanSourceAndHeaders(ctx, target, source, []string{includeDir})
	require.NoError(t, err)
	assert.True(t, stale)

	touch(t, target, now.Add(-time.Hour))

	for range 2 {
		stale, err = util.IsTargetOlderThanSourceAndHeaders(ctx, target, source, []string{includeDir, filepath.Join(dir, "missing")})
		require.NoError(t, err)
		assert.False(t, stale, "repeated checks must agree")
	}

	touch(t, header, now)

	stale, err = util.IsTargetOlderThanSourceAndHeaders(ctx, target, source, []string{includeDir})
	require.NoError(t, err)
	assert.True(t, stale, "a newer header makes the object stale")

	touch(t, header, now.Add(-3*time.Hour))
	touch(t, source, now)

	stale, err = util.IsTargetOlderThanSourceAndHeaders(ctx, target, source, nil)
	require.NoError(t, err)
	assert.True(t, stale, "a newer source makes the object stale")
}

func TestHeaderScanIsCachedPerRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	now := time.Now().Truncate(time.Second)

	source := filepath.Join(dir, "main.cpp")
	target := filepath.Join(dir, "main.o")
	header := filepath.Join(dir, "include", "a.h")

	touch(t, source, now.Add(-3*time.Hour))
	touch(t, header, now.Add(-3*time.Hour))
	touch(t, target, now.Add(-time.Hour))

	ctx := cache.ContextWithCache(context.Background())

	stale, err := util.IsTargetOlderThanSourceAndHeaders(ctx, target, source, []string{filepath.Join(dir, "include")})
	require.NoError(t, err)
	assert.False(t, stale)

	headerCache := cache.HeaderScanCacheFromContext(ctx)
	newest, found := headerCache.Get(ctx, filepath.Join(dir, "include"))
	require.True(t, found)
	assert.True(t, newest.Equal(now.Add(-3*time.Hour)))
}

func TestInvalidateHeaderScans(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	now := time.Now().Truncate(time.Second)

	source := filepath.Join(dir, "main.cpp")
	target := filepath.Join(dir, "main.o")
	includeDir := filepath.Join(dir, "include")
	otherDir := filepath.Join(dir, "other")

	touch(t, source, now.Add(-3*time.Hour))
	touch(t, filepath.Join(includeDir, "a.h"), now.Add(-3*time.Hour))
	touch(t, filepath.Join(otherDir, "b.h"), now.Add(-3*time.Hour))
	touch(t, target, now.Add(-time.Hour))

	ctx := cache.ContextWithCache(context.Background())

	stale, err := util.IsTargetOlderThanSourceAndHeaders(ctx, target, source, []string{includeDir, otherDir})
	require.NoError(t, err)
	assert.False(t, stale)

	generated := filepath.Join(includeDir, "gen", "version.h")
	touch(t, generated, now)

	stale, err = util.IsTargetOlderThanSourceAndHeaders(ctx, target, source, []string{includeDir, otherDir})
	require.NoError(t, err)
	assert.False(t, stale, "the cached scan does not see the generated header")

	util.InvalidateHeaderScans(ctx, generated)

	headerCache := cache.HeaderScanCacheFromContext(ctx)
	_, found := headerCache.Get(ctx, includeDir)
	assert.False(t, found)
	_, found = headerCache.Get(ctx, otherDir)
	assert.True(t, found, "directories not containing the path keep their scan")

	stale, err = util.IsTargetOlderThanSourceAndHeaders(ctx, target, source, []string{includeDir, otherDir})
	require.NoError(t, err)
	assert.True(t, stale)
}
