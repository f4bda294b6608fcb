package cache

import (
	"context"
	"time"
)

const (
	HeaderScanCacheContextKey ctxKey = iota

	headerScanCacheName = "header_scan"
)

type ctxKey byte

// ContextWithCache returns a context carrying a fresh cache of the newest header modification time found
// under each scanned include directory. The cache lives as long as a single build run.
func ContextWithCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, HeaderScanCacheContextKey, NewCache[time.Time](headerScanCacheName))
}

// HeaderScanCacheFromContext returns the header scan cache stored in ctx, or nil.
func HeaderScanCacheFromContext(ctx context.Context) *Cache[time.Time] {
	if cache, ok := ctx.Value(HeaderScanCacheContextKey).(*Cache[time.Time]); ok {
		return cache
	}

	return nil
}
