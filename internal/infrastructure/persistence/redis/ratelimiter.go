package redis

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// RATE LIMITER
// ══════════════════════════════════════════════════════════════════════════════

// RateLimiter counts requests per identifier in fixed windows on Redis,
// so the budget is shared across server instances. It satisfies the HTTP
// server's RequestLimiter contract.
type RateLimiter struct {
	cache  *Cache
	limit  int64
	window time.Duration
	action string
}

// NewRateLimiter creates a limiter allowing `limit` requests per window.
// The action names the guarded operation and namespaces the counter keys.
func NewRateLimiter(cache *Cache, limit int, window time.Duration, action string) *RateLimiter {
	if limit <= 0 {
		limit = 100
	}
	if window <= 0 {
		window = time.Minute
	}
	if action == "" {
		action = "http"
	}
	return &RateLimiter{
		cache:  cache,
		limit:  int64(limit),
		window: window,
		action: action,
	}
}

// Allow reports whether the identifier is still within its window budget.
// A Redis failure fails open: limiting is protection, not a dependency.
func (l *RateLimiter) Allow(ctx context.Context, identifier string) bool {
	count, err := l.cache.IncrWithWindow(ctx, RateLimitKey(identifier, l.action), l.window)
	if err != nil {
		return true
	}
	return count <= l.limit
}
