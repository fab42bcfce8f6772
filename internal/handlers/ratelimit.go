package handlers

import (
	"time"

	"github.com/mentorsfoundation/donation-portal/pkg/logger"
	"github.com/mentorsfoundation/donation-portal/pkg/redis"

	xhttp "github.com/mentorsfoundation/donation-portal/pkg/http"
)

// RateLimiter throttles per client IP with a fixed one-minute window counter
// in redis. A nil limiter is a passthrough, and redis outages fail open:
// losing throttling is cheaper than refusing logins.
type RateLimiter struct {
	store  redis.Adapter
	limit  int64
	window time.Duration
}

func NewRateLimiter(store redis.Adapter, perMinute int) *RateLimiter {
	if store == nil || perMinute <= 0 {
		return nil
	}
	return &RateLimiter{
		store:  store,
		limit:  int64(perMinute),
		window: time.Minute,
	}
}

func (r *RateLimiter) Wrap(next xhttp.RequestHandler) xhttp.RequestHandler {
	if r == nil {
		return next
	}
	return func(ctx *xhttp.RequestCtx) {
		key := "ratelimit:" + ctx.RemoteIP().String()

		n, err := r.store.Incr(key)
		if err != nil {
			logger.Warn("rate limiter store unavailable, allowing request", "error", err)
			next(ctx)
			return
		}
		if n == 1 {
			if _, err := r.store.Expire(key, r.window); err != nil {
				logger.Warn("failed to set rate limit window", "key", key, "error", err)
			}
		}
		if n > r.limit {
			writeMessage(ctx, xhttp.StatusTooManyRequests, "Too many requests")
			return
		}

		next(ctx)
	}
}
