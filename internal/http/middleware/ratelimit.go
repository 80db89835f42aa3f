// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements an in-memory token-bucket rate limiter keyed per
// client. Buckets live in an expiring LRU, so idle clients are forgotten
// after IdleTTL and memory is capped at MaxKeys buckets.
//
// Requests may cost more than one token: the provider-backed generation
// route starts paid remote jobs, so the router charges it more than a cheap
// listing. Replays flagged by IdempotencyValidator are never charged.
//
// The limiter is process-local; a horizontally scaled deployment needs a
// shared limiter in front of it.
package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	defaultIdleTTL = 10 * time.Minute
	defaultMaxKeys = 10000
)

// keyFunc selects the identity used to key a rate-limit bucket.
type keyFunc func(*gin.Context) string

// costFunc returns how many tokens a request consumes.
type costFunc func(*gin.Context) int

// KeyByClientIP buckets requests by client IP as resolved by
// gin.Context.ClientIP (trusted proxies honored), e.g. "ip:203.0.113.7".
func KeyByClientIP() keyFunc {
	return func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	}
}

// CostByRoute charges cost tokens for requests whose route template is one
// of routes and a single token for everything else.
func CostByRoute(cost int, routes ...string) costFunc {
	set := make(map[string]struct{}, len(routes))
	for _, r := range routes {
		set[r] = struct{}{}
	}
	return func(c *gin.Context) int {
		if _, ok := set[c.FullPath()]; ok {
			return cost
		}
		return 1
	}
}

// RateLimiter is a per-key token-bucket limiter. It is safe for concurrent
// use.
type RateLimiter struct {
	rps   rate.Limit
	burst int
	keyFn keyFunc
	cost  costFunc

	mu       sync.Mutex
	visitors *expirable.LRU[string, *rate.Limiter]
}

// NewRateLimiter builds a limiter refilling rps tokens per second up to
// burst (coerced to at least 1), keyed by keyFn. Every request costs one
// token until WithCost says otherwise.
func NewRateLimiter(rps float64, burst int, keyFn keyFunc) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		keyFn:    keyFn,
		cost:     func(*gin.Context) int { return 1 },
		visitors: expirable.NewLRU[string, *rate.Limiter](defaultMaxKeys, nil, defaultIdleTTL),
	}
}

// WithCost replaces the per-request cost function.
func (rl *RateLimiter) WithCost(fn costFunc) *RateLimiter {
	if fn != nil {
		rl.cost = fn
	}
	return rl
}

// getVisitor returns the bucket for key, creating it if absent. Every use
// pushes the bucket's expiry IdleTTL into the future.
func (rl *RateLimiter) getVisitor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	lim, ok := rl.visitors.Get(key)
	if !ok {
		lim = rate.NewLimiter(rl.rps, rl.burst)
	}
	rl.visitors.Add(key, lim)
	return lim
}

// tokens clamps a request cost to [1, burst] so no request is unservable.
func (rl *RateLimiter) tokens(c *gin.Context) int {
	n := rl.cost(c)
	if n < 1 {
		return 1
	}
	if n > rl.burst {
		return rl.burst
	}
	return n
}

// retryAfter is the whole number of seconds needed to refill n tokens.
func (rl *RateLimiter) retryAfter(n int) int {
	if rl.rps <= 0 {
		return 1
	}
	return max(1, int(math.Ceil(float64(n)/float64(rl.rps))))
}

// IsRateBypass reports whether IdempotencyValidator marked this request as a
// replay that must not be rate limited.
func IsRateBypass(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyRateBypass)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Handler enforces the limits. A denied request gets
//
//	HTTP/1.1 429 Too Many Requests
//	Retry-After: <seconds>
//	{"request_id": "...", "code": "rate_limited", "message": "rate limit exceeded"}
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}

		n := rl.tokens(c)
		if rl.getVisitor(rl.keyFn(c)).AllowN(time.Now(), n) {
			c.Next()
			return
		}

		c.Set(ErrorCodeKey, "rate_limited")
		c.Header("Retry-After", strconv.Itoa(rl.retryAfter(n)))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": c.Writer.Header().Get(requestIDHeader),
			"code":       "rate_limited",
			"message":    "rate limit exceeded",
		})
	}
}
