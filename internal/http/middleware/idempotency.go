// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file validates the Idempotency-Key header of generation requests. A
// POST whose key already produced a stored result on the same route is
// flagged as a replay: the handler answers from the stored record instead of
// starting another provider job, and the rate limiter does not charge it.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// HeaderIdempotencyKey carries the client's retry key.
	HeaderIdempotencyKey = "Idempotency-Key"
	// HeaderIdempotentReplayed is set to "true" on answers served from a
	// stored result.
	HeaderIdempotentReplayed = "Idempotent-Replayed"

	defaultIdemMaxLen = 200
)

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
	ctxKeyRateBypass = "rate.bypass"
)

// defaultIdemPattern accepts token characters plus a few safe separators.
var defaultIdemPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// GetIdempotencyKey returns the validated key, if the request carried one.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	s := c.GetString(ctxKeyIdemKey)
	return s, s != ""
}

// IsReplay reports whether a stored result exists for this route and key.
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// IdempotencyOptions configures key validation. Expiry is the lookup's job.
type IdempotencyOptions struct {
	// MaxLen caps the key length; values <= 0 mean 200.
	MaxLen int
	// Pattern restricts allowed characters; nil means ^[A-Za-z0-9._~\-:]+$.
	Pattern *regexp.Regexp
}

// IdempotencyLookup reports whether an unexpired result exists for (scope,
// key) at now. scope is the matched route template, so one key sent to two
// endpoints never collides.
type IdempotencyLookup func(ctx context.Context, scope, key string, now time.Time) (exists bool, err error)

// IdempotencyValidator checks the Idempotency-Key header when present:
//
//   - malformed keys are rejected with 400 bad_idempotency_key;
//   - valid keys are stored for GetIdempotencyKey;
//   - on POST, lookup is consulted and a hit marks the request as a replay.
//
// A failing lookup is logged and treated as a miss, so a storage hiccup
// degrades to running the operation rather than rejecting it.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = defaultIdemMaxLen
	}
	pat := opts.Pattern
	if pat == nil {
		pat = defaultIdemPattern
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			c.Set(ErrorCodeKey, "bad_idempotency_key")
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "bad_idempotency_key",
				"message":    "invalid Idempotency-Key",
			})
			return
		}
		c.Set(ctxKeyIdemKey, key)

		if lookup == nil || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		exists, err := lookup(c.Request.Context(), c.FullPath(), key, time.Now().UTC())
		if err != nil {
			lg := LoggerFrom(c)
			lg.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed")
		}
		if exists && err == nil {
			c.Set(ctxKeyIdemReplay, true)
			c.Set(ctxKeyRateBypass, true)
		}
		c.Next()
	}
}
