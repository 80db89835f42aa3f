// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file holds the correlation ID, panic recovery and the request-scoped
// logger accessor. Install in this order so panics are logged with the
// request's ID:
//
//	r.Use(RequestID(), RedactingLogger(opts), Recovery())
package middleware

import (
	"net/http"
	"regexp"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
	loggerKey       = "logger"

	// maxQueryLogLength caps the bytes of raw query logged per request.
	maxQueryLogLength = 2048
	// maxStackLogLength caps the stack trace attached to a panic log.
	maxStackLogLength = 8 << 10
)

// ErrorCodeKey is the Gin context key under which handlers record the API
// error code they answered with; the access log reports it as error_code.
const ErrorCodeKey = "errorCode"

// clientRequestID bounds what is accepted from an inbound X-Request-ID so it
// cannot smuggle control characters or huge values into logs.
var clientRequestID = regexp.MustCompile(`^[A-Za-z0-9._:\-]{1,128}$`)

// RequestID reuses a well-formed inbound X-Request-ID or generates a UUIDv4,
// echoes it on the response and stores it on the Gin context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if !clientRequestID.MatchString(rid) {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// Recovery turns a panic into a logged error and, when nothing was written
// yet, a 500 with the standard envelope:
//
//	{"request_id": "...", "code": "internal_error", "message": "internal server error"}
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			rid := c.GetString(requestIDKey)
			LoggerFrom(c).Error().
				Interface("panic", rec).
				Str("stack", truncate(string(debug.Stack()), maxStackLogLength)).
				Msg("panic recovered")

			c.Set(ErrorCodeKey, "internal_error")
			if c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"request_id": rid,
				"code":       "internal_error",
				"message":    "internal server error",
			})
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped logger attached by RedactingLogger,
// or the global logger when there is none. It never returns nil.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if lg, ok := c.Value(loggerKey).(*zerolog.Logger); ok && lg != nil {
		return lg
	}
	l := log.With().Logger()
	return &l
}

// attachLogger stores l on the Gin context and on the request context, where
// services find it through zerolog.Ctx.
func attachLogger(c *gin.Context, l *zerolog.Logger) {
	c.Set(loggerKey, l)
	c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))
}

// truncate cuts s to max bytes plus an ellipsis; max <= 0 disables it.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
