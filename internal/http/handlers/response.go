// Package handlers implements the Gin handlers of the public API: user
// registration, audio storage and playback, and image-to-video generation.
//
// Every failure is answered with ErrorResponse and a stable code (see
// errors.go), so clients can branch on code and show message:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "Task not found"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akashparashar014/Video-Genration/internal/http/middleware"
)

// ErrorResponse is the error envelope returned by all endpoints.
type ErrorResponse struct {
	// Echo of X-Request-ID, for correlating with server logs
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code
	Code string `json:"code" example:"not_found"`
	// Human-readable message
	Message string `json:"message" example:"Task not found"`
}

// fail aborts with an ErrorResponse. The code is recorded on the context for
// the access log; 5xx answers are also logged here with the request logger.
func fail(c *gin.Context, status int, code, msg string) {
	c.Set(middleware.ErrorCodeKey, code)

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	})
}

// Fail lets the router answer fallbacks (404, 405) with the same envelope.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// notModified answers a conditional GET whose ETag still matches.
func notModified(c *gin.Context) {
	c.Status(http.StatusNotModified)
}
