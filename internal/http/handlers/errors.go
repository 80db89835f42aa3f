// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants and the translation of
// service errors into HTTP responses. Codes give clients a stable,
// machine-readable taxonomy that supplements human-readable messages.
//
// Conventions:
//   - Codes are lowercase snake_case.
//   - Generic codes (bad_request, not_found, conflict) mirror HTTP status
//     semantics; workflow codes (provider_error, timeout, busy) distinguish
//     failures that share a status class.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "timeout",
//	  "message": "Video generation timed out"
//	}
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/akashparashar014/Video-Genration/internal/services"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeValidation       = "validation_error"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeRateLimited      = "rate_limited"
	ErrCodeInternal         = "internal_error"

	// Generation workflow:
	ErrCodePayloadTooLarge  = "payload_too_large"
	ErrCodeProvider         = "provider_error"
	ErrCodeGenerationFailed = "generation_failed"
	ErrCodeTimeout          = "timeout"
	ErrCodeBusy             = "busy"
	ErrCodeCanceled         = "request_canceled"
)

// apiError is the HTTP rendering of a service error.
type apiError struct {
	status int
	code   string
	msg    string
}

// classify maps a service error onto its status, code and message. Unknown
// errors become a generic 500 that hides the detail from clients.
func classify(err error) apiError {
	switch {
	case errors.Is(err, services.ErrValidation):
		return apiError{http.StatusBadRequest, ErrCodeValidation, detail(err, services.ErrValidation)}
	case errors.Is(err, services.ErrPayloadTooLarge):
		return apiError{http.StatusBadRequest, ErrCodePayloadTooLarge, detail(err, services.ErrPayloadTooLarge)}
	case errors.Is(err, services.ErrNotFound):
		return apiError{http.StatusNotFound, ErrCodeNotFound, detail(err, services.ErrNotFound)}
	case errors.Is(err, services.ErrConflict):
		return apiError{http.StatusConflict, ErrCodeConflict, detail(err, services.ErrConflict)}
	case errors.Is(err, services.ErrGenerationFailed):
		return apiError{http.StatusBadGateway, ErrCodeGenerationFailed, detail(err, services.ErrGenerationFailed)}
	case errors.Is(err, services.ErrProvider):
		return apiError{http.StatusBadGateway, ErrCodeProvider, detail(err, services.ErrProvider)}
	case errors.Is(err, services.ErrTimeout):
		return apiError{http.StatusGatewayTimeout, ErrCodeTimeout, detail(err, services.ErrTimeout)}
	case errors.Is(err, services.ErrBusy):
		return apiError{http.StatusServiceUnavailable, ErrCodeBusy, detail(err, services.ErrBusy)}
	case errors.Is(err, services.ErrCanceled):
		return apiError{http.StatusRequestTimeout, ErrCodeCanceled, "request canceled"}
	default:
		return apiError{http.StatusInternalServerError, ErrCodeInternal, "internal server error"}
	}
}

// failService aborts the request with the classified error. The raw error of
// a 500 is recorded on the Gin context so the access log keeps the detail.
func failService(c *gin.Context, err error) {
	e := classify(err)
	switch e.code {
	case ErrCodeBusy:
		c.Header("Retry-After", "5")
	case ErrCodeInternal:
		_ = c.Error(err)
	}
	fail(c, e.status, e.code, e.msg)
}

// detail strips the sentinel prefix added by fmt.Errorf("%w: ...") so clients
// see only the human-readable part.
func detail(err, kind error) string {
	if msg := strings.TrimPrefix(err.Error(), kind.Error()+": "); msg != "" {
		return msg
	}
	return kind.Error()
}
