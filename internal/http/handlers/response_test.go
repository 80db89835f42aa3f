package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/akashparashar014/Video-Genration/internal/http/middleware"
)

// envelopeEngine simulates RequestID and the request-scoped logger, and
// copies the recorded error code into *code.
func envelopeEngine(buf *bytes.Buffer, code *string, h gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	logger := zerolog.New(buf)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-1")
		c.Set("logger", &logger)
		c.Next()
	})
	r.GET("/x", func(c *gin.Context) {
		h(c)
		*code = c.GetString(middleware.ErrorCodeKey)
	})
	return r
}

func TestFail_EnvelopeAndLogging(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		code    string
		wantLog bool
	}{
		{"server error is logged", http.StatusInternalServerError, ErrCodeInternal, true},
		{"gateway error is logged", http.StatusBadGateway, ErrCodeProvider, true},
		{"client error is not logged", http.StatusNotFound, ErrCodeNotFound, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			var code string
			r := envelopeEngine(&buf, &code, func(c *gin.Context) { Fail(c, tc.status, tc.code, "msg") })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			if w.Code != tc.status {
				t.Fatalf("status=%d want %d", w.Code, tc.status)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("json: %v", err)
			}
			if resp != (ErrorResponse{RequestID: "rid-1", Code: tc.code, Message: "msg"}) {
				t.Fatalf("unexpected body: %+v", resp)
			}
			if code != tc.code {
				t.Fatalf("recorded code = %q; want %q", code, tc.code)
			}
			if logged := strings.Contains(buf.String(), `"level":"error"`); logged != tc.wantLog {
				t.Fatalf("logged=%v want %v: %s", logged, tc.wantLog, buf.String())
			}
		})
	}
}

func TestOkAndNotModified(t *testing.T) {
	var buf bytes.Buffer
	var code string
	r := envelopeEngine(&buf, &code, func(c *gin.Context) {
		if c.GetHeader("If-None-Match") != "" {
			notModified(c)
			return
		}
		ok(c, http.StatusCreated, gin.H{"message": "File uploaded"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusCreated || !strings.Contains(w.Body.String(), "File uploaded") {
		t.Fatalf("ok: %d %s", w.Code, w.Body.String())
	}
	if code != "" {
		t.Fatalf("success must not record an error code")
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("If-None-Match", `W/"x"`)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotModified || w.Body.Len() != 0 {
		t.Fatalf("304: %d len=%d", w.Code, w.Body.Len())
	}
}
