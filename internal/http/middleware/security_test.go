package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func securityEngine(opt SecurityOptions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SecurityHeaders(opt))
	r.GET("/users/", func(c *gin.Context) { c.JSON(http.StatusOK, []string{}) })
	r.GET("/list/", func(c *gin.Context) { c.JSON(http.StatusOK, []string{}) })
	r.GET("/swagger/*any", func(c *gin.Context) { c.String(http.StatusOK, "<html></html>") })
	return r
}

func getHeaders(r *gin.Engine, path string, mutate func(*http.Request)) http.Header {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Header()
}

func TestSecurityHeaders_Baseline(t *testing.T) {
	h := getHeaders(securityEngine(SecurityOptions{}), "/list/", nil)

	want := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Referrer-Policy":         "no-referrer",
		"Content-Security-Policy": apiCSP,
	}
	for k, v := range want {
		if got := h.Get(k); got != v {
			t.Fatalf("%s = %q; want %q", k, got, v)
		}
	}
	for _, k := range []string{"Permissions-Policy", "X-Permitted-Cross-Domain-Policies", "Cache-Control", "Strict-Transport-Security"} {
		if h.Get(k) != "" {
			t.Fatalf("unexpected %s: %q", k, h.Get(k))
		}
	}
}

func TestSecurityHeaders_PrefixRules(t *testing.T) {
	r := securityEngine(SecurityOptions{
		EnablePolicy:      true,
		NoStorePrefixes:   []string{"/users/"},
		CSPExemptPrefixes: []string{"/swagger/"},
	})

	users := getHeaders(r, "/users/", nil)
	if users.Get("Cache-Control") != "no-store" || users.Get("Pragma") != "no-cache" || users.Get("Expires") != "0" {
		t.Fatalf("users must be no-store: %#v", users)
	}
	if users.Get("Permissions-Policy") != permissionsPolicy || users.Get("X-Permitted-Cross-Domain-Policies") != "none" {
		t.Fatalf("missing policy headers: %#v", users)
	}

	if list := getHeaders(r, "/list/", nil); list.Get("Cache-Control") != "" {
		t.Fatalf("list should stay cacheable, got %q", list.Get("Cache-Control"))
	}

	ui := getHeaders(r, "/swagger/index.html", nil)
	if ui.Get("Content-Security-Policy") != "" {
		t.Fatalf("swagger must be CSP-exempt, got %q", ui.Get("Content-Security-Policy"))
	}
	if ui.Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("baseline still applies to swagger")
	}
}

func TestSecurityHeaders_HSTS(t *testing.T) {
	cases := []struct {
		name   string
		opt    SecurityOptions
		mutate func(*http.Request)
		want   string
	}{
		{
			name:   "tls with explicit max-age",
			opt:    SecurityOptions{EnableHSTS: true, HSTSMaxAge: 24 * time.Hour},
			mutate: func(r *http.Request) { r.TLS = &tls.ConnectionState{} },
			want:   "max-age=86400; includeSubDomains; preload",
		},
		{
			name:   "forwarded proto with default max-age",
			opt:    SecurityOptions{EnableHSTS: true},
			mutate: func(r *http.Request) { r.Header.Set("X-Forwarded-Proto", "https") },
			want:   "max-age=15552000; includeSubDomains; preload",
		},
		{
			name: "plain http never gets hsts",
			opt:  SecurityOptions{EnableHSTS: true},
			want: "",
		},
		{
			name:   "disabled",
			opt:    SecurityOptions{},
			mutate: func(r *http.Request) { r.TLS = &tls.ConnectionState{} },
			want:   "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := getHeaders(securityEngine(tc.opt), "/list/", tc.mutate)
			if got := h.Get("Strict-Transport-Security"); got != tc.want {
				t.Fatalf("HSTS = %q; want %q", got, tc.want)
			}
		})
	}
}

func Test_isHTTPS(t *testing.T) {
	if isHTTPS(httptest.NewRequest(http.MethodGet, "/", nil)) {
		t.Fatalf("plain HTTP should not be https")
	}
	tlsReq := httptest.NewRequest(http.MethodGet, "/", nil)
	tlsReq.TLS = &tls.ConnectionState{}
	if !isHTTPS(tlsReq) {
		t.Fatalf("TLS request should be https")
	}
	proxied := httptest.NewRequest(http.MethodGet, "/", nil)
	proxied.Header.Set("X-Forwarded-Proto", "HTTPS")
	if !isHTTPS(proxied) {
		t.Fatalf("X-Forwarded-Proto=HTTPS should be https")
	}
}
