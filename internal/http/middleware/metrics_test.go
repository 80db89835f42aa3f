package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RouteLabels_UnmatchedAndInflight(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())

	r.GET("/play/:filename", func(c *gin.Context) {
		c.Data(http.StatusOK, "audio/mpeg", []byte("ID3"))
	})
	r.GET("/statusonly", func(c *gin.Context) {
		c.Status(http.StatusNoContent) // size stays -1
	})

	basePlay := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/play/:filename", "200"))
	baseMiss := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "unmatched", "404"))

	for _, p := range []string{"/play/a.mp3", "/play/b.mp3"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s -> %d", p, w.Code)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/does-not-exist", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /does-not-exist -> %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/statusonly", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("GET /statusonly -> %d", w.Code)
	}

	// Both filenames collapse onto the route template.
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/play/:filename", "200")); got != basePlay+2 {
		t.Fatalf("counter /play 200 = %v; want %v", got, basePlay+2)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "unmatched", "404")); got != baseMiss+1 {
		t.Fatalf("counter unmatched 404 = %v; want %v", got, baseMiss+1)
	}
	if inFlight := testutil.ToFloat64(httpInflight); inFlight != 0 {
		t.Fatalf("httpInflight = %v; want 0", inFlight)
	}
}

func TestObserveGeneration_CountsByKindAndOutcome(t *testing.T) {
	baseOK := testutil.ToFloat64(genReqs.WithLabelValues("provider", "ok"))
	baseTimeout := testutil.ToFloat64(genReqs.WithLabelValues("provider", "timeout"))
	baseDummy := testutil.ToFloat64(genReqs.WithLabelValues("dummy", "ok"))

	ObserveGeneration("provider", "ok", 2*time.Second)
	ObserveGeneration("provider", "timeout", 5*time.Minute)
	ObserveGeneration("dummy", "ok", time.Millisecond)

	if got := testutil.ToFloat64(genReqs.WithLabelValues("provider", "ok")); got != baseOK+1 {
		t.Fatalf("provider/ok = %v; want %v", got, baseOK+1)
	}
	if got := testutil.ToFloat64(genReqs.WithLabelValues("provider", "timeout")); got != baseTimeout+1 {
		t.Fatalf("provider/timeout = %v; want %v", got, baseTimeout+1)
	}
	if got := testutil.ToFloat64(genReqs.WithLabelValues("dummy", "ok")); got != baseDummy+1 {
		t.Fatalf("dummy/ok = %v; want %v", got, baseDummy+1)
	}
	if n := testutil.CollectAndCount(genLat); n < 2 {
		t.Fatalf("expected histogram series for both kinds, got %d", n)
	}
}
