// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file holds the Prometheus collectors for HTTP traffic and for the
// generation endpoints. Route labels come from c.FullPath(), so filenames and
// task ids in URLs never reach a label value; requests that matched no route
// are labeled "unmatched".
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const unmatchedRoute = "unmatched"

var (
	httpReqs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	// Generation requests hold the connection while the provider is polled,
	// hence buckets up to the five-minute poll budget.
	httpLat = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"method", "path"})

	httpInflight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_inflight",
		Help: "Current number of in-flight HTTP requests.",
	})

	// 256B up to 64MiB in powers of four; audio playback sits at the top.
	httpRespSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_response_size_bytes",
		Help:    "Size of HTTP responses in bytes.",
		Buckets: prometheus.ExponentialBuckets(256, 4, 10),
	}, []string{"method", "path"})

	genReqs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "video_generation_requests_total",
		Help: "Generation requests by kind and outcome.",
	}, []string{"kind", "outcome"})

	genLat = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "video_generation_duration_seconds",
		Help:    "Duration of the generation workflow in seconds.",
		Buckets: []float64{.05, .25, 1, 5, 10, 30, 60, 120, 180, 300, 600},
	}, []string{"kind"})
)

// ObserveGeneration records one finished generation request of kind
// ("provider" or "dummy") with outcome "ok" or the API error code. Replays of
// an earlier result are not observed.
func ObserveGeneration(kind, outcome string, d time.Duration) {
	genReqs.WithLabelValues(kind, outcome).Inc()
	genLat.WithLabelValues(kind).Observe(d.Seconds())
}

// Metrics counts requests per (method, route, status), times them per
// (method, route), tracks in-flight requests and records response sizes.
// Expose the registry separately:
//
//	r.Use(middleware.Metrics())
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		httpInflight.Inc()
		defer httpInflight.Dec()
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		m := c.Request.Method

		httpReqs.WithLabelValues(m, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpLat.WithLabelValues(m, route).Observe(time.Since(start).Seconds())
		// Size is -1 when nothing was written.
		if n := c.Writer.Size(); n >= 0 {
			httpRespSize.WithLabelValues(m, route).Observe(float64(n))
		}
	}
}
