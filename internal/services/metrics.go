// Package services – workflow metrics
//
// Prometheus collectors for the generation workflow. Labels are bounded:
//
//   - variant: "provider" or "dummy"
//   - outcome: succeeded, failed, timeout, provider_error, invalid,
//     too_large, busy, canceled, conflict, persistence_error, internal_error
package services

import "github.com/prometheus/client_golang/prometheus"

const (
	variantProvider = "provider"
	variantDummy    = "dummy"
)

var (
	// genJobs counts finished workflow runs by variant and outcome.
	genJobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_generation_jobs_total",
			Help: "Total number of video generation workflow runs by outcome.",
		},
		[]string{"variant", "outcome"},
	)

	// genPolls records how many poll attempts a submitted job needed before
	// reaching a terminal state.
	genPolls = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_generation_poll_attempts",
			Help:    "Poll attempts per submitted generation job.",
			Buckets: []float64{1, 2, 3, 5, 10, 20, 30, 45, 60},
		},
	)

	// genInflight gauges jobs currently holding a worker slot.
	genInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_generation_jobs_inflight",
			Help: "Generation jobs currently submitting or polling.",
		},
	)
)

func init() {
	prometheus.MustRegister(genJobs, genPolls, genInflight)
}
