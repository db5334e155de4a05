package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service counters exposed on /metrics. A dedicated
// registry keeps tests independent and the endpoint free of runtime noise
// beyond the standard Go and process collectors.
type Metrics struct {
	reg *prometheus.Registry

	JobsStarted     prometheus.Counter
	JobsSucceeded   prometheus.Counter
	JobsFailed      prometheus.Counter
	FramesProcessed prometheus.Counter
	FramesDetected  prometheus.Counter
	JobSeconds      prometheus.Histogram
}

// NewMetrics builds the metric set on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		reg: reg,
		JobsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "movetrace_jobs_started_total",
			Help: "Analysis jobs accepted for processing.",
		}),
		JobsSucceeded: factory.NewCounter(prometheus.CounterOpts{
			Name: "movetrace_jobs_succeeded_total",
			Help: "Analysis jobs that produced a verified artifact.",
		}),
		JobsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "movetrace_jobs_failed_total",
			Help: "Analysis jobs that failed after all retry attempts.",
		}),
		FramesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "movetrace_frames_processed_total",
			Help: "Frames written to output across all jobs.",
		}),
		FramesDetected: factory.NewCounter(prometheus.CounterOpts{
			Name: "movetrace_frames_detected_total",
			Help: "Frames with a detected skeleton across all jobs.",
		}),
		JobSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "movetrace_job_duration_seconds",
			Help:    "Wall-clock processing time per job.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
}

// Handler serves the metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
