// Package metrics holds the Prometheus collectors for scheduling runs and
// the HTTP API. Collectors live on their own registry so tests and
// multiple instances do not collide on the global one.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "shopfloor"

// Metrics holds all shopfloor metrics.
type Metrics struct {
	registry *prometheus.Registry

	ScheduleRuns     *prometheus.CounterVec
	ScheduleDuration prometheus.Histogram
	Blocks           *prometheus.CounterVec
	SkippedRequests  *prometheus.CounterVec
	LastHorizon      prometheus.Gauge

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates a Metrics instance on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{registry: registry}

	m.ScheduleRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_runs_total",
			Help:      "Total number of schedule builds",
		},
		[]string{"committed"},
	)

	m.ScheduleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "schedule_duration_seconds",
			Help:      "Time spent building a schedule",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)

	m.Blocks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_total",
			Help:      "Scheduled blocks produced, by kind",
		},
		[]string{"kind"},
	)

	m.SkippedRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_requests_total",
			Help:      "Production requests left out of a schedule, by reason",
		},
		[]string{"reason"},
	)

	m.LastHorizon = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "schedule_horizon_timestamp_seconds",
			Help:      "End of the last block of the most recent schedule, as a Unix timestamp",
		},
	)

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(
		m.ScheduleRuns,
		m.ScheduleDuration,
		m.Blocks,
		m.SkippedRequests,
		m.LastHorizon,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// ScheduleRun is what one schedule build reports.
type ScheduleRun struct {
	Committed bool
	Duration  time.Duration
	Tasks     int
	Setups    int
	Skipped   map[string]int
	Horizon   *time.Time
}

// RecordSchedule records one schedule build. A nil receiver is a no-op.
func (m *Metrics) RecordSchedule(run ScheduleRun) {
	if m == nil {
		return
	}
	m.ScheduleRuns.WithLabelValues(strconv.FormatBool(run.Committed)).Inc()
	m.ScheduleDuration.Observe(run.Duration.Seconds())
	m.Blocks.WithLabelValues("task").Add(float64(run.Tasks))
	m.Blocks.WithLabelValues("setup").Add(float64(run.Setups))
	for reason, n := range run.Skipped {
		m.SkippedRequests.WithLabelValues(reason).Add(float64(n))
	}
	if run.Horizon != nil {
		m.LastHorizon.Set(float64(run.Horizon.Unix()))
	}
}

// RecordHTTPRequest records an HTTP request. A nil receiver is a no-op.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Push sends the current values to a Pushgateway. CLI runs exit before
// anything could scrape them.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("pushing metrics to %s: %w", url, err)
	}
	return nil
}
