package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth outcomes recorded by RecordAuth
const (
	AuthOutcomeAuthenticated   = "authenticated"
	AuthOutcomeUnauthenticated = "unauthenticated"
	AuthOutcomeForbidden       = "forbidden"
	AuthOutcomeUnavailable     = "metadata_unavailable"
	AuthOutcomeConfiguration   = "configuration"
)

var latencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Metrics collects HTTP, authentication and OIDC metadata metrics.
// All methods are safe on a nil receiver, which records nothing.
type Metrics struct {
	registry            *prometheus.Registry
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	authOutcomesTotal   *prometheus.CounterVec
	oidcFetchesTotal    *prometheus.CounterVec
	oidcFetchDuration   *prometheus.HistogramVec
}

// NewMetrics creates collectors on a private registry. serviceName becomes a constant label.
func NewMetrics(serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_requests_total",
				Help:        "Total number of HTTP requests",
				ConstLabels: labels,
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "Histogram of HTTP request latency",
				ConstLabels: labels,
				Buckets:     latencyBuckets,
			},
			[]string{"method", "route"},
		),
		authOutcomesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "auth_outcomes_total",
				Help:        "Bearer token checks by outcome",
				ConstLabels: labels,
			},
			[]string{"outcome"},
		),
		oidcFetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "oidc_metadata_fetches_total",
				Help:        "Outbound discovery and JWKS fetches by result",
				ConstLabels: labels,
			},
			[]string{"document", "result"},
		),
		oidcFetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "oidc_metadata_fetch_duration_seconds",
				Help:        "Latency of outbound discovery and JWKS fetches",
				ConstLabels: labels,
				Buckets:     latencyBuckets,
			},
			[]string{"document"},
		),
	}

	m.registry.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.authOutcomesTotal,
		m.oidcFetchesTotal,
		m.oidcFetchDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// RecordRequest records one served HTTP request
func (m *Metrics) RecordRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAuth records the outcome of a bearer token check
func (m *Metrics) RecordAuth(outcome string) {
	if m == nil {
		return
	}
	m.authOutcomesTotal.WithLabelValues(outcome).Inc()
}

// RecordFetch records an outbound OIDC metadata request
func (m *Metrics) RecordFetch(document string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.oidcFetchesTotal.WithLabelValues(document, result).Inc()
	m.oidcFetchDuration.WithLabelValues(document).Observe(duration.Seconds())
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
