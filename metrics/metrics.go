package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	rsvps        *prometheus.CounterVec
	moderation   *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "volunteer_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})
	m.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "volunteer_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	m.rsvps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "volunteer_rsvps_total",
		Help: "RSVP attempts by outcome.",
	}, []string{"outcome"})
	m.moderation = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "volunteer_moderation_decisions_total",
		Help: "Moderation decisions by resulting status.",
	}, []string{"decision"})

	m.registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.rsvps,
		m.moderation,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RSVP records an RSVP outcome such as "created", "updated" or "full".
func (m *Metrics) RSVP(outcome string) {
	if m == nil {
		return
	}
	m.rsvps.WithLabelValues(outcome).Inc()
}

// Moderation records a moderation decision.
func (m *Metrics) Moderation(decision string) {
	if m == nil {
		return
	}
	m.moderation.WithLabelValues(decision).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
