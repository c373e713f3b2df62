package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "share_preview"

// Metrics groups the collectors of the service. A nil *Metrics records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	httpInFlight  prometheus.Gauge
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	itemFailures  *prometheus.CounterVec
	trackedEvents *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"method", "path"}),
		itemFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "preview",
			Name:      "item_failures_total",
			Help:      "Per-id lookups of a bulk request that failed and were replaced by an empty result.",
		}, []string{"operation"}),
		trackedEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "track",
			Name:      "events_total",
			Help:      "Tracking events forwarded to the analytics sink.",
		}, []string{"kind", "new_visitor"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.itemFailures,
		m.trackedEvents,
	)

	return m
}

func (m *Metrics) IncInFlight() {
	if m != nil {
		m.httpInFlight.Inc()
	}
}

func (m *Metrics) DecInFlight() {
	if m != nil {
		m.httpInFlight.Dec()
	}
}

func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, status).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) ItemFailed(operation string) {
	if m != nil {
		m.itemFailures.WithLabelValues(operation).Inc()
	}
}

func (m *Metrics) EventTracked(kind string, newVisitor bool) {
	if m == nil {
		return
	}
	label := "false"
	if newVisitor {
		label = "true"
	}
	m.trackedEvents.WithLabelValues(kind, label).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
