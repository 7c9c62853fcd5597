// Package metrics holds the Prometheus collectors for coursehub.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Contact submission outcomes used as the "outcome" label.
const (
	OutcomeSent        = "sent"
	OutcomeRejected    = "rejected"
	OutcomeTransport   = "transport_error"
	OutcomeInvalid     = "invalid"
	OutcomeRateLimited = "rate_limited"
)

// Metrics is a set of collectors registered on one registry.
type Metrics struct {
	Registry *prometheus.Registry

	ContactSubmissions *prometheus.CounterVec
	ContactDuration    prometheus.Histogram
	Enrollments        *prometheus.CounterVec
	LiveSessions       prometheus.Gauge
	LiveEvents         *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry with the Go and process
// collectors attached.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		ContactSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coursehub",
			Subsystem: "contact",
			Name:      "submissions_total",
			Help:      "Contact form submissions by outcome.",
		}, []string{"outcome"}),
		ContactDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "coursehub",
			Subsystem: "contact",
			Name:      "relay_duration_seconds",
			Help:      "Time spent relaying a contact message to the remote endpoint.",
			Buckets:   prometheus.DefBuckets,
		}),
		Enrollments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coursehub",
			Name:      "enrollments_total",
			Help:      "Confirmed enrollments by course category.",
		}, []string{"category"}),
		LiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "coursehub",
			Subsystem: "live",
			Name:      "sessions",
			Help:      "Open live websocket sessions.",
		}),
		LiveEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coursehub",
			Subsystem: "live",
			Name:      "events_total",
			Help:      "Live session events received, by type.",
		}, []string{"type"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coursehub",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "coursehub",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ContactSubmissions,
		m.ContactDuration,
		m.Enrollments,
		m.LiveSessions,
		m.LiveEvents,
		m.HTTPRequests,
		m.HTTPDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// ObserveContact counts one contact submission outcome.
func (m *Metrics) ObserveContact(outcome string) {
	if m == nil {
		return
	}
	m.ContactSubmissions.WithLabelValues(outcome).Inc()
}

// ObserveRelay records how long a relay call took.
func (m *Metrics) ObserveRelay(d time.Duration) {
	if m == nil {
		return
	}
	m.ContactDuration.Observe(d.Seconds())
}

// ObserveEnrollment counts one confirmed enrollment.
func (m *Metrics) ObserveEnrollment(category string) {
	if m == nil {
		return
	}
	m.Enrollments.WithLabelValues(category).Inc()
}

// SessionOpened and SessionClosed track the live session gauge.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.LiveSessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.LiveSessions.Dec()
}

// ObserveEvent counts one live session event.
func (m *Metrics) ObserveEvent(typ string) {
	if m == nil {
		return
	}
	m.LiveEvents.WithLabelValues(typ).Inc()
}

// Middleware records request counts and latency keyed by the chi route
// pattern, so path parameters do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
