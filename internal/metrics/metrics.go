// Package metrics exposes the application's prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry, so building it twice (tests) never
// panics on duplicate registration. A nil *Metrics records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	bulkRecords     *prometheus.CounterVec
	bulkRejected    *prometheus.CounterVec
	exports         *prometheus.CounterVec
	exportDuration  *prometheus.HistogramVec
	externalErrors  *prometheus.CounterVec
	remindersSent   prometheus.Counter
	httpRequests    *prometheus.CounterVec
	sessionsExpired prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		bulkRecords: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plushify_bulk_records_total",
				Help: "Records processed by bulk actions, by outcome.",
			},
			[]string{"entity", "action", "outcome"},
		),
		bulkRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plushify_bulk_rejected_total",
				Help: "Bulk batches rejected before any write, by rule.",
			},
			[]string{"entity", "action", "rule"},
		),
		exports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plushify_exports_total",
				Help: "Generated export files.",
			},
			[]string{"entity", "format"},
		),
		exportDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "plushify_export_duration_seconds",
				Help:    "Time spent encoding export files.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plushify_external_errors_total",
				Help: "Errors returned by external services.",
			},
			[]string{"service"},
		),
		remindersSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "plushify_reminders_sent_total",
			Help: "Appointment reminders delivered.",
		}),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plushify_http_requests_total",
				Help: "HTTP requests by route and status class.",
			},
			[]string{"method", "route", "status"},
		),
		sessionsExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "plushify_sessions_expired_total",
			Help: "Sessions signed out for inactivity.",
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

func (m *Metrics) BulkProcessed(entity, action string, succeeded, failed int) {
	if m == nil {
		return
	}
	m.bulkRecords.WithLabelValues(entity, action, "success").Add(float64(succeeded))
	m.bulkRecords.WithLabelValues(entity, action, "failure").Add(float64(failed))
}

func (m *Metrics) BulkRejected(entity, action, rule string) {
	if m == nil {
		return
	}
	m.bulkRejected.WithLabelValues(entity, action, rule).Inc()
}

func (m *Metrics) ExportGenerated(entity, format string, took time.Duration) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(entity, format).Inc()
	m.exportDuration.WithLabelValues(format).Observe(took.Seconds())
}

func (m *Metrics) ExternalError(service string) {
	if m == nil {
		return
	}
	m.externalErrors.WithLabelValues(service).Inc()
}

func (m *Metrics) ReminderSent() {
	if m == nil {
		return
	}
	m.remindersSent.Inc()
}

func (m *Metrics) SessionExpired() {
	if m == nil {
		return
	}
	m.sessionsExpired.Inc()
}

func (m *Metrics) HTTPRequest(method, route string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, statusClass(status)).Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
