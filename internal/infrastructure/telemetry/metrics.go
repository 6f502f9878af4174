package telemetry

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fieldline"

// Metrics holds the Prometheus collectors exposed at /metrics
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPInFlight        prometheus.Gauge

	CalendarRequests *prometheus.CounterVec // result: ok, error, rejected
	FeedEntries      *prometheus.HistogramVec
	SMSMessages      *prometheus.CounterVec // result: sent, failed, insufficient_credits
	SMSWebhooks      *prometheus.CounterVec // result: applied, duplicate, ignored, rejected
	EmailsSent       *prometheus.CounterVec // kind, result
	DocumentsRender  *prometheus.HistogramVec
}

// NewMetrics creates a registry with runtime collectors and the service metrics
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),
		HTTPInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being served",
		}),
		CalendarRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calendar_requests_total",
			Help:      "Third-party calendar day fetches by result",
		}, []string{"result"}),
		FeedEntries: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_entries",
			Help:      "Entries returned by the appointment feed per source",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"source"}),
		SMSMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sms_messages_total",
			Help:      "Outbound SMS attempts by result",
		}, []string{"result"}),
		SMSWebhooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sms_webhooks_total",
			Help:      "SMS delivery reports by result",
		}, []string{"result"}),
		EmailsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_total",
			Help:      "Transactional emails by kind and result",
		}, []string{"kind", "result"}),
		DocumentsRender: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_render_seconds",
			Help:      "Time to render a PDF document",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"kind"}),
	}
	reg.MustRegister(
		m.HTTPRequests, m.HTTPRequestDuration, m.HTTPInFlight,
		m.CalendarRequests, m.FeedEntries, m.SMSMessages, m.SMSWebhooks,
		m.EmailsSent, m.DocumentsRender,
	)
	return m
}

// RegisterDB exposes connection pool statistics of db
func (m *Metrics) RegisterDB(db *sql.DB, name string) error {
	return m.registry.Register(collectors.NewDBStatsCollector(db, name))
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Result label helper for counters keyed by success
func Result(err error, ok, failed string) string {
	if err != nil {
		return failed
	}
	return ok
}
