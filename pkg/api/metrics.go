package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ssargent/coincidence/pkg/language"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API. A nil *Metrics records nothing.
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Analysis metrics
	analysesTotal    *prometheus.CounterVec
	analyzedBytes    prometheus.Histogram
	analyzedLetters  prometheus.Histogram
	degenerateTotal  prometheus.Counter
	historyOpsTotal  *prometheus.CounterVec
	authRequestTotal *prometheus.CounterVec
}

// NewMetrics creates all metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	sizeBuckets := prometheus.ExponentialBuckets(16, 4, 10)

	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ioc_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ioc_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ioc_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		analysesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ioc_analyses_total",
				Help: "Total number of analyzed texts by guessed language",
			},
			[]string{"language"},
		),

		analyzedBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ioc_analyzed_bytes",
				Help:    "Size of analyzed texts in bytes",
				Buckets: sizeBuckets,
			},
		),

		analyzedLetters: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ioc_analyzed_letters",
				Help:    "Number of lowercase letters counted per text",
				Buckets: sizeBuckets,
			},
		),

		degenerateTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ioc_degenerate_analyses_total",
				Help: "Texts with fewer than two letters, whose statistics are NaN",
			},
		),

		historyOpsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ioc_history_operations_total",
				Help: "Total number of history operations",
			},
			[]string{"operation", "status"},
		),

		authRequestTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ioc_auth_requests_total",
				Help: "Total number of authentication checks",
			},
			[]string{"status"},
		),
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordAnalysis records one analyzed text
func (m *Metrics) RecordAnalysis(lang language.Language, bytes, letters uint64) {
	if m == nil {
		return
	}
	m.analysesTotal.WithLabelValues(lang.String()).Inc()
	m.analyzedBytes.Observe(float64(bytes))
	m.analyzedLetters.Observe(float64(letters))
	if letters < 2 {
		m.degenerateTotal.Inc()
	}
}

// RecordHistoryOperation records a history store operation
func (m *Metrics) RecordHistoryOperation(operation string, success bool) {
	if m == nil {
		return
	}
	m.historyOpsTotal.WithLabelValues(operation, status(success)).Inc()
}

// RecordAuthRequest records an authentication check
func (m *Metrics) RecordAuthRequest(success bool) {
	if m == nil {
		return
	}
	m.authRequestTotal.WithLabelValues(status(success)).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	if m == nil {
		return handler
	}
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		// Capture the status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

func status(success bool) string {
	if success {
		return statusSuccess
	}
	return statusError
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
