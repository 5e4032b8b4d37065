// Package metrics provides Prometheus metrics for the healthfetch ingestion service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// latencyBuckets covers fast local calls up to the 30s token timeout.
var latencyBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000} //nolint:gochecknoglobals // fixed bucket layout

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Run level
	runsTotal    *prometheus.CounterVec
	datesTotal   *prometheus.CounterVec
	totalRecords prometheus.Gauge

	// Fan-out
	endpointFetches       *prometheus.CounterVec
	endpointFetchLatency  prometheus.Histogram
	fanOutInFlight        prometheus.Gauge
	workerCount           prometheus.Gauge
	workerTaskPanics      prometheus.Counter
	upstreamRequests      *prometheus.CounterVec
	upstreamRetries       *prometheus.CounterVec
	upstreamLatency       *prometheus.HistogramVec
	tokenExchanges        *prometheus.CounterVec
	recordsInserted       prometheus.Counter
	storeQueryLatency     *prometheus.HistogramVec
	storeErrors           *prometheus.CounterVec
	httpRequests          *prometheus.CounterVec
	httpRequestDuration   *prometheus.HistogramVec
	errorRateByType       *prometheus.CounterVec
	errorRateByEndpoint   *prometheus.CounterVec
	systemMemoryUsage     prometheus.Gauge
	systemGoroutineCount  prometheus.Gauge
	systemGCPauseTime     prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "healthfetch",
		subsystem:        "ingest",
		histogramBuckets: latencyBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.runsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_total",
		Help:      "Ingestion runs by terminal outcome (complete or error)",
	}, []string{"outcome"})

	m.datesTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dates_total",
		Help:      "Processed dates by status (success, skipped, failed)",
	}, []string{"status"})

	m.totalRecords = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stored_records",
		Help:      "Number of daily records in the store at the end of the last run",
	})

	m.endpointFetches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "endpoint_fetches_total",
		Help:      "Endpoint fetches by endpoint name and status (success, no_data)",
	}, []string{"endpoint", "status"})

	m.endpointFetchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "endpoint_fetch_latency_milliseconds",
		Help:      "Wall time of a single endpoint fetch including retries and token refresh",
		Buckets:   m.histogramBuckets,
	})

	m.fanOutInFlight = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fanout_in_flight",
		Help:      "Endpoint fetches currently running",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Workers started for the current fan-out",
	})

	m.workerTaskPanics = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_task_panics_total",
		Help:      "Fan-out tasks that panicked and were recovered",
	})

	m.upstreamRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_requests_total",
		Help:      "HTTP attempts against the reporting API by call class and status code",
	}, []string{"class", "code"})

	m.upstreamRetries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_retries_total",
		Help:      "Retried upstream attempts by call class",
	}, []string{"class"})

	m.upstreamLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_request_latency_milliseconds",
		Help:      "Latency of single upstream attempts by call class",
		Buckets:   m.histogramBuckets,
	}, []string{"class"})

	m.tokenExchanges = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "token_exchanges_total",
		Help:      "Credential exchanges by reason (initial, proactive, unauthorized) and result",
	}, []string{"reason", "result"})

	m.recordsInserted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_inserted_total",
		Help:      "Daily records written to the store",
	})

	m.storeQueryLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_query_latency_milliseconds",
		Help:      "Store operation latency by operation",
		Buckets:   m.histogramBuckets,
	}, []string{"operation"})

	m.storeErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_errors_total",
		Help:      "Store operation failures by operation",
	}, []string{"operation"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds (streams included)",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_type_total",
		Help:      "Errors by type and severity",
	}, []string{"error_type", "severity"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_endpoint_total",
		Help:      "HTTP errors by endpoint",
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_usage_bytes",
		Help:      "Current memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutine_count",
		Help:      "Current number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "gc_pause_time_milliseconds",
		Help:      "Average GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100},
	})
}

// RecordRun counts a finished run. outcome is "complete" or "error".
func RecordRun(outcome string) {
	globalManager.runsTotal.WithLabelValues(outcome).Inc()
}

// RecordDate counts a processed date by status.
func RecordDate(status string) {
	globalManager.datesTotal.WithLabelValues(status).Inc()
}

// UpdateTotalRecords sets the stored record count.
func UpdateTotalRecords(count int) {
	globalManager.totalRecords.Set(float64(count))
}

// RecordEndpointFetch counts one endpoint outcome and its latency.
func RecordEndpointFetch(endpoint, status string, latencyMs float64) {
	globalManager.endpointFetches.WithLabelValues(endpoint, status).Inc()
	globalManager.endpointFetchLatency.Observe(latencyMs)
}

// AddFanOutInFlight moves the in-flight gauge by delta.
func AddFanOutInFlight(delta int) {
	globalManager.fanOutInFlight.Add(float64(delta))
}

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerPanic counts a recovered task panic.
func RecordWorkerPanic() {
	globalManager.workerTaskPanics.Inc()
}

// RecordUpstreamRequest records one upstream attempt.
func RecordUpstreamRequest(class, code string, latencyMs float64) {
	globalManager.upstreamRequests.WithLabelValues(class, code).Inc()
	globalManager.upstreamLatency.WithLabelValues(class).Observe(latencyMs)
}

// RecordUpstreamRetry counts a retried upstream attempt.
func RecordUpstreamRetry(class string) {
	globalManager.upstreamRetries.WithLabelValues(class).Inc()
}

// RecordTokenExchange counts a credential exchange.
func RecordTokenExchange(reason, result string) {
	globalManager.tokenExchanges.WithLabelValues(reason, result).Inc()
}

// RecordRecordInserted counts a written daily record.
func RecordRecordInserted() {
	globalManager.recordsInserted.Inc()
}

// RecordStoreQuery records store operation latency.
func RecordStoreQuery(operation string, latencyMs float64) {
	globalManager.storeQueryLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordStoreError counts a failed store operation.
func RecordStoreError(operation string) {
	globalManager.storeErrors.WithLabelValues(operation).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records errors by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records HTTP errors by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
