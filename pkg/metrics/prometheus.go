// Package metrics provides Prometheus metrics for the scout service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the scout service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Engine
	viewsBuilt     *prometheus.CounterVec
	viewLatency    *prometheus.HistogramVec
	mergeMatched   *prometheus.CounterVec
	mergeUnmatched *prometheus.CounterVec
	mergeDuplicate *prometheus.CounterVec
	valuesClamped  *prometheus.CounterVec
	nonNumeric     *prometheus.CounterVec
	unknownMetrics *prometheus.CounterVec

	// Upstream
	sourcesUnavailable *prometheus.CounterVec
	fetchLatency       *prometheus.HistogramVec
	fetchRetries       *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// Tables
	catalogMetrics prometheus.Gauge
	quadrantPairs  prometheus.Gauge

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "scout",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) initializeMetrics() {
	m.viewsBuilt = m.counterVec("views_built_total", "Views built by pair and outcome", "pair", "outcome")
	m.viewLatency = m.histogramVec("view_latency_milliseconds", "Time to build a view in milliseconds", "pair")
	m.mergeMatched = m.counterVec("merge_matched_total", "Primary records matched in a secondary source", "source")
	m.mergeUnmatched = m.counterVec("merge_unmatched_total", "Primary records without a counterpart in a secondary source", "source")
	m.mergeDuplicate = m.counterVec("merge_duplicate_keys_total", "Secondary records ignored because their key was already taken", "source")
	m.valuesClamped = m.counterVec("values_clamped_total", "Raw values held to their domain bounds", "view")
	m.nonNumeric = m.counterVec("values_non_numeric_total", "Fields that held no usable number", "view")
	m.unknownMetrics = m.counterVec("unknown_metrics_total", "Requests naming a metric missing from the catalog", "view")

	m.sourcesUnavailable = m.counterVec("sources_unavailable_total", "Category fetches replaced by an empty record set", "category")
	m.fetchLatency = m.histogramVec("fetch_latency_milliseconds", "Upstream category fetch latency in milliseconds", "category", "outcome")
	m.fetchRetries = m.counterVec("fetch_retries_total", "Upstream fetch attempts retried", "category")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Total number of errors by component", "component", "error_type")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Total number of errors by endpoint", "endpoint", "method", "error_type")

	m.catalogMetrics = m.gauge("catalog_metrics", "Metric definitions loaded in the catalog")
	m.quadrantPairs = m.gauge("quadrant_pairs", "Quadrant metric pairs loaded")

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
	m.systemGCPauseTime = promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_milliseconds",
		Help:        "Average GC pause in milliseconds",
		Buckets:     []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50},
		ConstLabels: m.constLabels,
	})
}

// RecordView records a finished view build.
func RecordView(pair, outcome string, latencyMs float64) {
	globalManager.viewsBuilt.WithLabelValues(pair, outcome).Inc()
	globalManager.viewLatency.WithLabelValues(pair).Observe(latencyMs)
}

// RecordMerge records the outcome of merging one secondary source.
func RecordMerge(source string, matched, unmatched, duplicates int) {
	globalManager.mergeMatched.WithLabelValues(source).Add(float64(matched))
	globalManager.mergeUnmatched.WithLabelValues(source).Add(float64(unmatched))
	globalManager.mergeDuplicate.WithLabelValues(source).Add(float64(duplicates))
}

// RecordNormalization records the recoveries made while normalizing a view.
func RecordNormalization(view string, clamped, nonNumeric int) {
	globalManager.valuesClamped.WithLabelValues(view).Add(float64(clamped))
	globalManager.nonNumeric.WithLabelValues(view).Add(float64(nonNumeric))
}

// RecordUnknownMetric increments the unknown metric counter.
func RecordUnknownMetric(view string) {
	globalManager.unknownMetrics.WithLabelValues(view).Inc()
}

// RecordSourceUnavailable increments the unavailable source counter.
func RecordSourceUnavailable(category string) {
	globalManager.sourcesUnavailable.WithLabelValues(category).Inc()
}

// RecordFetch records one upstream category fetch.
func RecordFetch(category, outcome string, latencyMs float64) {
	globalManager.fetchLatency.WithLabelValues(category, outcome).Observe(latencyMs)
}

// RecordFetchRetry increments the retry counter.
func RecordFetchRetry(category string) {
	globalManager.fetchRetries.WithLabelValues(category).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateTables sets the catalog and pair table sizes.
func UpdateTables(metricCount, pairCount int) {
	globalManager.catalogMetrics.Set(float64(metricCount))
	globalManager.quadrantPairs.Set(float64(pairCount))
}

// UpdateSystemMemoryUsage sets the allocated heap size.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(n int) {
	globalManager.systemGoroutineCount.Set(float64(n))
}

// RecordSystemGCPauseTime observes an average GC pause.
func RecordSystemGCPauseTime(ms float64) {
	globalManager.systemGCPauseTime.Observe(ms)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
