// Package metrics provides Prometheus metrics for the churn scoring system.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the churn service and jobs.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Scoring metrics
	recordsScored     prometheus.Counter
	scoringErrors     prometheus.Counter
	validationErrors  prometheus.Counter
	scoringLatency    prometheus.Histogram
	churnProbability  prometheus.Histogram

	// Model metrics
	modelLoadedUnix prometheus.Gauge
	trainAUC        prometheus.Gauge

	// Offline job metrics
	jobDuration      *prometheus.HistogramVec
	featureRowsBuilt prometheus.Gauge
	batchRowsScored  prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
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
		namespace:        "churn",
		subsystem:        "scoring",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recordsScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_scored_total",
		Help:      "Total number of records scored successfully",
	})

	m.scoringErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_errors_total",
		Help:      "Total number of internal scoring failures",
	})

	m.validationErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "validation_errors_total",
		Help:      "Total number of records rejected for missing required fields",
	})

	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_latency_milliseconds",
		Help:      "Histogram of per-record scoring latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.churnProbability = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "churn_probability",
		Help:      "Distribution of predicted churn probabilities",
		Buckets:   []float64{0.05, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95},
	})

	m.modelLoadedUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "model_loaded_timestamp_seconds",
		Help:      "Unix timestamp of the last model artifact load",
	})

	m.trainAUC = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "train_auc",
		Help:      "AUC of the most recent training run",
	})

	m.jobDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "job_duration_seconds",
			Help:      "Duration of offline jobs by job name",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		},
		[]string{"job"},
	)

	m.featureRowsBuilt = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feature_rows_built",
		Help:      "Number of feature rows produced by the last builder run",
	})

	m.batchRowsScored = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_rows_scored",
		Help:      "Number of rows scored by the last batch run",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})
}

// RecordRecordScored increments the scored-records counter and observes the
// predicted probability.
func RecordRecordScored(prob float64) {
	globalManager.recordsScored.Inc()
	globalManager.churnProbability.Observe(prob)
}

// RecordScoringError increments the internal scoring errors counter.
func RecordScoringError() {
	globalManager.scoringErrors.Inc()
}

// RecordValidationError increments the per-record validation errors counter.
func RecordValidationError() {
	globalManager.validationErrors.Inc()
}

// RecordScoringLatency records per-record scoring latency in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// RecordModelLoaded sets the model-load timestamp gauge.
func RecordModelLoaded(unixSeconds float64) {
	globalManager.modelLoadedUnix.Set(unixSeconds)
}

// RecordTrainAUC sets the AUC gauge for the latest training run.
func RecordTrainAUC(auc float64) {
	globalManager.trainAUC.Set(auc)
}

// RecordJobDuration observes an offline job duration in seconds.
func RecordJobDuration(job string, seconds float64) {
	globalManager.jobDuration.WithLabelValues(job).Observe(seconds)
}

// UpdateFeatureRowsBuilt sets the feature-row count for the last builder run.
func UpdateFeatureRowsBuilt(count int) {
	globalManager.featureRowsBuilt.Set(float64(count))
}

// UpdateBatchRowsScored sets the row count for the last batch scoring run.
func UpdateBatchRowsScored(count int) {
	globalManager.batchRowsScored.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// UpdateSystemMemoryUsage sets the memory usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
