// Package metrics provides Prometheus metrics for the SkillPulse service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the SkillPulse service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Core pipeline metrics
	forecasts          *prometheus.CounterVec
	forecastLatency    *prometheus.HistogramVec
	emergingRuns       *prometheus.CounterVec
	emergingCandidates prometheus.Gauge
	phrasesExtracted   prometheus.Histogram
	clusteringLatency  prometheus.Histogram
	embeddingRequests  *prometheus.CounterVec

	// Dataset
	datasetRecords *prometheus.GaugeVec

	// Persistence sinks
	sinkWrites      *prometheus.CounterVec
	sinkErrors      *prometheus.CounterVec
	sinkLatency     *prometheus.HistogramVec
	sinkWritesInFly prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// Cluster job queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueue       prometheus.Counter
	queueDequeue       prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker pool
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerIdleCount         prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

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
		namespace:        "skillpulse",
		subsystem:        "api",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

//nolint:funlen // long function required for comprehensive metrics initialization
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.forecasts = auto.NewCounterVec(m.counterOpts("forecasts_total",
		"Total number of forecasts by path (model or fallback)"), []string{"path"})
	m.forecastLatency = auto.NewHistogramVec(m.histogramOpts("forecast_latency_milliseconds",
		"Forecast computation latency in milliseconds", m.histogramBuckets), []string{"path"})
	m.emergingRuns = auto.NewCounterVec(m.counterOpts("emerging_runs_total",
		"Total number of emerging-skill detections by path (clustered or fallback)"), []string{"path"})
	m.emergingCandidates = auto.NewGauge(m.gaugeOpts("emerging_candidates",
		"Number of candidates produced by the last clustered detection"))
	m.phrasesExtracted = auto.NewHistogram(m.histogramOpts("phrases_extracted",
		"Number of candidate phrases extracted per detection",
		[]float64{0, 10, 50, 100, 200, 300, 400, 500}))
	m.clusteringLatency = auto.NewHistogram(m.histogramOpts("clustering_latency_milliseconds",
		"Embedding plus k-means latency in milliseconds", m.histogramBuckets))
	m.embeddingRequests = auto.NewCounterVec(m.counterOpts("embedding_requests_total",
		"Embedding encode calls by provider and outcome"), []string{"provider", "outcome"})

	m.datasetRecords = auto.NewGaugeVec(m.gaugeOpts("dataset_records",
		"Number of job postings in the loaded snapshot by source"), []string{"source"})

	m.sinkWrites = auto.NewCounterVec(m.counterOpts("sink_writes_total",
		"Successful candidate list writes by sink and artifact"), []string{"sink", "artifact"})
	m.sinkErrors = auto.NewCounterVec(m.counterOpts("sink_errors_total",
		"Failed candidate list writes by sink and artifact"), []string{"sink", "artifact"})
	m.sinkLatency = auto.NewHistogramVec(m.histogramOpts("sink_write_latency_milliseconds",
		"Candidate list write latency in milliseconds", m.histogramBuckets), []string{"sink"})
	m.sinkWritesInFly = auto.NewGauge(m.gaugeOpts("sink_writes_in_flight",
		"Background persistence jobs not yet finished"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})
	m.errorsByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"Total number of errors by endpoint"), []string{"endpoint", "method", "error_type"})

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current number of pending cluster jobs"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum cluster job queue capacity"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("queue_utilization_ratio",
		"Queue utilization ratio (current size / capacity)"))
	m.queueEnqueue = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Total number of cluster jobs enqueued"))
	m.queueDequeue = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Total number of cluster jobs dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total",
		"Total number of rejected cluster jobs (backpressure)"))

	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Configured number of cluster workers"))
	m.workerActiveCount = auto.NewGauge(m.gaugeOpts("worker_active_count", "Number of workers running a job"))
	m.workerIdleCount = auto.NewGauge(m.gaugeOpts("worker_idle_count", "Number of idle workers"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts("worker_processing_latency_milliseconds",
		"Worker job latency in milliseconds", m.histogramBuckets))
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total", "Total number of failed cluster jobs"))

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds", []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

func millis(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

// RecordForecast counts a forecast and its latency under path.
func RecordForecast(path string, took time.Duration) {
	globalManager.forecasts.WithLabelValues(path).Inc()
	globalManager.forecastLatency.WithLabelValues(path).Observe(millis(took))
}

// RecordEmergingRun counts an emerging-skill detection under path.
func RecordEmergingRun(path string) {
	globalManager.emergingRuns.WithLabelValues(path).Inc()
}

// UpdateEmergingCandidates sets the candidate count of the last clustered run.
func UpdateEmergingCandidates(n int) {
	globalManager.emergingCandidates.Set(float64(n))
}

// RecordPhrasesExtracted observes the number of phrases fed to clustering.
func RecordPhrasesExtracted(n int) {
	globalManager.phrasesExtracted.Observe(float64(n))
}

// RecordClusteringLatency records embed plus k-means latency.
func RecordClusteringLatency(took time.Duration) {
	globalManager.clusteringLatency.Observe(millis(took))
}

// RecordEmbeddingRequest counts an encode call; outcome is "ok" or "error".
func RecordEmbeddingRequest(provider, outcome string) {
	globalManager.embeddingRequests.WithLabelValues(provider, outcome).Inc()
}

// UpdateDatasetRecords sets the snapshot size for source.
func UpdateDatasetRecords(source string, n int) {
	globalManager.datasetRecords.WithLabelValues(source).Set(float64(n))
}

// RecordSinkWrite records a successful write and its latency.
func RecordSinkWrite(sink, artifact string, took time.Duration) {
	globalManager.sinkWrites.WithLabelValues(sink, artifact).Inc()
	globalManager.sinkLatency.WithLabelValues(sink).Observe(millis(took))
}

// RecordSinkError counts a failed write.
func RecordSinkError(sink, artifact string) {
	globalManager.sinkErrors.WithLabelValues(sink, artifact).Inc()
}

// AddSinkWritesInFlight adjusts the pending persistence job gauge by delta.
func AddSinkWritesInFlight(delta int) {
	globalManager.sinkWritesInFly.Add(float64(delta))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// Queue Metrics Functions.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueue.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeue.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// Worker Metrics Functions.

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of active workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// UpdateWorkerIdleCount sets the number of idle workers.
func UpdateWorkerIdleCount(count int) {
	globalManager.workerIdleCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(took time.Duration) {
	globalManager.workerProcessingLatency.Observe(millis(took))
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
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
