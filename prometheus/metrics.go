package prometheus

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/suteetoe/tripplanner/pkg/config"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	LoginCounter        prometheus.Counter
	RegisterCounter     prometheus.Counter
	AuthAttemptsCounter prometheus.Counter
	AuthSuccessCounter  prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Entity operation metrics
	TripOperationsCounter      prometheus.CounterVec
	ItineraryOperationsCounter prometheus.CounterVec
	FileOperationsCounter      prometheus.CounterVec

	// Storage metrics
	StorageErrorsCounter prometheus.CounterVec
	UploadedBytesCounter prometheus.Counter

	initOnce sync.Once
)

// InitMetrics initializes Prometheus metrics with configuration.
// Safe to call more than once; only the first call registers.
func InitMetrics(cfg *config.Config) {
	initOnce.Do(func() {
		prefix := cfg.Metrics.Prefix

		// HTTP request metrics
		HttpRequestsTotal = *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		)

		// HTTP request duration
		HttpRequestDuration = *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		)

		// Authentication metrics
		LoginCounter = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_login_attempts_total",
				Help: "Total number of login attempts",
			},
		)

		RegisterCounter = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_registrations_total",
				Help: "Total number of registration attempts",
			},
		)

		AuthAttemptsCounter = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_auth_attempts_total",
				Help: "Total number of authentication attempts",
			},
		)

		AuthSuccessCounter = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_auth_success_total",
				Help: "Total number of successful authentications",
			},
		)

		AuthErrorsCounter = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_auth_errors_total",
				Help: "Total number of authentication errors",
			},
		)

		// Database operation metrics
		DbOperationDuration = *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_db_operation_duration_seconds",
				Help:    "Duration of database operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation_type"},
		)

		// Entity operation metrics
		TripOperationsCounter = *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_trip_operations_total",
				Help: "Total number of trip operations",
			},
			[]string{"operation"},
		)

		ItineraryOperationsCounter = *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_itinerary_operations_total",
				Help: "Total number of itinerary operations",
			},
			[]string{"operation"},
		)

		FileOperationsCounter = *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_file_operations_total",
				Help: "Total number of file operations",
			},
			[]string{"operation"},
		)

		// Storage metrics
		StorageErrorsCounter = *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_storage_errors_total",
				Help: "Total number of file storage errors",
			},
			[]string{"operation"},
		)

		UploadedBytesCounter = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_uploaded_bytes_total",
				Help: "Total bytes of uploaded file content",
			},
		)
	})
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordTripOperation increments the counter for trip operations
func RecordTripOperation(operation string) {
	TripOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordItineraryOperation increments the counter for itinerary operations
func RecordItineraryOperation(operation string) {
	ItineraryOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordFileOperation increments the counter for file operations
func RecordFileOperation(operation string) {
	FileOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordStorageError increments the counter for storage failures
func RecordStorageError(operation string) {
	StorageErrorsCounter.WithLabelValues(operation).Inc()
}

// GetPrometheusHandler returns the HTTP handler for the metrics endpoint
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}
