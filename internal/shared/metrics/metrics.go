package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	processingStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "content_processing_started_total",
		Help: "Total processing runs started",
	})
	processingCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "content_processing_completed_total",
		Help: "Total processing runs completed",
	})
	processingFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "content_processing_failed_total",
		Help: "Total processing runs failed",
	})
	processingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "content_processing_duration_ms",
		Help:    "Processing run duration in milliseconds",
		Buckets: []float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000},
	})
)

// IncProcessingStarted increments the started counter.
func IncProcessingStarted() {
	processingStartedTotal.Inc()
}

// IncProcessingCompleted increments the completed counter.
func IncProcessingCompleted() {
	processingCompletedTotal.Inc()
}

// IncProcessingFailed increments the failed counter.
func IncProcessingFailed() {
	processingFailedTotal.Inc()
}

// ObserveProcessingDurationMs records a processing run duration in milliseconds.
func ObserveProcessingDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	processingDuration.Observe(value)
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
