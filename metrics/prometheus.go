package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/status-im/market-game/logger"
)

var (
	// FetchDurationHistogram tracks the duration of upstream snapshot refreshes
	FetchDurationHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: MetricsPrefix + "fetch_duration_seconds",
			Help: "Time taken to refresh data from the price API",
		},
		[]string{"service", "operation"},
	)

	// ConnectedViewsGauge is the number of open websocket views
	ConnectedViewsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "connected_views",
			Help: "Number of websocket views currently connected",
		},
	)
)

// RecordFetchDuration observes the time elapsed since start for an
// upstream operation
func RecordFetchDuration(service, operation string, start time.Time) {
	elapsed := time.Since(start).Seconds()
	FetchDurationHistogram.WithLabelValues(service, operation).Observe(elapsed)
	logger.Get().Debugf("Metrics: %s/%s refreshed in %.2fs", service, operation, elapsed)
}

// SetConnectedViews publishes the current websocket view count
func SetConnectedViews(n int) {
	ConnectedViewsGauge.Set(float64(n))
}
