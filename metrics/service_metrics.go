package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/status-im/market-game/logger"
)

// MetricsPrefix is the prefix used for all metrics
const MetricsPrefix = "market_game_"

// Service constants
const (
	ServiceMarket  = "market"
	ServiceDetails = "details"
	ServiceBackend = "backend"
	ServiceAPI     = "api"
)

// Fallback tiers of the market data ladder
const (
	TierFreshCache = "fresh_cache"
	TierNetwork    = "network"
	TierStaleCache = "stale_cache"
	TierBuiltin    = "builtin"
)

var (
	// Upstream price API request counter
	// Cardinality: ~10 (2 services × 5 statuses)
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "upstream_requests_total",
			Help: "Total number of HTTP requests to the price API per service",
		},
		[]string{"service", "status"},
	)

	// Retry attempts counter
	// Cardinality: ~2 (number of upstream services)
	ServiceRetryCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "service_retry_attempts_total",
			Help: "Total number of retry attempts per service",
		},
		[]string{"service"},
	)

	// Cache lookups by data category and result
	// Cardinality: ~6 (2 categories × fresh, stale, miss)
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "cache_lookups_total",
			Help: "Cache lookups by category and freshness",
		},
		[]string{"service", "result"},
	)

	// Tier of the degradation ladder that served a read
	// Cardinality: ~8 (2 services × 4 tiers)
	FallbackTierTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "fallback_tier_total",
			Help: "Market data reads by the tier that served them",
		},
		[]string{"service", "tier"},
	)

	// Backend REST requests
	// Cardinality: ~40 (8 endpoints × 5 status classes)
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "backend_requests_total",
			Help: "Total number of requests to the game backend",
		},
		[]string{"endpoint", "status"},
	)

	// Positions dropped by valuation because the asset is not in the snapshot
	DroppedPositionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "valuation_dropped_positions_total",
			Help: "Positions excluded from valuation for lack of market data",
		},
	)

	// Request latency per endpoint
	// Cardinality: ~10 (services × endpoints)
	RequestLatencyHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: MetricsPrefix + "request_latency_seconds",
			Help: "HTTP request latency by service and endpoint",
		},
		[]string{"service", "endpoint"},
	)
)

// MetricsWriter provides a unified interface for recording service metrics
type MetricsWriter struct {
	serviceName string
}

// NewMetricsWriter creates a new MetricsWriter for the specified service
func NewMetricsWriter(serviceName string) *MetricsWriter {
	return &MetricsWriter{
		serviceName: serviceName,
	}
}

// GetServiceName returns the service name
func (mw *MetricsWriter) GetServiceName() string {
	return mw.serviceName
}

// RecordUpstreamRequest records a price API request outcome
func (mw *MetricsWriter) RecordUpstreamRequest(status string) {
	UpstreamRequestsTotal.WithLabelValues(mw.serviceName, status).Inc()
	logger.Get().Debugf("Metrics: %s upstream request recorded with status %s", mw.serviceName, status)
}

// RecordRetryAttempt records a retry attempt
func (mw *MetricsWriter) RecordRetryAttempt() {
	ServiceRetryCounter.WithLabelValues(mw.serviceName).Inc()
	logger.Get().Debugf("Metrics: %s recorded a retry attempt", mw.serviceName)
}

// RecordCacheLookup records whether a cache read was fresh, stale or a miss
func (mw *MetricsWriter) RecordCacheLookup(result string) {
	CacheLookupsTotal.WithLabelValues(mw.serviceName, result).Inc()
}

// RecordTier records the ladder tier that answered a read
func (mw *MetricsWriter) RecordTier(tier string) {
	FallbackTierTotal.WithLabelValues(mw.serviceName, tier).Inc()
}

// RecordLatency records how long an endpoint took
func (mw *MetricsWriter) RecordLatency(endpoint string, start time.Time) {
	RequestLatencyHistogram.WithLabelValues(mw.serviceName, endpoint).Observe(time.Since(start).Seconds())
}

// OnRequest implements fetcher.StatusHandler
func (mw *MetricsWriter) OnRequest(status string) {
	mw.RecordUpstreamRequest(status)
}

// OnRetry implements fetcher.StatusHandler
func (mw *MetricsWriter) OnRetry() {
	mw.RecordRetryAttempt()
}

// RecordBackendRequest records a backend call outcome
func RecordBackendRequest(endpoint, status string) {
	BackendRequestsTotal.WithLabelValues(endpoint, status).Inc()
}

// RecordDroppedPosition counts a position left out of valuation
func RecordDroppedPosition() {
	DroppedPositionsTotal.Inc()
}
