package market

//go:generate mockgen -destination=mocks/upstream.go . Upstream

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/status-im/market-game/apperrors"
	"github.com/status-im/market-game/cache"
	"github.com/status-im/market-game/coinlore"
	"github.com/status-im/market-game/events"
	"github.com/status-im/market-game/logger"
	"github.com/status-im/market-game/metrics"
)

const (
	// CacheKeyTopCryptos holds the market snapshot
	CacheKeyTopCryptos = "cache_top_cryptos"
	// CacheKeyDetailsPrefix + asset id holds one detail record
	CacheKeyDetailsPrefix = "cache_crypto_details_"

	// DefaultTopLimit is used when neither the caller nor the config sets one
	DefaultTopLimit = 100
)

// Upstream is the price API
type Upstream interface {
	Tickers(ctx context.Context, limit int) ([]coinlore.Ticker, error)
	Ticker(ctx context.Context, numericID string) (coinlore.Ticker, error)
}

// Config configures the gateway
type Config struct {
	TTL      cache.TTLConfig
	TopLimit int // assets fetched for the snapshot
}

// Service is the market data gateway. Reads walk the ladder fresh cache,
// network, stale cache and, for the snapshot only, the built-in list.
type Service struct {
	upstream Upstream
	cache    cache.Store
	config   Config
	now      func() time.Time

	subscriptionManager *events.SubscriptionManager
	marketMetrics       *metrics.MetricsWriter
	detailsMetrics      *metrics.MetricsWriter

	healthy atomic.Bool
}

type Option func(*Service)

// WithClock overrides the clock used for freshness checks
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithSubscriptionManager shares an event bus with other services
func WithSubscriptionManager(m *events.SubscriptionManager) Option {
	return func(s *Service) { s.subscriptionManager = m }
}

// NewService creates a new market data gateway
func NewService(upstream Upstream, store cache.Store, config Config, opts ...Option) *Service {
	if config.TopLimit <= 0 {
		config.TopLimit = DefaultTopLimit
	}
	s := &Service{
		upstream:            upstream,
		cache:               store,
		config:              config,
		now:                 time.Now,
		subscriptionManager: events.NewSubscriptionManager(),
		marketMetrics:       metrics.NewMetricsWriter(metrics.ServiceMarket),
		detailsMetrics:      metrics.NewMetricsWriter(metrics.ServiceDetails),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start implements core.Interface
func (s *Service) Start(ctx context.Context) error {
	if s.upstream == nil || s.cache == nil {
		return fmt.Errorf("market service not properly initialized")
	}
	return nil
}

// Stop implements core.Interface
func (s *Service) Stop() {}

// Healthy reports whether the price API has answered at least once
func (s *Service) Healthy() bool {
	return s.healthy.Load()
}

// SubscribeOnUpdate notifies after every successful network refresh of the
// snapshot
func (s *Service) SubscribeOnUpdate() events.ISubscription {
	return s.subscriptionManager.Subscribe(events.TopicMarket)
}

// FetchTopCryptos returns at most limit assets. It never fails: when the
// network and every cached snapshot are unavailable the built-in list is
// returned.
func (s *Service) FetchTopCryptos(ctx context.Context, limit int) []Cryptocurrency {
	if limit <= 0 {
		limit = s.config.TopLimit
	}

	cached := s.readSnapshot(ctx)
	if cached != nil && cached.fresh {
		s.marketMetrics.RecordTier(metrics.TierFreshCache)
		logger.Get().Debugf("Market: using cached top cryptos")
		return truncate(cached.list, limit)
	}

	fetchLimit := limit
	if s.config.TopLimit > fetchLimit {
		fetchLimit = s.config.TopLimit
	}

	start := time.Now()
	list, err := s.fetchSnapshot(ctx, fetchLimit)
	metrics.RecordFetchDuration(metrics.ServiceMarket, "tickers", start)
	if err == nil {
		s.marketMetrics.RecordTier(metrics.TierNetwork)
		return truncate(list, limit)
	}
	logger.Get().Warnf("Market: failed to fetch top cryptos: %v", err)

	if cached != nil {
		s.marketMetrics.RecordTier(metrics.TierStaleCache)
		logger.Get().Warnf("Market: using stale cache for top cryptos")
		return truncate(cached.list, limit)
	}

	s.marketMetrics.RecordTier(metrics.TierBuiltin)
	logger.Get().Warnf("Market: using built-in top cryptos")
	return truncate(BuiltinTopCryptos(), limit)
}

// FetchCryptoDetails returns one asset. Unknown ids fail with UnknownAsset;
// a network failure without any cached record fails with the network error.
func (s *Service) FetchCryptoDetails(ctx context.Context, cryptoID string) (CryptoDetails, error) {
	numericID, ok := coinlore.NumericID(cryptoID)
	if !ok {
		return CryptoDetails{}, apperrors.Newf(apperrors.KindUnknownAsset, "unknown asset %q", cryptoID)
	}
	id, _ := coinlore.InternalID(numericID)
	key := CacheKeyDetailsPrefix + id

	var cached *CryptoDetails
	entry, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Get().Warnf("Market: cache read failed for %s: %v", key, err)
	}
	if entry != nil {
		var details CryptoDetails
		if err := entry.Decode(&details); err == nil && details.ID != "" {
			cached = &details
			if entry.IsFresh(s.config.TTL.Details, s.now()) {
				s.detailsMetrics.RecordCacheLookup("fresh")
				s.detailsMetrics.RecordTier(metrics.TierFreshCache)
				return details, nil
			}
			s.detailsMetrics.RecordCacheLookup("stale")
		}
	} else {
		s.detailsMetrics.RecordCacheLookup("miss")
	}

	ticker, err := s.upstream.Ticker(ctx, numericID)
	if err == nil {
		s.healthy.Store(true)
		details := detailsFromTicker(ticker)
		details.ID = id
		if err := s.cache.Set(ctx, key, details); err != nil {
			logger.Get().Warnf("Market: failed to cache %s: %v", key, err)
		}
		s.detailsMetrics.RecordTier(metrics.TierNetwork)
		return details, nil
	}
	logger.Get().Warnf("Market: failed to fetch details for %s: %v", id, err)

	if cached != nil {
		s.detailsMetrics.RecordTier(metrics.TierStaleCache)
		logger.Get().Warnf("Market: using stale cache for %s", id)
		return *cached, nil
	}
	return CryptoDetails{}, err
}

// FetchCryptoPriceHistory returns a SYNTHESIZED hourly series for the last
// days days. It never fails: any error yields an empty series.
func (s *Service) FetchCryptoPriceHistory(ctx context.Context, cryptoID string, days int) []PriceHistoryPoint {
	if days <= 0 {
		return []PriceHistoryPoint{}
	}
	details, err := s.FetchCryptoDetails(ctx, cryptoID)
	if err != nil {
		logger.Get().Warnf("Market: no history for %s: %v", cryptoID, err)
		return []PriceHistoryPoint{}
	}
	return SynthesizeHistory(details.CurrentPrice, details.PriceChangePercentage24h, details.ID, days, s.now())
}

// ClearCryptoCache drops the snapshot and every detail record so the next
// read goes to the network
func (s *Service) ClearCryptoCache(ctx context.Context) error {
	if err := s.cache.Invalidate(ctx, CacheKeyTopCryptos); err != nil {
		return fmt.Errorf("failed to clear market snapshot: %w", err)
	}
	if err := s.cache.InvalidatePrefix(ctx, CacheKeyDetailsPrefix); err != nil {
		return fmt.Errorf("failed to clear asset details: %w", err)
	}
	logger.Get().Infof("Market: cache cleared")
	return nil
}

type cachedSnapshot struct {
	list  []Cryptocurrency
	fresh bool
}

// readSnapshot returns the cached snapshot or nil when it is missing,
// empty or undecodable
func (s *Service) readSnapshot(ctx context.Context) *cachedSnapshot {
	entry, err := s.cache.Get(ctx, CacheKeyTopCryptos)
	if err != nil {
		logger.Get().Warnf("Market: cache read failed: %v", err)
	}
	if entry == nil {
		s.marketMetrics.RecordCacheLookup("miss")
		return nil
	}

	var list []Cryptocurrency
	if err := entry.Decode(&list); err != nil || len(list) == 0 {
		s.marketMetrics.RecordCacheLookup("miss")
		return nil
	}

	fresh := entry.IsFresh(s.config.TTL.Market, s.now())
	if fresh {
		s.marketMetrics.RecordCacheLookup("fresh")
	} else {
		s.marketMetrics.RecordCacheLookup("stale")
	}
	return &cachedSnapshot{list: list, fresh: fresh}
}

func (s *Service) fetchSnapshot(ctx context.Context, limit int) ([]Cryptocurrency, error) {
	tickers, err := s.upstream.Tickers(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(tickers) == 0 {
		return nil, apperrors.New(apperrors.KindMalformedUpstreamData, "empty tickers response")
	}

	list := make([]Cryptocurrency, 0, len(tickers))
	for _, ticker := range tickers {
		list = append(list, fromTicker(ticker))
	}
	s.healthy.Store(true)

	if err := s.cache.Set(ctx, CacheKeyTopCryptos, list); err != nil {
		logger.Get().Warnf("Market: failed to cache top cryptos: %v", err)
	}
	s.subscriptionManager.Emit(ctx, events.TopicMarket)
	return list, nil
}
