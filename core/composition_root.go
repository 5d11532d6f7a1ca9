package core

import (
	"context"
	"fmt"

	"github.com/status-im/market-game/api"
	"github.com/status-im/market-game/backend"
	"github.com/status-im/market-game/cache"
	"github.com/status-im/market-game/coinlore"
	"github.com/status-im/market-game/config"
	"github.com/status-im/market-game/events"
	"github.com/status-im/market-game/fetcher"
	"github.com/status-im/market-game/leaderboard"
	"github.com/status-im/market-game/logger"
	"github.com/status-im/market-game/market"
	"github.com/status-im/market-game/metrics"
	"github.com/status-im/market-game/securestore"
	"github.com/status-im/market-game/session"
	"github.com/status-im/market-game/trading"
)

// App holds the wired services. Every service shares one event bus.
type App struct {
	Config      *config.Config
	Registry    *Registry
	Events      *events.SubscriptionManager
	Cache       *cache.Service
	Secure      *securestore.Store
	Market      *market.Service
	Backend     *backend.Client
	Session     *session.AppContext
	Leaderboard *leaderboard.Service
	Trading     *trading.Service
	Server      *api.Server
}

// Setup creates and registers all services except the view-model server
func Setup(ctx context.Context, cfg *config.Config) (*App, error) {
	registry := NewRegistry()
	bus := events.NewSubscriptionManager()

	// Create Cache service
	storage, err := cache.OpenStorage(cfg.Cache)
	if err != nil {
		return nil, err
	}
	cacheService := cache.NewService(storage, cfg.Cache)
	registry.Register("cache", cacheService)

	// Credentials live in their own table, sharing the cache database
	// when both point at the same file
	secureStorage, err := openSecureStorage(cfg, storage)
	if err != nil {
		cacheService.Stop()
		return nil, err
	}
	registry.Register("secure_storage", storageCloser{secureStorage})

	secure, err := securestore.New(ctx, secureStorage, cfg.SecureStore.Passphrase)
	if err != nil {
		_ = secureStorage.Close()
		cacheService.Stop()
		return nil, err
	}

	// Create the price API client
	httpFetcher := fetcher.New(fetcher.Options{
		MaxRetries:        cfg.Upstream.MaxRetries,
		RetryDelay:        cfg.Upstream.RetryDelay,
		LogPrefix:         "Coinlore",
		ConnectionTimeout: cfg.Upstream.RequestTimeout,
		RequestTimeout:    cfg.Upstream.RequestTimeout,
		RequestsPerMinute: cfg.Upstream.RequestsPerMinute,
	}, metrics.NewMetricsWriter(metrics.ServiceMarket))
	upstream := coinlore.NewClient(cfg.Upstream.BaseURL, httpFetcher, cfg.Upstream.MaxRetries)

	// Create Market service with cache dependency
	marketService := market.NewService(upstream, cacheService, market.Config{
		TTL:      cfg.Cache.TTL,
		TopLimit: cfg.Upstream.TopLimit,
	}, market.WithSubscriptionManager(bus))
	registry.Register("market", marketService)

	backendClient := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, secure)

	appContext := session.New(backendClient, secure, marketService,
		session.WithPreferences(cacheService),
		session.WithSubscriptionManager(bus),
	)
	registry.Register("session", appContext)

	leaderboardService := leaderboard.NewService(backendClient, marketService, cfg.Upstream.TopLimit,
		leaderboard.WithSubscriptionManager(bus),
	)
	tradingService := trading.NewService(backendClient, appContext)

	return &App{
		Config:      cfg,
		Registry:    registry,
		Events:      bus,
		Cache:       cacheService,
		Secure:      secure,
		Market:      marketService,
		Backend:     backendClient,
		Session:     appContext,
		Leaderboard: leaderboardService,
		Trading:     tradingService,
	}, nil
}

// WithServer creates the view-model server and registers it last, so it
// starts after the services it renders and stops first
func (a *App) WithServer(ctx context.Context) *api.Server {
	a.Server = api.New(a.Config.API.Port, a.Config.Game, a.Market, a.Session, a.Leaderboard, a.Trading)
	a.Registry.Register("api", a.Server)

	// Fresh prices change the valuation of the current user's row
	a.Market.SubscribeOnUpdate().Watch(ctx, func(events.Event) {
		go refreshLeaderboard(ctx, a.Leaderboard, a.Session)
	}, false)
	return a.Server
}

// refreshLeaderboard reloads the standings once they have been viewed
func refreshLeaderboard(ctx context.Context, board *leaderboard.Service, appContext *session.AppContext) {
	select {
	case <-ctx.Done():
		return
	default:
	}

	if _, loaded := board.Last(); !loaded {
		return
	}
	board.Load(ctx, appContext.CurrentUser())
}

func openSecureStorage(cfg *config.Config, cacheStorage cache.Storage) (cache.Storage, error) {
	if cfg.Cache.Driver == cache.DriverMemory {
		logger.Get().Warnf("Setup: memory cache driver, credentials will not survive a restart")
		return cache.NewGoCache(), nil
	}

	if sqlite, ok := cacheStorage.(*cache.SQLiteStorage); ok && cfg.SecureStorePath() == cfg.Cache.Path {
		return cache.NewSQLiteStorage(sqlite.DB(), securestore.Table)
	}

	storage, err := cache.OpenSQLite(cfg.SecureStorePath(), securestore.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to open secure store: %w", err)
	}
	return storage, nil
}

// storageCloser closes a storage on shutdown
type storageCloser struct {
	storage cache.Storage
}

func (s storageCloser) Start(context.Context) error { return nil }

func (s storageCloser) Stop() {
	if err := s.storage.Close(); err != nil {
		logger.Get().Warnf("Setup: error closing storage: %v", err)
	}
}
