// Package api is the local view-model server: JSON endpoints and a
// websocket feed rendering the data each screen needs.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/status-im/market-game/backend"
	"github.com/status-im/market-game/config"
	"github.com/status-im/market-game/events"
	"github.com/status-im/market-game/leaderboard"
	"github.com/status-im/market-game/logger"
	"github.com/status-im/market-game/market"
	"github.com/status-im/market-game/metrics"
)

// MarketService is the market data gateway
type MarketService interface {
	FetchTopCryptos(ctx context.Context, limit int) []market.Cryptocurrency
	FetchCryptoDetails(ctx context.Context, cryptoID string) (market.CryptoDetails, error)
	FetchCryptoPriceHistory(ctx context.Context, cryptoID string, days int) []market.PriceHistoryPoint
	ClearCryptoCache(ctx context.Context) error
	Healthy() bool
}

// SessionService is the application session
type SessionService interface {
	CurrentUser() *backend.User
	IsAuthenticated() bool
	IsLoading() bool
	DarkMode() bool
	SetDarkMode(ctx context.Context, enabled bool) error
	Login(ctx context.Context, email, password string) (backend.User, error)
	Register(ctx context.Context, username, email, password string) (backend.User, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) (backend.User, error)
	RefreshPortfolio(ctx context.Context) (backend.User, error)
	SubscribeOnUpdate() events.ISubscription
}

// LeaderboardService loads the reconciled standings
type LeaderboardService interface {
	Load(ctx context.Context, currentUser *backend.User) leaderboard.Board
}

// TradingService validates and submits orders
type TradingService interface {
	Buy(ctx context.Context, req backend.TradeRequest) (backend.User, error)
	Sell(ctx context.Context, req backend.TradeRequest) (backend.User, error)
	History(ctx context.Context) ([]backend.Transaction, error)
}

type Server struct {
	port        string
	game        config.GameConfig
	market      MarketService
	session     SessionService
	leaderboard LeaderboardService
	trading     TradingService

	hub      *Hub
	upgrader websocket.Upgrader
	metrics  *metrics.MetricsWriter
	router   *mux.Router
	server   *http.Server
	ctx      context.Context
	cancel   context.CancelFunc
}

func New(port string, game config.GameConfig, marketService MarketService, sessionService SessionService, leaderboardService LeaderboardService, tradingService TradingService) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		port:        port,
		game:        game,
		market:      marketService,
		session:     sessionService,
		leaderboard: leaderboardService,
		trading:     tradingService,
		hub:         NewHub(),
		upgrader: websocket.Upgrader{
			// The server only listens for local views
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		metrics: metrics.NewMetricsWriter(metrics.ServiceAPI),
		ctx:     ctx,
		cancel:  cancel,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.latencyMiddleware)

	v1 := router.PathPrefix("/api/v1").Subrouter()

	v1.HandleFunc("/market", s.handleMarket).Methods(http.MethodGet)
	v1.HandleFunc("/market/refresh", s.handleMarketRefresh).Methods(http.MethodPost)
	v1.HandleFunc("/market/{id}", s.handleMarketDetails).Methods(http.MethodGet)
	v1.HandleFunc("/market/{id}/history", s.handleMarketHistory).Methods(http.MethodGet)

	v1.HandleFunc("/portfolio", s.handlePortfolio).Methods(http.MethodGet)
	v1.HandleFunc("/leaderboard", s.handleLeaderboard).Methods(http.MethodGet)

	v1.HandleFunc("/transactions", s.handleTransactions).Methods(http.MethodGet)
	v1.HandleFunc("/transactions/{type:buy|sell}", s.handleTrade).Methods(http.MethodPost)

	v1.HandleFunc("/session", s.handleSession).Methods(http.MethodGet)
	v1.HandleFunc("/session/login", s.handleLogin).Methods(http.MethodPost)
	v1.HandleFunc("/session/register", s.handleRegister).Methods(http.MethodPost)
	v1.HandleFunc("/session/logout", s.handleLogout).Methods(http.MethodPost)
	v1.HandleFunc("/session/refresh", s.handleSessionRefresh).Methods(http.MethodPost)
	v1.HandleFunc("/session/theme", s.handleTheme).Methods(http.MethodPut)

	router.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)
	router.HandleFunc("/health", s.handleHealth)
	router.Handle("/metrics", promhttp.Handler())

	return router
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Session changes are pushed to every connected view
	s.session.SubscribeOnUpdate().Watch(s.ctx, func(events.Event) {
		s.hub.Broadcast(Message{Type: MessageSession, Data: s.sessionView()})
	}, false)

	logger.Get().Infof("Server starting at http://localhost:%s", s.port)
	logger.Get().Infof("Prometheus metrics available at /metrics endpoint")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Get().Errorf("Server error: %v", err)
		}
	}()

	return nil
}

// Stop closes the websocket clients and gracefully shuts down the server
func (s *Server) Stop() {
	s.cancel()
	s.hub.CloseAll()
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			logger.Get().Warnf("Error shutting down server: %v", err)
		}
	}
}

func (s *Server) latencyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		endpoint := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				endpoint = tpl
			}
		}
		s.metrics.RecordLatency(endpoint, start)
	})
}
