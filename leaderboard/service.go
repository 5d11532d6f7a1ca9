package leaderboard

//go:generate mockgen -destination=mocks/backend.go . Backend

import (
	"context"
	"sync"
	"time"

	"github.com/status-im/market-game/backend"
	"github.com/status-im/market-game/events"
	"github.com/status-im/market-game/logger"
	"github.com/status-im/market-game/market"
)

// Backend serves the raw server standings
type Backend interface {
	Leaderboard(ctx context.Context) ([]map[string]interface{}, error)
}

// Market provides the snapshot used to value the signed-in user's positions
type Market interface {
	FetchTopCryptos(ctx context.Context, limit int) []market.Cryptocurrency
}

// Service loads and reconciles the leaderboard
type Service struct {
	client      Backend
	market      Market
	marketLimit int
	now         func() time.Time

	subscriptionManager *events.SubscriptionManager

	mu   sync.RWMutex
	last *Board
}

type Option func(*Service)

// WithClock overrides the clock stamping loaded boards
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithSubscriptionManager shares an event bus with other services
func WithSubscriptionManager(m *events.SubscriptionManager) Option {
	return func(s *Service) { s.subscriptionManager = m }
}

// NewService creates a leaderboard service. marketLimit is the snapshot
// size requested from the market gateway.
func NewService(client Backend, m Market, marketLimit int, opts ...Option) *Service {
	if marketLimit <= 0 {
		marketLimit = market.DefaultTopLimit
	}
	s := &Service{
		client:              client,
		market:              m,
		marketLimit:         marketLimit,
		now:                 time.Now,
		subscriptionManager: events.NewSubscriptionManager(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the standings and patches the row of currentUser, which may
// be nil for anonymous viewers. Any backend failure yields the static board
// flagged as degraded; Load itself never fails.
func (s *Service) Load(ctx context.Context, currentUser *backend.User) Board {
	rows, err := s.client.Leaderboard(ctx)
	if err != nil {
		logger.Get().Warnf("Leaderboard: fetch failed, serving built-in standings: %v", err)
		board := Board{Entries: StaticBoard(), Degraded: true, UpdatedAt: s.now()}
		s.store(board)
		return board
	}

	var snapshot []market.Cryptocurrency
	if currentUser != nil && len(currentUser.Portfolio) > 0 {
		snapshot = s.market.FetchTopCryptos(ctx, s.marketLimit)
	}

	board := Board{
		Entries:   Reconcile(rows, currentUser, snapshot),
		UpdatedAt: s.now(),
	}
	logger.Get().Debugf("Leaderboard: loaded %d entries", len(board.Entries))

	s.store(board)
	s.subscriptionManager.Emit(ctx, events.TopicLeaderboard)
	return board
}

// Last returns the most recently loaded board
func (s *Service) Last() (Board, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return Board{}, false
	}
	return *s.last, true
}

// SubscribeOnUpdate notifies after every successful load
func (s *Service) SubscribeOnUpdate() events.ISubscription {
	return s.subscriptionManager.Subscribe(events.TopicLeaderboard)
}

func (s *Service) store(board Board) {
	s.mu.Lock()
	s.last = &board
	s.mu.Unlock()
}
