// Package session holds the signed-in user, the bearer token lifecycle and
// the theme flag. An AppContext is built once at startup and handed to the
// view roots; there is no package-level state.
package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/status-im/market-game/apperrors"
	"github.com/status-im/market-game/backend"
	"github.com/status-im/market-game/cache"
	"github.com/status-im/market-game/events"
	"github.com/status-im/market-game/logger"
)

const (
	// UserKey is the secure store key of the last known user snapshot
	UserKey = "user_data"
	// DarkModeKey is the preference key of the theme flag
	DarkModeKey = "darkMode"
)

// Backend is the part of the backend client used by the session
type Backend interface {
	Login(ctx context.Context, email, password string) (backend.AuthResult, error)
	Register(ctx context.Context, username, email, password string) (backend.AuthResult, error)
	CurrentUser(ctx context.Context) (backend.User, error)
	Portfolio(ctx context.Context) (backend.PortfolioSnapshot, error)
}

// MarketCache is cleared on logout
type MarketCache interface {
	ClearCryptoCache(ctx context.Context) error
}

// Preferences keeps non-sensitive settings; cache.Store satisfies it
type Preferences interface {
	Get(ctx context.Context, key string) (*cache.Entry, error)
	Set(ctx context.Context, key string, data interface{}) error
}

// AppContext is the application session. Readers take a snapshot under a
// read lock; writers replace the user record wholesale. No lock is held
// while calling the backend or the stores.
type AppContext struct {
	client  Backend
	secure  backend.TokenStore
	market  MarketCache
	prefs   Preferences
	manager *events.SubscriptionManager

	mu       sync.RWMutex
	user     *backend.User
	loading  bool
	darkMode bool
}

type Option func(*AppContext)

// WithPreferences persists the theme flag
func WithPreferences(p Preferences) Option {
	return func(a *AppContext) { a.prefs = p }
}

// WithSubscriptionManager shares an event bus with other services
func WithSubscriptionManager(m *events.SubscriptionManager) Option {
	return func(a *AppContext) { a.manager = m }
}

// New creates a signed-out session. Call Init on launch.
func New(client Backend, secure backend.TokenStore, market MarketCache, opts ...Option) *AppContext {
	a := &AppContext{
		client:  client,
		secure:  secure,
		market:  market,
		manager: events.NewSubscriptionManager(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init restores the session on launch. With a stored token the user is
// fetched from the backend; when the backend is unreachable the last
// persisted snapshot is used instead. A rejected token signs the user out.
func (a *AppContext) Init(ctx context.Context) error {
	a.setLoading(true)
	defer a.setLoading(false)

	a.loadDarkMode(ctx)

	token, found, err := a.secure.Get(ctx, backend.TokenKey)
	if err != nil {
		return apperrors.Wrap(apperrors.KindInternal, err, "failed to read session token")
	}
	if !found || token == "" {
		logger.Get().Infof("Session: no stored token, starting signed out")
		return nil
	}

	user, err := a.client.CurrentUser(ctx)
	switch {
	case err == nil:
		a.setUser(ctx, &user)
		logger.Get().Infof("Session: restored user %s", user.ID)
		return nil
	case apperrors.Is(err, apperrors.KindAuthRequired):
		logger.Get().Infof("Session: stored token rejected, signing out")
		a.clearUser(ctx)
		return nil
	}

	snapshot, ok := a.readSnapshot(ctx)
	if !ok {
		logger.Get().Warnf("Session: could not restore user: %v", err)
		return err
	}
	logger.Get().Warnf("Session: backend unavailable, using stored user snapshot: %v", err)
	a.mu.Lock()
	a.user = snapshot
	a.mu.Unlock()
	a.emit(ctx)
	return nil
}

// Start implements core.Interface. A session that cannot be restored
// starts signed out.
func (a *AppContext) Start(ctx context.Context) error {
	if err := a.Init(ctx); err != nil {
		logger.Get().Warnf("Session: starting signed out: %v", err)
	}
	return nil
}

// Stop implements core.Interface
func (a *AppContext) Stop() {}

// Login signs in, stores the token and refreshes the user from the backend
func (a *AppContext) Login(ctx context.Context, email, password string) (backend.User, error) {
	a.setLoading(true)
	defer a.setLoading(false)

	result, err := a.client.Login(ctx, email, password)
	if err != nil {
		return backend.User{}, err
	}
	if err := a.secure.Set(ctx, backend.TokenKey, result.Token); err != nil {
		return backend.User{}, apperrors.Wrap(apperrors.KindInternal, err, "failed to store session token")
	}
	a.setUser(ctx, &result.User)
	logger.Get().Infof("Session: signed in as %s", result.User.ID)

	// The login payload may be partial; the refreshed record wins when available
	user, err := a.Refresh(ctx)
	switch {
	case err == nil:
		return user, nil
	case apperrors.Is(err, apperrors.KindAuthRequired):
		return backend.User{}, err
	}
	return result.User, nil
}

// Register creates an account and signs it in
func (a *AppContext) Register(ctx context.Context, username, email, password string) (backend.User, error) {
	a.setLoading(true)
	defer a.setLoading(false)

	result, err := a.client.Register(ctx, username, email, password)
	if err != nil {
		return backend.User{}, err
	}
	if err := a.secure.Set(ctx, backend.TokenKey, result.Token); err != nil {
		return backend.User{}, apperrors.Wrap(apperrors.KindInternal, err, "failed to store session token")
	}
	a.setUser(ctx, &result.User)
	logger.Get().Infof("Session: registered %s", result.User.ID)
	return result.User, nil
}

// Logout deletes the token and the user snapshot and clears the market cache
func (a *AppContext) Logout(ctx context.Context) error {
	a.setLoading(true)
	defer a.setLoading(false)

	if err := a.secure.Delete(ctx, backend.TokenKey); err != nil {
		logger.Get().Warnf("Session: failed to delete token: %v", err)
	}
	a.clearUser(ctx)

	if a.market != nil {
		if err := a.market.ClearCryptoCache(ctx); err != nil {
			logger.Get().Warnf("Session: failed to clear market cache: %v", err)
		}
	}
	logger.Get().Infof("Session: signed out")
	return nil
}

// Refresh replaces the user with the backend's current record. On failure
// the current user is kept, except when the backend rejects the session.
func (a *AppContext) Refresh(ctx context.Context) (backend.User, error) {
	user, err := a.client.CurrentUser(ctx)
	if err != nil {
		if apperrors.Is(err, apperrors.KindAuthRequired) {
			a.clearUser(ctx)
		}
		logger.Get().Warnf("Session: refresh failed: %v", err)
		return backend.User{}, err
	}
	a.setUser(ctx, &user)
	return user, nil
}

// RefreshPortfolio merges the backend's holdings view into the signed-in
// user. Only balance and positions are replaced, plus the ranking fields the
// backend reports. A rejected session signs the user out.
func (a *AppContext) RefreshPortfolio(ctx context.Context) (backend.User, error) {
	current := a.CurrentUser()
	if current == nil {
		return backend.User{}, apperrors.New(apperrors.KindAuthRequired, "not signed in")
	}

	snapshot, err := a.client.Portfolio(ctx)
	if err != nil {
		if apperrors.Is(err, apperrors.KindAuthRequired) {
			a.clearUser(ctx)
		}
		logger.Get().Warnf("Session: portfolio refresh failed: %v", err)
		return backend.User{}, err
	}

	current.Balance = snapshot.Balance
	current.Portfolio = snapshot.Portfolio
	if snapshot.TotalValue != nil {
		current.TotalValue = snapshot.TotalValue
	}
	if snapshot.ProfitPercentage != nil {
		current.ProfitPercentage = snapshot.ProfitPercentage
	}
	if snapshot.Rank != nil {
		current.Rank = snapshot.Rank
	}
	a.setUser(ctx, current)
	return *current, nil
}

// CurrentUser returns a copy of the signed-in user, nil when signed out
func (a *AppContext) CurrentUser() *backend.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.user == nil {
		return nil
	}
	u := *a.user
	u.Portfolio = make([]backend.PortfolioItem, len(a.user.Portfolio))
	copy(u.Portfolio, a.user.Portfolio)
	return &u
}

// IsAuthenticated reports whether a user is signed in
func (a *AppContext) IsAuthenticated() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.user != nil
}

// IsLoading reports whether an auth operation is in flight
func (a *AppContext) IsLoading() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loading
}

// DarkMode returns the theme flag
func (a *AppContext) DarkMode() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.darkMode
}

// SetDarkMode updates and persists the theme flag
func (a *AppContext) SetDarkMode(ctx context.Context, enabled bool) error {
	a.mu.Lock()
	a.darkMode = enabled
	a.mu.Unlock()

	if a.prefs == nil {
		return nil
	}
	if err := a.prefs.Set(ctx, DarkModeKey, enabled); err != nil {
		return apperrors.Wrap(apperrors.KindInternal, err, "failed to save theme")
	}
	return nil
}

// SubscribeOnUpdate notifies on sign in, sign out and user refresh
func (a *AppContext) SubscribeOnUpdate() events.ISubscription {
	return a.manager.Subscribe(events.TopicUser)
}

func (a *AppContext) setLoading(loading bool) {
	a.mu.Lock()
	a.loading = loading
	a.mu.Unlock()
}

func (a *AppContext) setUser(ctx context.Context, user *backend.User) {
	u := *user
	if u.Portfolio == nil {
		u.Portfolio = []backend.PortfolioItem{}
	}

	a.mu.Lock()
	a.user = &u
	a.mu.Unlock()

	if raw, err := json.Marshal(u); err == nil {
		if err := a.secure.Set(ctx, UserKey, string(raw)); err != nil {
			logger.Get().Warnf("Session: failed to persist user snapshot: %v", err)
		}
	}
	a.emit(ctx)
}

func (a *AppContext) clearUser(ctx context.Context) {
	a.mu.Lock()
	a.user = nil
	a.mu.Unlock()

	if err := a.secure.Delete(ctx, UserKey); err != nil {
		logger.Get().Warnf("Session: failed to delete user snapshot: %v", err)
	}
	a.emit(ctx)
}

func (a *AppContext) readSnapshot(ctx context.Context) (*backend.User, bool) {
	raw, found, err := a.secure.Get(ctx, UserKey)
	if err != nil || !found {
		return nil, false
	}
	var user backend.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == "" {
		logger.Get().Warnf("Session: ignoring malformed user snapshot")
		return nil, false
	}
	return &user, true
}

func (a *AppContext) loadDarkMode(ctx context.Context) {
	if a.prefs == nil {
		return
	}
	entry, err := a.prefs.Get(ctx, DarkModeKey)
	if err != nil || entry == nil {
		return
	}
	var enabled bool
	if err := entry.Decode(&enabled); err != nil {
		return
	}
	a.mu.Lock()
	a.darkMode = enabled
	a.mu.Unlock()
}

func (a *AppContext) emit(ctx context.Context) {
	a.manager.Emit(ctx, events.TopicUser)
}
