// Package backend is the REST client of the game backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/status-im/market-game/apperrors"
	"github.com/status-im/market-game/logger"
	"github.com/status-im/market-game/metrics"
)

// Endpoints
const (
	EndpointLogin        = "/auth/login"
	EndpointRegister     = "/auth/register"
	EndpointCurrentUser  = "/auth/me"
	EndpointBuy          = "/transactions/buy"
	EndpointSell         = "/transactions/sell"
	EndpointTransactions = "/transactions/history"
	EndpointPortfolio    = "/users/portfolio"
	EndpointLeaderboard  = "/users/leaderboard"
)

// Client talks to the game backend. Authenticated calls carry the bearer
// token from the TokenStore; a 401 deletes it.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	now     func() time.Time
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithClock overrides the clock used for token expiry checks
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a backend client
func NewClient(baseURL string, timeout time.Duration, tokens TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login authenticates with email and password
func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	doc, err := c.do(ctx, http.MethodPost, EndpointLogin, map[string]string{
		"email":    email,
		"password": password,
	}, false)
	if err != nil {
		return AuthResult{}, credentialsError(err)
	}
	return decodeAuth(doc)
}

// Register creates an account and signs it in
func (c *Client) Register(ctx context.Context, username, email, password string) (AuthResult, error) {
	doc, err := c.do(ctx, http.MethodPost, EndpointRegister, map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, false)
	if err != nil {
		return AuthResult{}, err
	}
	return decodeAuth(doc)
}

// CurrentUser returns the signed-in user
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	doc, err := c.do(ctx, http.MethodGet, EndpointCurrentUser, nil, true)
	if err != nil {
		return User{}, err
	}
	return decodeUser(doc)
}

// Buy submits a purchase
func (c *Client) Buy(ctx context.Context, req TradeRequest) error {
	_, err := c.do(ctx, http.MethodPost, EndpointBuy, req, true)
	return err
}

// Sell submits a sale
func (c *Client) Sell(ctx context.Context, req TradeRequest) error {
	_, err := c.do(ctx, http.MethodPost, EndpointSell, req, true)
	return err
}

// Transactions returns the trade history, newest first as served
func (c *Client) Transactions(ctx context.Context) ([]Transaction, error) {
	doc, err := c.do(ctx, http.MethodGet, EndpointTransactions, nil, true)
	if err != nil {
		return nil, err
	}
	list, err := decodeList(doc)
	if err != nil {
		return nil, err
	}

	var raws []rawTransaction
	if err := convert(list, &raws); err != nil {
		return nil, err
	}
	txs := make([]Transaction, 0, len(raws))
	for _, r := range raws {
		tx := Transaction{
			ID:           r.MongoID,
			UserID:       r.UserID,
			CryptoID:     r.CryptoID,
			CryptoName:   r.CryptoName,
			CryptoSymbol: r.CryptoSymbol,
			Type:         r.Type,
			Amount:       r.Amount,
			Price:        r.Price,
			Date:         r.Date,
		}
		if tx.ID == "" {
			tx.ID = r.ID
		}
		if tx.Date == "" && r.Timestamp > 0 {
			tx.Date = time.UnixMilli(r.Timestamp).UTC().Format(time.RFC3339)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// Portfolio returns the server view of the user's holdings
func (c *Client) Portfolio(ctx context.Context) (PortfolioSnapshot, error) {
	doc, err := c.do(ctx, http.MethodGet, EndpointPortfolio, nil, true)
	if err != nil {
		return PortfolioSnapshot{}, err
	}
	var snapshot PortfolioSnapshot
	if err := convert(payload(doc), &snapshot); err != nil {
		return PortfolioSnapshot{}, err
	}
	if snapshot.Portfolio == nil {
		snapshot.Portfolio = []PortfolioItem{}
	}
	return snapshot, nil
}

// Leaderboard returns the raw standings. Values are coerced by the
// leaderboard reconciler, not here.
func (c *Client) Leaderboard(ctx context.Context) ([]map[string]interface{}, error) {
	doc, err := c.do(ctx, http.MethodGet, EndpointLeaderboard, nil, true)
	if err != nil {
		return nil, err
	}
	list, err := decodeList(doc)
	if err != nil {
		return nil, err
	}

	entries := make([]map[string]interface{}, 0, len(list))
	for _, item := range list {
		if entry, ok := item.(map[string]interface{}); ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// do performs a request and returns the decoded JSON document
func (c *Client) do(ctx context.Context, method, endpoint string, body interface{}, authenticated bool) (interface{}, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to encode request")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}

	if authenticated {
		token, err := c.bearer(ctx)
		if err != nil {
			return nil, err
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordBackendRequest(endpoint, "error")
		return nil, apperrors.Wrap(apperrors.KindNetworkFailure, err, "backend unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	metrics.RecordBackendRequest(endpoint, strconv.Itoa(resp.StatusCode))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindNetworkFailure, err, "failed to read backend response")
	}

	if resp.StatusCode == http.StatusUnauthorized && authenticated {
		c.dropToken(ctx)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		appErr := responseError(resp.StatusCode, raw)
		logger.Get().Warnf("Backend: %s %s failed: %v", method, endpoint, appErr)
		return nil, appErr
	}

	var doc interface{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]interface{}{}, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, apperrors.Wrap(apperrors.KindMalformedUpstreamData, err,
			fmt.Sprintf("invalid JSON from %s", endpoint))
	}

	// Some handlers answer 200 with {success: false}
	if success, ok := lookup(doc, "$.success"); ok {
		if b, isBool := success.(bool); isBool && !b {
			return nil, responseError(http.StatusBadRequest, raw)
		}
	}
	return doc, nil
}

// bearer returns the stored token, dropping it when its exp claim has passed
func (c *Client) bearer(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", nil
	}
	token, found, err := c.tokens.Get(ctx, TokenKey)
	if err != nil {
		logger.Get().Warnf("Backend: failed to read token: %v", err)
		return "", nil
	}
	if !found || token == "" {
		return "", nil
	}
	if tokenExpired(token, c.now()) {
		c.dropToken(ctx)
		return "", apperrors.New(apperrors.KindAuthRequired, "session expired")
	}
	return token, nil
}

func (c *Client) dropToken(ctx context.Context) {
	if c.tokens == nil {
		return
	}
	if err := c.tokens.Delete(ctx, TokenKey); err != nil {
		logger.Get().Warnf("Backend: failed to delete token: %v", err)
		return
	}
	logger.Get().Infof("Backend: token removed")
}

// credentialsError reports rejected logins as a validation failure
func credentialsError(err error) error {
	if apperrors.Is(err, apperrors.KindAuthRequired) || apperrors.Is(err, apperrors.KindValidationFailure) {
		if apperrors.ReasonOf(err) == apperrors.ReasonNone {
			return apperrors.Validation(apperrors.ReasonInvalidCredentials, "invalid email or password")
		}
	}
	return err
}
