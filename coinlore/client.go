package coinlore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/status-im/market-game/apperrors"
	"github.com/status-im/market-game/logger"
)

// Fetcher performs GET requests with retries
type Fetcher interface {
	FetchWithRetry(ctx context.Context, url string, maxRetries int) ([]byte, error)
}

// Client reads the price API
type Client struct {
	baseURL    string
	fetcher    Fetcher
	maxRetries int
}

// NewClient creates a price API client. maxRetries <= 0 leaves the
// fetcher's default in place.
func NewClient(baseURL string, fetcher Fetcher, maxRetries int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		fetcher:    fetcher,
		maxRetries: maxRetries,
	}
}

// Tickers returns the top limit assets by market cap. Malformed records are
// skipped; a payload without any valid record is MalformedUpstreamData.
func (c *Client) Tickers(ctx context.Context, limit int) ([]Ticker, error) {
	url := NewRequestBuilder(c.baseURL, tickersPath).WithLimit(limit).BuildURL()
	body, err := c.fetcher.FetchWithRetry(ctx, url, c.maxRetries)
	if err != nil {
		return nil, err
	}

	var response tickersResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, apperrors.Wrap(apperrors.KindMalformedUpstreamData, err, "failed to decode tickers")
	}

	tickers := make([]Ticker, 0, len(response.Data))
	for i, raw := range response.Data {
		ticker, err := ParseTicker(raw)
		if err != nil {
			logger.Get().Warnf("CoinLore: skipping ticker %d: %v", i, err)
			continue
		}
		tickers = append(tickers, ticker)
	}
	if len(tickers) == 0 {
		return nil, apperrors.New(apperrors.KindMalformedUpstreamData, "tickers response has no valid records")
	}
	return tickers, nil
}

// Ticker returns a single asset by its numeric id
func (c *Client) Ticker(ctx context.Context, numericID string) (Ticker, error) {
	url := NewRequestBuilder(c.baseURL, tickerPath).WithID(numericID).BuildURL()
	body, err := c.fetcher.FetchWithRetry(ctx, url, c.maxRetries)
	if err != nil {
		return Ticker{}, err
	}

	var records []map[string]interface{}
	if err := json.Unmarshal(body, &records); err != nil {
		return Ticker{}, apperrors.Wrap(apperrors.KindMalformedUpstreamData, err,
			fmt.Sprintf("failed to decode ticker %s", numericID))
	}
	if len(records) == 0 {
		return Ticker{}, apperrors.Newf(apperrors.KindMalformedUpstreamData, "ticker %s not returned", numericID)
	}
	return ParseTicker(records[0])
}
