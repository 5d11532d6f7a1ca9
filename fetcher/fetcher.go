// Package fetcher wraps outbound GET requests with a bounded, fixed linear
// retry policy for rate-limit responses and transient network failures.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/status-im/market-game/apperrors"
	"github.com/status-im/market-game/logger"
)

// DefaultMaxRetries is used when a caller passes maxRetries <= 0
const DefaultMaxRetries = 3

// StatusHandler is notified about request outcomes
type StatusHandler interface {
	// OnRequest handles a request with its status result
	OnRequest(status string)
	// OnRetry handles retry events
	OnRetry()
}

// Options configures retry behavior for HTTP requests
type Options struct {
	MaxRetries        int
	RetryDelay        time.Duration // Waited RetryDelay*attempt before the next attempt
	LogPrefix         string
	ConnectionTimeout time.Duration
	RequestTimeout    time.Duration // Per attempt, including reading the body
	RequestsPerMinute int           // Outbound limit, 0 disables it
}

// DefaultOptions returns default retry options
func DefaultOptions() Options {
	return Options{
		MaxRetries:        DefaultMaxRetries,
		RetryDelay:        2 * time.Second,
		LogPrefix:         "Fetcher",
		ConnectionTimeout: 10 * time.Second,
		RequestTimeout:    10 * time.Second,
	}
}

// SleepFunc waits d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Client is an HTTP client with retry capabilities
type Client struct {
	client        *http.Client
	opts          Options
	statusHandler StatusHandler
	limiter       *rate.Limiter
	sleep         SleepFunc
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithSleep replaces the wait between attempts
func WithSleep(sleep SleepFunc) Option {
	return func(c *Client) { c.sleep = sleep }
}

// New creates a Client. handler may be nil.
func New(opts Options, handler StatusHandler, options ...Option) *Client {
	c := &Client{
		client: &http.Client{
			Timeout: opts.RequestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: opts.ConnectionTimeout,
				}).DialContext,
			},
		},
		opts:          opts,
		statusHandler: handler,
		sleep:         sleepContext,
	}
	if opts.RequestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(float64(opts.RequestsPerMinute)/60.0), 1)
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// FetchWithRetry GETs url and returns the body of the first 2xx response.
// HTTP 429 and transport failures are retried after RetryDelay*attempt; any
// other failure is returned immediately. maxRetries <= 0 uses the configured
// default.
func (c *Client) FetchWithRetry(ctx context.Context, url string, maxRetries int) ([]byte, error) {
	if maxRetries <= 0 {
		maxRetries = c.opts.MaxRetries
	}
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	var lastErr error
	lastKind := apperrors.KindNetworkFailure

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if attempt > 1 {
			c.onRetry()
			delay := c.opts.RetryDelay * time.Duration(attempt-1)
			logger.Get().Infof("%s: retry %d/%d in %s after error: %v",
				c.opts.LogPrefix, attempt, maxRetries, delay, lastErr)
			if err := c.sleep(ctx, delay); err != nil {
				return nil, apperrors.Wrap(apperrors.KindNetworkFailure, err, "request cancelled")
			}
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				c.onRequest("error")
				return nil, apperrors.Wrap(apperrors.KindNetworkFailure, err, "rate limiter wait failed")
			}
		}

		body, status, err := c.do(ctx, url)
		if err == nil {
			c.onRequest("success")
			return body, nil
		}

		switch {
		case status == http.StatusTooManyRequests:
			c.onRequest("rate_limited")
			lastErr, lastKind = err, apperrors.KindRateLimited
		case status == 0 && ctx.Err() == nil:
			c.onRequest("error")
			lastErr, lastKind = err, apperrors.KindNetworkFailure
		case status == 0:
			c.onRequest("error")
			return nil, apperrors.Wrap(apperrors.KindNetworkFailure, err, "request cancelled")
		case status < 0:
			return nil, apperrors.Wrap(apperrors.KindNetworkFailure, err, "invalid request")
		default:
			c.onRequest("error")
			return nil, apperrors.Wrap(apperrors.KindNetworkFailure, err, "request failed").WithStatus(status)
		}
	}

	return nil, apperrors.Wrap(lastKind, lastErr, fmt.Sprintf("all %d attempts failed", maxRetries))
}

// do performs one attempt. status is 0 when no response was received.
func (c *Client) do(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, -1, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "market-game/1.0")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed after %.2fs: %w", time.Since(start).Seconds(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, resp.StatusCode, fmt.Errorf("rate limit exceeded (status %d), retry after %q",
				resp.StatusCode, resp.Header.Get("Retry-After"))
		}
		return nil, resp.StatusCode, fmt.Errorf("API request failed with status %d: %s",
			resp.StatusCode, truncate(body, 200))
	}
	return body, resp.StatusCode, nil
}

func (c *Client) onRequest(status string) {
	if c.statusHandler != nil {
		c.statusHandler.OnRequest(status)
	}
}

func (c *Client) onRetry() {
	if c.statusHandler != nil {
		c.statusHandler.OnRetry()
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
