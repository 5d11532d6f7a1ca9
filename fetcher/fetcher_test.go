package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/status-im/market-game/apperrors"
)

type recordingHandler struct {
	statuses []string
	retries  int
}

func (h *recordingHandler) OnRequest(status string) { h.statuses = append(h.statuses, status) }
func (h *recordingHandler) OnRetry()                { h.retries++ }

type recordedSleep struct {
	delays []time.Duration
}

func (s *recordedSleep) sleep(_ context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return nil
}

func newTestClient(handler StatusHandler, sleeper *recordedSleep) *Client {
	opts := DefaultOptions()
	opts.RetryDelay = 2 * time.Second
	return New(opts, handler, WithSleep(sleeper.sleep))
}

func sequenceServer(t *testing.T, statuses ...int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		status := statuses[len(statuses)-1]
		if int(n) <= len(statuses) {
			status = statuses[n-1]
		}
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write([]byte(`{"data":[]}`))
		}
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func TestFetchWithRetry_RateLimitedThenSuccess(t *testing.T) {
	server, calls := sequenceServer(t, http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusOK)
	handler := &recordingHandler{}
	sleeper := &recordedSleep{}
	client := newTestClient(handler, sleeper)

	body, err := client.FetchWithRetry(context.Background(), server.URL, 3)

	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[]}`, string(body))
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
	// Linear backoff: delay * attempt number
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, sleeper.delays)
	assert.Equal(t, []string{"rate_limited", "rate_limited", "success"}, handler.statuses)
	assert.Equal(t, 2, handler.retries)
}

func TestFetchWithRetry_ExhaustedRateLimit(t *testing.T) {
	server, calls := sequenceServer(t, http.StatusTooManyRequests)
	client := newTestClient(nil, &recordedSleep{})

	_, err := client.FetchWithRetry(context.Background(), server.URL, 3)

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindRateLimited))
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestFetchWithRetry_DefaultRetries(t *testing.T) {
	server, calls := sequenceServer(t, http.StatusTooManyRequests)
	client := newTestClient(nil, &recordedSleep{})

	_, err := client.FetchWithRetry(context.Background(), server.URL, 0)

	require.Error(t, err)
	assert.Equal(t, int32(DefaultMaxRetries), atomic.LoadInt32(calls))
}

func TestFetchWithRetry_NonRetryableStatus(t *testing.T) {
	server, calls := sequenceServer(t, http.StatusNotFound, http.StatusOK)
	sleeper := &recordedSleep{}
	client := newTestClient(nil, sleeper)

	_, err := client.FetchWithRetry(context.Background(), server.URL, 3)

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindNetworkFailure))
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Empty(t, sleeper.delays)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestFetchWithRetry_ServerErrorIsNotRetried(t *testing.T) {
	server, calls := sequenceServer(t, http.StatusInternalServerError, http.StatusOK)
	client := newTestClient(nil, &recordedSleep{})

	_, err := client.FetchWithRetry(context.Background(), server.URL, 3)

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestFetchWithRetry_NetworkFailure(t *testing.T) {
	server, _ := sequenceServer(t, http.StatusOK)
	url := server.URL
	server.Close()

	sleeper := &recordedSleep{}
	client := newTestClient(nil, sleeper)

	_, err := client.FetchWithRetry(context.Background(), url, 2)

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindNetworkFailure))
	assert.Len(t, sleeper.delays, 1)
}

func TestFetchWithRetry_CancelledDuringBackoff(t *testing.T) {
	server, calls := sequenceServer(t, http.StatusTooManyRequests)
	ctx, cancel := context.WithCancel(context.Background())
	client := New(DefaultOptions(), nil, WithSleep(func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}))

	_, err := client.FetchWithRetry(ctx, server.URL, 3)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestFetchWithRetry_RateLimiter(t *testing.T) {
	server, calls := sequenceServer(t, http.StatusOK)
	opts := DefaultOptions()
	opts.RequestsPerMinute = 6000 // one token every 10ms
	client := New(opts, nil)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.FetchWithRetry(context.Background(), server.URL, 1)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}
