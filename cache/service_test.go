package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newMemoryService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	config := DefaultCacheConfig()
	config.Driver = DriverMemory
	return NewService(NewGoCache(), config, opts...)
}

func TestService_SetGet(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
	service := newMemoryService(t, WithClock(clock.Now))

	require.NoError(t, service.Set(ctx, "cache_top_cryptos", []string{"bitcoin", "ethereum"}))

	entry, err := service.Get(ctx, "cache_top_cryptos")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, int64(1_700_000_000_000), entry.Timestamp)

	var ids []string
	require.NoError(t, entry.Decode(&ids))
	assert.Equal(t, []string{"bitcoin", "ethereum"}, ids)
}

func TestService_GetMissing(t *testing.T) {
	service := newMemoryService(t)

	entry, err := service.Get(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, entry)
}

func TestService_GetMalformed(t *testing.T) {
	ctx := context.Background()
	storage := NewGoCache()
	service := NewService(storage, DefaultCacheConfig())

	cases := map[string][]byte{
		"not_json":     []byte("{broken"),
		"no_timestamp": []byte(`{"data":[1,2,3]}`),
		"no_data":      []byte(`{"timestamp":1700000000000}`),
	}
	for key, raw := range cases {
		require.NoError(t, storage.Write(ctx, key, raw))
	}

	for key := range cases {
		t.Run(key, func(t *testing.T) {
			entry, err := service.Get(ctx, key)
			assert.NoError(t, err)
			assert.Nil(t, entry)
		})
	}
}

func TestService_TTLBoundary(t *testing.T) {
	ctx := context.Background()
	written := time.UnixMilli(1_700_000_000_000)
	clock := &fakeClock{now: written}
	service := newMemoryService(t, WithClock(clock.Now))
	ttl := 300_000 * time.Millisecond

	require.NoError(t, service.Set(ctx, "cache_top_cryptos", "snapshot"))
	entry, err := service.Get(ctx, "cache_top_cryptos")
	require.NoError(t, err)

	assert.True(t, entry.IsFresh(ttl, written.Add(299_999*time.Millisecond)))
	assert.False(t, entry.IsFresh(ttl, written.Add(300_000*time.Millisecond)))
	assert.False(t, entry.IsFresh(ttl, written.Add(300_001*time.Millisecond)))
}

func TestEntry_IsFreshNil(t *testing.T) {
	var entry *Entry
	assert.False(t, entry.IsFresh(time.Hour, time.Now()))
}

func TestService_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.UnixMilli(1_000)}
	service := newMemoryService(t, WithClock(clock.Now))

	require.NoError(t, service.Set(ctx, "key", "first"))
	clock.now = time.UnixMilli(2_000)
	require.NoError(t, service.Set(ctx, "key", "second"))

	entry, err := service.Get(ctx, "key")
	require.NoError(t, err)
	var value string
	require.NoError(t, entry.Decode(&value))
	assert.Equal(t, "second", value)
	assert.Equal(t, int64(2_000), entry.Timestamp)
}

func TestService_Invalidate(t *testing.T) {
	ctx := context.Background()
	service := newMemoryService(t)

	require.NoError(t, service.Set(ctx, "cache_top_cryptos", 1))
	require.NoError(t, service.Set(ctx, "cache_crypto_details_bitcoin", 2))
	require.NoError(t, service.Set(ctx, "cache_crypto_details_ethereum", 3))
	require.NoError(t, service.Set(ctx, "session_theme", 4))

	require.NoError(t, service.Invalidate(ctx, "cache_top_cryptos"))
	entry, _ := service.Get(ctx, "cache_top_cryptos")
	assert.Nil(t, entry)

	require.NoError(t, service.InvalidatePrefix(ctx, "cache_crypto_details_"))
	entry, _ = service.Get(ctx, "cache_crypto_details_bitcoin")
	assert.Nil(t, entry)
	entry, _ = service.Get(ctx, "cache_crypto_details_ethereum")
	assert.Nil(t, entry)

	entry, _ = service.Get(ctx, "session_theme")
	assert.NotNil(t, entry)
	assert.Equal(t, 1, service.Stats(ctx).Items)
}

func TestService_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	config := DefaultCacheConfig()
	config.Path = filepath.Join(t.TempDir(), "cache.db")

	storage, err := OpenStorage(config)
	require.NoError(t, err)
	service := NewService(storage, config)
	require.NoError(t, service.Start(ctx))

	require.NoError(t, service.Set(ctx, "cache_crypto_details_bitcoin", map[string]float64{"price": 50000}))
	require.NoError(t, service.Set(ctx, "cache_crypto_details_x_y", 1))
	service.Stop()

	// Reopen: entries survive the process
	storage, err = OpenStorage(config)
	require.NoError(t, err)
	service = NewService(storage, config)
	defer service.Stop()

	entry, err := service.Get(ctx, "cache_crypto_details_bitcoin")
	require.NoError(t, err)
	require.NotNil(t, entry)
	var details map[string]float64
	require.NoError(t, entry.Decode(&details))
	assert.Equal(t, 50000.0, details["price"])

	require.NoError(t, service.InvalidatePrefix(ctx, "cache_crypto_details_"))
	assert.Equal(t, 0, service.Stats(ctx).Items)
}

func TestService_StartWithoutStorage(t *testing.T) {
	service := NewService(nil, DefaultCacheConfig())
	assert.Error(t, service.Start(context.Background()))
}
