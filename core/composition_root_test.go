package core

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/status-im/market-game/backend"
	"github.com/status-im/market-game/cache"
	"github.com/status-im/market-game/config"
)

func TestSetup_MemoryDriver(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Driver = cache.DriverMemory

	app, err := Setup(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 4, app.Registry.Len())
	assert.NotNil(t, app.Market)
	assert.NotNil(t, app.Session)
	assert.NotNil(t, app.Leaderboard)
	assert.NotNil(t, app.Trading)
	assert.Nil(t, app.Server)

	server := app.WithServer(context.Background())
	require.NotNil(t, server)
	assert.Equal(t, 5, app.Registry.Len())

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/session", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSetup_SharedSQLiteFile(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Cache.Path = filepath.Join(t.TempDir(), "game.db")

	app, err := Setup(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, app.Secure.Set(ctx, backend.TokenKey, "token"))
	require.NoError(t, app.Cache.Set(ctx, "market_cache", []string{"90"}))
	app.Cache.Stop()

	again, err := Setup(ctx, cfg)
	require.NoError(t, err)
	defer again.Cache.Stop()

	token, found, err := again.Secure.Get(ctx, backend.TokenKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "token", token)

	entry, err := again.Cache.Get(ctx, "market_cache")
	require.NoError(t, err)
	assert.NotNil(t, entry)
}

func TestSetup_SeparateSecureStorePath(t *testing.T) {
	cfg := config.Default()
	dir := t.TempDir()
	cfg.Cache.Path = filepath.Join(dir, "cache.db")
	cfg.SecureStore.Path = filepath.Join(dir, "secure.db")

	app, err := Setup(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, app.Registry.StartAll(context.Background()))
	app.Registry.StopAll()

	assert.FileExists(t, cfg.SecureStore.Path)
}

func TestSetup_EmptyPassphrase(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Driver = cache.DriverMemory
	cfg.SecureStore.Passphrase = ""

	_, err := Setup(context.Background(), cfg)
	assert.Error(t, err)
}
