package e2etest

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/status-im/market-game/core"
)

// TestEnv represents a test environment
type TestEnv struct {
	App           *core.App
	MockServer    *MockServer
	Context       context.Context
	CancelFunc    context.CancelFunc
	ConfigPath    string
	ServerBaseURL string
}

// SetupTest starts the whole application against the mock server
func SetupTest(t *testing.T) *TestEnv {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	mockServer := NewMockServer()

	cfg, configPath, err := loadTestConfig(mockServer.GetURL())
	if err != nil {
		mockServer.Close()
		cancel()
		t.Fatalf("Failed to load test config: %v", err)
	}

	env := &TestEnv{
		MockServer:    mockServer,
		Context:       ctx,
		CancelFunc:    cancel,
		ConfigPath:    configPath,
		ServerBaseURL: "http://127.0.0.1:" + cfg.API.Port,
	}
	t.Cleanup(env.TearDown)

	app, err := core.Setup(ctx, cfg)
	require.NoError(t, err, "Failed to setup services")
	app.WithServer(ctx)
	env.App = app

	require.NoError(t, app.Registry.StartAll(ctx), "Failed to start services")

	// Wait for the server to accept connections
	require.Eventually(t, func() bool {
		resp, err := http.Get(env.ServerBaseURL + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond, "Server not responding")

	return env
}

// TearDown releases test environment resources
func (env *TestEnv) TearDown() {
	if env.App != nil {
		env.App.Registry.StopAll()
		env.App = nil
	}
	if env.MockServer != nil {
		env.MockServer.Close()
		env.MockServer = nil
	}
	if env.CancelFunc != nil {
		env.CancelFunc()
	}
	cleanupTestConfig(env.ConfigPath)
}
