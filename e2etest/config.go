package e2etest

import (
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/status-im/market-game/config"
)

// createTestConfig writes a configuration pointing every remote at the mock
// server and returns the directory holding it
func createTestConfig(mockURL string) (string, error) {
	tempDir, err := os.MkdirTemp("", "market-game-test")
	if err != nil {
		return "", err
	}

	configContent := fmt.Sprintf(`
upstream:
  base_url: %[1]s%[2]s
  max_retries: 1
  retry_delay: 10ms
  request_timeout: 2s
  top_limit: 10

backend:
  base_url: %[1]s%[3]s
  timeout: 2s

cache:
  driver: sqlite
  path: %[4]s
  ttl:
    market: 5m
    details: 2m

secure_store:
  passphrase: e2e-passphrase

game:
  starting_balance: 10000
  poll_interval: 1s
  history_days: 7

logging:
  level: warn
  format: console
`, mockURL, PriceAPIPath, BackendPath, filepath.Join(tempDir, "game.db"))

	configPath := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		os.RemoveAll(tempDir)
		return "", err
	}
	return configPath, nil
}

// loadTestConfig creates and loads the test configuration
func loadTestConfig(mockURL string) (*config.Config, string, error) {
	configPath, err := createTestConfig(mockURL)
	if err != nil {
		return nil, "", err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		cleanupTestConfig(configPath)
		return nil, "", err
	}

	port, err := freePort()
	if err != nil {
		cleanupTestConfig(configPath)
		return nil, "", err
	}
	cfg.API.Port = port
	return cfg, configPath, nil
}

// cleanupTestConfig removes the temporary directory of configPath
func cleanupTestConfig(configPath string) {
	if configPath != "" {
		os.RemoveAll(filepath.Dir(configPath))
	}
}

func freePort() (string, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	defer l.Close()
	return fmt.Sprintf("%d", l.Addr().(*net.TCPAddr).Port), nil
}
