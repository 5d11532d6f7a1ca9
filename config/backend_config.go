package config

import (
	"fmt"
	"net/url"
	"time"
)

// BackendConfig configures the game backend REST client
type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

func DefaultBackendConfig() BackendConfig {
	return BackendConfig{
		BaseURL: "http://localhost:3005/api",
		Timeout: 15 * time.Second,
	}
}

func (c *BackendConfig) Validate() error {
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url %q: %w", c.BaseURL, err)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be greater than 0")
	}
	return nil
}

// SecureStoreConfig configures the sealed credential store
type SecureStoreConfig struct {
	// Path of the SQLite file; empty shares the cache database
	Path       string `yaml:"path"`
	Passphrase string `yaml:"passphrase"`
}

func DefaultSecureStoreConfig() SecureStoreConfig {
	return SecureStoreConfig{Passphrase: "market-game-local"}
}

func (c *SecureStoreConfig) Validate() error {
	if c.Passphrase == "" {
		return fmt.Errorf("passphrase is required")
	}
	return nil
}
