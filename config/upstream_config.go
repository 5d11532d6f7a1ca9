package config

import (
	"fmt"
	"net/url"
	"time"
)

// UpstreamConfig configures the public price API client
type UpstreamConfig struct {
	BaseURL           string        `yaml:"base_url"`            // Price API root, e.g. https://api.coinlore.net/api
	MaxRetries        int           `yaml:"max_retries"`         // Attempts per request, 3 when unset
	RetryDelay        time.Duration `yaml:"retry_delay"`         // Multiplied by the attempt number
	RequestTimeout    time.Duration `yaml:"request_timeout"`     // Per attempt
	RequestsPerMinute int           `yaml:"requests_per_minute"` // Outbound limit, 0 disables it
	TopLimit          int           `yaml:"top_limit"`           // Assets requested for the market snapshot
}

func DefaultUpstreamConfig() UpstreamConfig {
	return UpstreamConfig{
		BaseURL:        "https://api.coinlore.net/api",
		MaxRetries:     3,
		RetryDelay:     2 * time.Second,
		RequestTimeout: 10 * time.Second,
		TopLimit:       50,
	}
}

func (c *UpstreamConfig) Validate() error {
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url %q: %w", c.BaseURL, err)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0, got %d", c.MaxRetries)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry_delay must be >= 0")
	}
	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("requests_per_minute must be >= 0, got %d", c.RequestsPerMinute)
	}
	if c.TopLimit <= 0 {
		return fmt.Errorf("top_limit must be greater than 0")
	}
	return nil
}
