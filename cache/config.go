package cache

import (
	"fmt"
	"time"
)

const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config represents cache configuration
type Config struct {
	// Driver selects the storage backend: "sqlite" (durable) or "memory"
	Driver string `yaml:"driver"`

	// Path is the SQLite database file, ignored by the memory driver
	Path string `yaml:"path"`

	// TTL per data category, evaluated by the callers
	TTL TTLConfig `yaml:"ttl"`
}

// TTLConfig holds freshness windows per data category
type TTLConfig struct {
	// Market is the TTL of the top-N market snapshot
	Market time.Duration `yaml:"market"`

	// Details is the TTL of a single asset detail record
	Details time.Duration `yaml:"details"`
}

// DefaultCacheConfig returns default cache configuration
func DefaultCacheConfig() Config {
	return Config{
		Driver: DriverSQLite,
		Path:   "marketgame.db",
		TTL: TTLConfig{
			Market:  5 * time.Minute,
			Details: 2 * time.Minute,
		},
	}
}

// Validate checks the driver and TTL values
func (c Config) Validate() error {
	switch c.Driver {
	case DriverSQLite:
		if c.Path == "" {
			return fmt.Errorf("cache path is required for the %s driver", DriverSQLite)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown cache driver %q", c.Driver)
	}
	if c.TTL.Market <= 0 || c.TTL.Details <= 0 {
		return fmt.Errorf("cache ttl values must be positive")
	}
	return nil
}
