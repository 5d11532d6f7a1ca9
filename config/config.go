package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/status-im/market-game/cache"
	"github.com/status-im/market-game/logger"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "MARKETGAME_"

type Config struct {
	Upstream    UpstreamConfig    `yaml:"upstream"`
	Backend     BackendConfig     `yaml:"backend"`
	Cache       cache.Config      `yaml:"cache"`
	SecureStore SecureStoreConfig `yaml:"secure_store"`
	Game        GameConfig        `yaml:"game"`
	API         APIConfig         `yaml:"api"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// APIConfig configures the local view-model server
type APIConfig struct {
	Port string `yaml:"port"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// Default returns a configuration that works without any file
func Default() *Config {
	return &Config{
		Upstream:    DefaultUpstreamConfig(),
		Backend:     DefaultBackendConfig(),
		Cache:       cache.DefaultCacheConfig(),
		SecureStore: DefaultSecureStoreConfig(),
		Game:        DefaultGameConfig(),
		API:         APIConfig{Port: "8080"},
		Logging:     LoggingConfig{Level: "info", Format: "console"},
	}
}

// LoadConfig reads path on top of the defaults, then applies environment
// overrides. A missing file is not an error; an optional .env file in the
// working directory is loaded first.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Get().Warnf("Config: failed to load .env: %v", err)
	}

	config := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Get().Infof("Config: %s not found, using defaults", path)
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks every section
func (c *Config) Validate() error {
	if err := c.Upstream.Validate(); err != nil {
		return fmt.Errorf("upstream: %w", err)
	}
	if err := c.Backend.Validate(); err != nil {
		return fmt.Errorf("backend: %w", err)
	}
	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := c.SecureStore.Validate(); err != nil {
		return fmt.Errorf("secure_store: %w", err)
	}
	if err := c.Game.Validate(); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	if c.API.Port == "" {
		return fmt.Errorf("api: port is required")
	}
	return nil
}

// SecureStorePath returns the database used for credentials, which is the
// cache database unless configured otherwise
func (c *Config) SecureStorePath() string {
	if c.SecureStore.Path != "" {
		return c.SecureStore.Path
	}
	return c.Cache.Path
}

func (c *Config) applyEnv() error {
	setString(&c.Upstream.BaseURL, "UPSTREAM_URL")
	setString(&c.Backend.BaseURL, "BACKEND_URL")
	setString(&c.Cache.Driver, "CACHE_DRIVER")
	setString(&c.Cache.Path, "CACHE_PATH")
	setString(&c.SecureStore.Path, "SECURE_STORE_PATH")
	setString(&c.SecureStore.Passphrase, "SECURE_STORE_PASSPHRASE")
	setString(&c.Logging.Level, "LOG_LEVEL")
	setString(&c.Logging.Format, "LOG_FORMAT")

	// PORT is honoured for compatibility with container platforms
	if port := os.Getenv("PORT"); port != "" {
		c.API.Port = port
	}
	setString(&c.API.Port, "PORT")

	if v, ok := lookup("GAME_STARTING_BALANCE"); ok {
		balance, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %sGAME_STARTING_BALANCE %q: %w", EnvPrefix, v, err)
		}
		c.Game.StartingBalance = balance
	}
	if v, ok := lookup("GAME_POLL_INTERVAL"); ok {
		interval, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sGAME_POLL_INTERVAL %q: %w", EnvPrefix, v, err)
		}
		c.Game.PollInterval = interval
	}
	return nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func setString(dst *string, name string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}
