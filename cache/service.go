package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/status-im/market-game/logger"
)

// Service implements Store on top of a Storage backend. There is no
// in-memory layer: every call reaches the backend.
type Service struct {
	storage Storage
	config  Config
	now     func() time.Time
}

// Option customizes a Service
type Option func(*Service)

// WithClock overrides the clock used to stamp entries
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a cache service over the given storage
func NewService(storage Storage, config Config, opts ...Option) *Service {
	s := &Service{
		storage: storage,
		config:  config,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OpenStorage creates the storage backend selected by config.Driver
func OpenStorage(config Config) (Storage, error) {
	switch config.Driver {
	case DriverMemory:
		return NewGoCache(), nil
	case DriverSQLite, "":
		return OpenSQLite(config.Path, DefaultTable)
	default:
		return nil, fmt.Errorf("unknown cache driver %q", config.Driver)
	}
}

// Start implements core.Interface
func (s *Service) Start(ctx context.Context) error {
	if s.storage == nil {
		return fmt.Errorf("cache service not properly initialized")
	}
	return nil
}

// Stop implements core.Interface
func (s *Service) Stop() {
	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			logger.Get().Warnf("Cache: error closing storage: %v", err)
		}
	}
}

// Config returns the cache configuration, including the per-category TTLs
func (s *Service) Config() Config {
	return s.config
}

// Get returns the entry under key. Missing and malformed entries are
// reported as nil without error; only backend failures are returned.
func (s *Service) Get(ctx context.Context, key string) (*Entry, error) {
	raw, found, err := s.storage.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil || entry.Timestamp == 0 || len(entry.Data) == 0 {
		logger.Get().Warnf("Cache: ignoring malformed entry %s", key)
		return nil, nil
	}
	return &entry, nil
}

// Set encodes data and stores it with the current timestamp
func (s *Service) Set(ctx context.Context, key string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode cache value for %s: %w", key, err)
	}

	raw, err := json.Marshal(Entry{
		Data:      payload,
		Timestamp: s.now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry for %s: %w", key, err)
	}
	return s.storage.Write(ctx, key, raw)
}

// Invalidate removes exact keys
func (s *Service) Invalidate(ctx context.Context, keys ...string) error {
	return s.storage.Delete(ctx, keys...)
}

// InvalidatePrefix removes every key sharing one of the prefixes
func (s *Service) InvalidatePrefix(ctx context.Context, prefixes ...string) error {
	total := 0
	for _, prefix := range prefixes {
		n, err := s.storage.DeletePrefix(ctx, prefix)
		if err != nil {
			return err
		}
		total += n
	}
	if total > 0 {
		logger.Get().Infof("Cache: invalidated %d entries", total)
	}
	return nil
}

// Stats returns statistics about the cache service
func (s *Service) Stats(ctx context.Context) ServiceStats {
	count, err := s.storage.Count(ctx)
	if err != nil {
		logger.Get().Warnf("Cache: failed to count entries: %v", err)
	}
	return ServiceStats{
		Items:  count,
		Driver: s.config.Driver,
	}
}

// ServiceStats represents cache service statistics
type ServiceStats struct {
	Items  int    // Number of stored entries
	Driver string // Storage driver in use
}
