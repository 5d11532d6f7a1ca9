package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Store is the persistent cache contract used by the market gateway.
// It never decides freshness; callers compare an entry's age against the TTL
// of their data category.
//
//go:generate mockgen -destination=mocks/store.go . Store
type Store interface {
	// Get returns the entry stored under key, or nil when the key is missing
	// or its stored value cannot be decoded.
	Get(ctx context.Context, key string) (*Entry, error)

	// Set stores data (JSON encoded) under key, stamped with the current time.
	// Concurrent writers of the same key resolve as last write wins.
	Set(ctx context.Context, key string, data interface{}) error

	// Invalidate deletes exact keys.
	Invalidate(ctx context.Context, keys ...string) error

	// InvalidatePrefix deletes every key starting with one of the prefixes.
	InvalidatePrefix(ctx context.Context, prefixes ...string) error
}

// Storage is a durable byte-level key/value backend.
type Storage interface {
	Read(ctx context.Context, key string) ([]byte, bool, error)
	Write(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// Entry is a cached value with the time it was written.
type Entry struct {
	Data json.RawMessage `json:"data"`
	// Timestamp is the write time in unix milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// WrittenAt returns the write time.
func (e *Entry) WrittenAt() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Age returns how old the entry is at now.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.WrittenAt())
}

// IsFresh reports whether the entry is younger than ttl at now.
func (e *Entry) IsFresh(ttl time.Duration, now time.Time) bool {
	if e == nil {
		return false
	}
	return e.Age(now) < ttl
}

// Decode unmarshals the cached data into v.
func (e *Entry) Decode(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}
