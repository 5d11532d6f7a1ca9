package cache

import (
	"context"
	"strings"

	"github.com/patrickmn/go-cache"
)

// GoCache is an in-process Storage built on go-cache. Items never expire:
// freshness is the caller's decision, not the storage's.
type GoCache struct {
	cache *cache.Cache
}

// NewGoCache creates a new GoCache instance
func NewGoCache() *GoCache {
	return &GoCache{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

// Read returns the raw value for key
func (gc *GoCache) Read(_ context.Context, key string) ([]byte, bool, error) {
	value, found := gc.cache.Get(key)
	if !found {
		return nil, false, nil
	}
	data, ok := value.([]byte)
	if !ok {
		// Foreign value, report as missing
		return nil, false, nil
	}
	return data, true, nil
}

// Write replaces the value for key
func (gc *GoCache) Write(_ context.Context, key string, value []byte) error {
	gc.cache.Set(key, value, cache.NoExpiration)
	return nil
}

// Delete removes items from cache by keys
func (gc *GoCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		gc.cache.Delete(key)
	}
	return nil
}

// DeletePrefix removes every item whose key starts with prefix
func (gc *GoCache) DeletePrefix(_ context.Context, prefix string) (int, error) {
	deleted := 0
	for key := range gc.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			gc.cache.Delete(key)
			deleted++
		}
	}
	return deleted, nil
}

// Count returns the number of items in cache
func (gc *GoCache) Count(_ context.Context) (int, error) {
	return gc.cache.ItemCount(), nil
}

// Close removes all items from cache
func (gc *GoCache) Close() error {
	gc.cache.Flush()
	return nil
}
