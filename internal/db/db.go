// Package db defines the storage facade shared by the repositories. Catalog
// records and playlists live in hashes; generated records, cached responses
// and quota counters live in plain keys.
package db

import (
	"context"
	"time"
)

// Store is the database facade used by the composition root.
// Repositories depend on narrow consumer-side subsets of it.
type Store interface {
	Pinger
	HashStore
	KVStore
	CounterStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashSetItem is one hash written by HSetMulti.
type HashSetItem struct {
	Key    string
	Fields map[string]string
}

// HashStore holds field-addressable records (books, playlists).
type HashStore interface {
	HSetMulti(ctx context.Context, items []HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// KVStore holds opaque values, optionally expiring.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CounterStore holds windowed counters.
type CounterStore interface {
	// IncrWithTTL adds delta to key and returns the new value. ttl is set only
	// when the key has none, so later increments do not extend the window.
	IncrWithTTL(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error)
}
