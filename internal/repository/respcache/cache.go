// Package respcache shares completion responses between API replicas through the store.
package respcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/pustaka-digital/pustaka/internal/db"
	"github.com/pustaka-digital/pustaka/internal/domain"
)

var cacheKeyPrefix = domain.KeyPrefix + "completion_cache:"

// store is the consumer interface for the shared response cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache stores completion text keyed by a hash of the normalized prompt.
// Failures are logged and treated as misses.
type Cache struct {
	store  store
	ttl    time.Duration
	logger *zap.Logger
}

// New creates a shared response cache.
func New(s store, ttl time.Duration, logger *zap.Logger) *Cache {
	return &Cache{store: s, ttl: ttl, logger: logger}
}

// Get returns a cached response for key.
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	k := c.cacheKey(key)
	data, err := c.store.Get(ctx, k)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached completion", zap.String("key", k), zap.Error(err))
		}
		return "", false
	}
	if len(data) == 0 {
		return "", false
	}
	return string(data), true
}

// Put stores a response for key.
func (c *Cache) Put(ctx context.Context, key, text string) {
	k := c.cacheKey(key)
	if err := c.store.SetWithTTL(ctx, k, []byte(text), c.ttl); err != nil {
		c.logger.Warn("Failed to cache completion", zap.String("key", k), zap.Error(err))
	}
}

func (c *Cache) cacheKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}
