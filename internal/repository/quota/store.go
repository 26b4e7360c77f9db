// Package quota mirrors completion quota counters to the store so a restart
// inside a window does not reset usage.
package quota

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/pustaka-digital/pustaka/internal/db"
)

// store is the consumer interface for quota counters (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	IncrWithTTL(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error)
}

// Store implements the gateway's counter store. Each window has its own key,
// which expires ttl after its first increment.
type Store struct {
	store store
	ttl   time.Duration
}

// New creates a quota store. ttl should outlive one quota window.
func New(s store, ttl time.Duration) *Store {
	return &Store{store: s, ttl: ttl}
}

// IncrBy adds val to the window counter.
func (s *Store) IncrBy(ctx context.Context, key string, val int64) error {
	if _, err := s.store.IncrWithTTL(ctx, key, val, s.ttl); err != nil {
		return fmt.Errorf("quota incr %s: %w", key, err)
	}
	return nil
}

// Get returns the counter value, or 0 when it does not exist.
func (s *Store) Get(ctx context.Context, key string) (int64, error) {
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("quota GET %s: %w", key, err)
	}

	val, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("quota GET %s parse: %w", key, err)
	}
	return val, nil
}
