package completion

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pustaka-digital/pustaka/internal/domain"
)

// QuotaStore is the persistence interface for quota counters.
type QuotaStore interface {
	IncrBy(ctx context.Context, key string, val int64) error
	Get(ctx context.Context, key string) (int64, error)
}

// QuotaTracker counts provider calls in fixed windows aligned to the window length.
// The check-reset-increment sequence runs under one mutex; the store, when
// attached, is a write-behind mirror.
type QuotaTracker struct {
	mu          sync.Mutex
	used        int64
	limit       int64 // 0 = unlimited
	window      time.Duration
	windowStart time.Time
	provider    string
	store       QuotaStore
	now         func() time.Time
	logger      *zap.Logger
}

// NewQuotaTracker creates a tracker allowing limit calls per window. A limit
// of zero or below is unlimited.
func NewQuotaTracker(provider string, limit int64, window time.Duration, logger *zap.Logger) *QuotaTracker {
	if window <= 0 {
		window = time.Hour
	}
	q := &QuotaTracker{
		limit:    max(limit, 0),
		window:   window,
		provider: provider,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger,
	}
	q.windowStart = q.now().Truncate(window)
	return q
}

// WithStore attaches a persistence store and loads the current window's counter.
func (q *QuotaTracker) WithStore(ctx context.Context, store QuotaStore) *QuotaTracker {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.store = store
	q.resetIfNeeded()
	key := q.key()
	val, err := store.Get(ctx, key)
	if err != nil {
		q.logger.Warn("Failed to load completion quota from store", zap.String("key", key), zap.Error(err))
		return q
	}
	q.used = val
	q.logger.Info("Completion quota loaded from store",
		zap.String("provider", q.provider),
		zap.Int64("used", q.used),
		zap.Int64("limit", q.limit),
	)
	return q
}

// TryAcquire consumes one call from the current window. It returns false,
// consuming nothing, when the window is exhausted.
func (q *QuotaTracker) TryAcquire() bool {
	q.mu.Lock()
	q.resetIfNeeded()
	if q.limit > 0 && q.used >= q.limit {
		q.mu.Unlock()
		return false
	}
	q.used++
	store := q.store
	key := q.key()
	q.mu.Unlock()

	if store != nil {
		// Background context: the mirror write must not be cut short by the caller.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := store.IncrBy(ctx, key, 1); err != nil {
			q.logger.Warn("Failed to persist completion quota", zap.String("key", key), zap.Error(err))
		}
	}
	return true
}

// Remaining returns calls left in the window (-1 if unlimited).
func (q *QuotaTracker) Remaining() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.resetIfNeeded()
	if q.limit <= 0 {
		return -1
	}
	return max(q.limit-q.used, 0)
}

// Snapshot returns the limit, the calls used and the bounds of the current window.
func (q *QuotaTracker) Snapshot() (limit, used int64, start, end time.Time) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.resetIfNeeded()
	return q.limit, q.used, q.windowStart, q.windowStart.Add(q.window)
}

// resetIfNeeded zeroes the counter when the window rolls over. Callers hold mu.
func (q *QuotaTracker) resetIfNeeded() {
	current := q.now().Truncate(q.window)
	if current.After(q.windowStart) {
		q.used = 0
		q.windowStart = current
	}
}

// key is the counter key of the current window: pustaka:quota:{provider}:{window-start-unix}.
func (q *QuotaTracker) key() string {
	return fmt.Sprintf("%squota:%s:%d", domain.KeyPrefix, q.provider, q.windowStart.Unix())
}
