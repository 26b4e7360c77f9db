// Package batch runs per-record work sequentially behind a token-bucket
// throttle, reporting an outcome for every record.
package batch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pustaka-digital/pustaka/internal/domain"
	dombatch "github.com/pustaka-digital/pustaka/internal/domain/batch"
	"github.com/pustaka-digital/pustaka/internal/logger"
)

// MaxBatchSize is the maximum number of records per run.
const MaxBatchSize = 500

// Item identifies one record of a run.
type Item struct {
	ID   string
	Name string
}

// Func processes one record.
type Func func(ctx context.Context, item Item) error

// Runner processes items one at a time. Consecutive calls are spaced by the
// limiter; the first call is not delayed.
type Runner struct {
	limiter      *rate.Limiter
	maxBatchSize int
	logger       *zap.Logger
}

// NewRunner creates a runner allowing one call per interval. A non-positive
// interval disables throttling.
func NewRunner(interval time.Duration, logger *zap.Logger) *Runner {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Runner{
		limiter:      rate.NewLimiter(limit, 1),
		maxBatchSize: MaxBatchSize,
		logger:       logger,
	}
}

// WithMaxBatchSize configures the maximum batch size.
func (r *Runner) WithMaxBatchSize(size int) *Runner {
	if size > 0 {
		r.maxBatchSize = size
	}
	return r
}

// Run applies fn to every item in order. A failing item never stops the run;
// cancellation of ctx marks the remaining items as failed.
func (r *Runner) Run(ctx context.Context, items []Item, fn Func) []dombatch.Result {
	results := make([]dombatch.Result, len(items))

	if len(items) > r.maxBatchSize {
		for i, it := range items {
			results[i] = dombatch.NewError(it.ID, it.Name,
				fmt.Errorf("batch size exceeds %d: %w", r.maxBatchSize, domain.ErrInvalidRequest))
		}
		return results
	}

	log := logger.FromContext(ctx, r.logger)
	for i, it := range items {
		if err := r.limiter.Wait(ctx); err != nil {
			for j := i; j < len(items); j++ {
				results[j] = dombatch.NewError(items[j].ID, items[j].Name, fmt.Errorf("wait: %w", err))
			}
			return results
		}

		if err := call(ctx, it, fn); err != nil {
			log.Warn("Batch item failed", zap.String("id", it.ID), zap.Error(err))
			results[i] = dombatch.NewError(it.ID, it.Name, err)
			continue
		}
		results[i] = dombatch.NewOK(it.ID, it.Name)
	}

	return results
}

// call runs fn, converting a panic into an error for that item.
func call(ctx context.Context, it Item, fn Func) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn(ctx, it)
}
