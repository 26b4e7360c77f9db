// Package completion is the text completion gateway: the only path from the
// rest of the service to a completion provider. It adds response caching,
// per-window quota enforcement, call timeouts and error normalization.
package completion

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/pustaka-digital/pustaka/internal/domain"
	"github.com/pustaka-digital/pustaka/internal/metrics"
)

// SharedCache is an optional second-level cache shared between replicas.
type SharedCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Put(ctx context.Context, key, text string)
}

// Config holds gateway settings.
type Config struct {
	Provider string
	Model    string
	Timeout  time.Duration
	CacheTTL time.Duration
	Defaults domain.CompletionOptions // applied where a call leaves a field zero
}

// Gateway wraps a provider. Complete never returns an error: a false result
// means "completion unavailable, use a fallback".
type Gateway struct {
	provider domain.Completer
	quota    *QuotaTracker
	cache    *responseCache
	shared   SharedCache
	flight   singleflight.Group
	cfg      Config
	logger   *zap.Logger
}

// NewGateway creates a gateway around provider.
func NewGateway(provider domain.Completer, quota *QuotaTracker, cfg Config, logger *zap.Logger) *Gateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &Gateway{
		provider: provider,
		quota:    quota,
		cache:    newResponseCache(cfg.CacheTTL, quota.now),
		cfg:      cfg,
		logger:   logger,
	}
}

// WithSharedCache attaches a second-level cache.
func (g *Gateway) WithSharedCache(c SharedCache) *Gateway {
	g.shared = c
	return g
}

// Complete returns generated text for prompt. Cached responses for the same
// normalized prompt are served without consuming quota. Exhausted quota,
// provider errors and timeouts all yield ("", false).
func (g *Gateway) Complete(ctx context.Context, prompt string, opts domain.CompletionOptions) (string, bool) {
	key := normalizeKey(prompt)
	if key == "" {
		return "", false
	}
	usageCollector := domain.CompletionUsageFromContext(ctx)

	if text, ok := g.lookup(ctx, key); ok {
		metrics.CompletionCacheTotal.WithLabelValues("hit").Inc()
		usageCollector.AddCacheHit()
		return text, true
	}
	metrics.CompletionCacheTotal.WithLabelValues("miss").Inc()

	// Concurrent identical prompts share one provider call and one quota unit.
	// The call outlives any single caller and is bounded by the gateway timeout.
	ch := g.flight.DoChan(key, func() (any, error) {
		return g.call(context.WithoutCancel(ctx), key, prompt, opts), nil
	})
	select {
	case <-ctx.Done():
		return "", false
	case r := <-ch:
		res, _ := r.Val.(callResult)
		if res.ok && !r.Shared {
			usageCollector.AddCall(res.tokens)
		}
		return res.text, res.ok
	}
}

type callResult struct {
	text   string
	tokens int
	ok     bool
}

func (g *Gateway) call(ctx context.Context, key, prompt string, opts domain.CompletionOptions) callResult {
	if text, ok := g.cache.get(key); ok {
		return callResult{text: text, ok: true}
	}

	if !g.quota.TryAcquire() {
		g.logger.Debug("Completion quota exhausted",
			zap.String("provider", g.cfg.Provider),
			zap.Error(domain.ErrQuotaExhausted),
		)
		g.reportRemaining()
		return callResult{}
	}
	g.reportRemaining()

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	start := time.Now()
	res, err := g.provider.Complete(ctx, prompt, g.withDefaults(opts))
	if err != nil {
		g.logger.Warn("Completion provider call failed",
			zap.String("provider", g.cfg.Provider),
			zap.String("model", g.cfg.Model),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return callResult{}
	}

	text := strings.TrimSpace(res.Text)
	if text == "" {
		return callResult{}
	}

	g.cache.put(key, text)
	if g.shared != nil {
		g.shared.Put(ctx, key, text)
	}

	g.logger.Debug("Completion call finished",
		zap.String("provider", g.cfg.Provider),
		zap.Duration("duration", time.Since(start)),
		zap.Int("prompt_tokens", res.PromptTokens),
		zap.Int("output_tokens", res.OutputTokens),
	)
	return callResult{text: text, tokens: res.PromptTokens + res.OutputTokens, ok: true}
}

func (g *Gateway) lookup(ctx context.Context, key string) (string, bool) {
	if text, ok := g.cache.get(key); ok {
		return text, true
	}
	if g.shared == nil {
		return "", false
	}
	text, ok := g.shared.Get(ctx, key)
	if !ok {
		return "", false
	}
	g.cache.put(key, text)
	return text, true
}

func (g *Gateway) withDefaults(opts domain.CompletionOptions) domain.CompletionOptions {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = g.cfg.Defaults.MaxTokens
	}
	if opts.Temperature == nil {
		opts.Temperature = g.cfg.Defaults.Temperature
	}
	if opts.System == "" {
		opts.System = g.cfg.Defaults.System
	}
	return opts
}

func (g *Gateway) reportRemaining() {
	metrics.CompletionQuotaRemaining.WithLabelValues(g.cfg.Provider).Set(float64(g.quota.Remaining()))
}

// Snapshot returns the limit, the calls used and the bounds of the current quota window.
func (g *Gateway) Snapshot() (limit, used int64, start, end time.Time) {
	return g.quota.Snapshot()
}

// CacheEntries returns the number of live cached responses.
func (g *Gateway) CacheEntries() int {
	return g.cache.len()
}

// normalizeKey lowercases and trims prompt text for cache lookups.
func normalizeKey(prompt string) string {
	return strings.ToLower(strings.TrimSpace(prompt))
}
