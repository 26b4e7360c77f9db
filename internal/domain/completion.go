package domain

import "context"

// CompletionOptions tunes a single text completion call.
type CompletionOptions struct {
	System      string // optional system instruction
	MaxTokens   int
	Temperature *float32 // nil leaves the choice to the gateway or provider
}

// Temperature returns a pointer to v for CompletionOptions.Temperature.
func Temperature(v float32) *float32 { return &v }

// CompletionResult carries generated text and token usage back through the gateway.
type CompletionResult struct {
	Text         string
	PromptTokens int
	OutputTokens int
}

// Completer is the text completion contract shared by providers and the gateway.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (CompletionResult, error)
}

// HealthChecker verifies completion provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type completionUsageKey struct{}

// CompletionUsage collects gateway activity for a single HTTP request.
// The handler puts a pointer into the context; the gateway writes to it; the
// handler reads it for response headers.
type CompletionUsage struct {
	Calls     int // provider calls that consumed quota
	CacheHits int
	Tokens    int
}

// NewContextWithCompletionUsage returns a context carrying a usage collector.
func NewContextWithCompletionUsage(ctx context.Context) (context.Context, *CompletionUsage) {
	u := &CompletionUsage{}
	return context.WithValue(ctx, completionUsageKey{}, u), u
}

// CompletionUsageFromContext extracts the collector. Returns nil if not set.
func CompletionUsageFromContext(ctx context.Context) *CompletionUsage {
	u, _ := ctx.Value(completionUsageKey{}).(*CompletionUsage)
	return u
}

// AddCall records one provider call.
func (u *CompletionUsage) AddCall(tokens int) {
	if u != nil {
		u.Calls++
		u.Tokens += tokens
	}
}

// AddCacheHit records one response served from cache.
func (u *CompletionUsage) AddCacheHit() {
	if u != nil {
		u.CacheHits++
	}
}
