// Package anthropic implements domain.Completer on the Anthropic Messages API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	aoption "github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/pustaka-digital/pustaka/internal/domain"
	"github.com/pustaka-digital/pustaka/internal/metrics"
)

const defaultMaxTokens = 1024

// Config holds the completion provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// Completer is a text completion provider backed by Claude models.
type Completer struct {
	client anthropic.Client
	model  string
	logger *zap.Logger
}

// NewCompleter creates an Anthropic completion provider.
func NewCompleter(cfg *Config) *Completer {
	opts := []aoption.RequestOption{
		aoption.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		aoption.WithMaxRetries(0), // the gateway decides what a failure means
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		opts = append(opts, aoption.WithBaseURL(strings.TrimSpace(cfg.BaseURL)))
	}
	return &Completer{
		client: anthropic.NewClient(opts...),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

// Complete implements domain.Completer.
func (c *Completer) Complete(
	ctx context.Context, prompt string, opts domain.CompletionOptions,
) (domain.CompletionResult, error) {
	maxTokens := int64(opts.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
	}
	if opts.Temperature != nil {
		params.Temperature = anthropic.Float(float64(*opts.Temperature))
	}
	if s := strings.TrimSpace(opts.System); s != "" {
		params.System = []anthropic.TextBlockParam{{Text: s}}
	}

	start := time.Now()
	msg, err := c.client.Messages.New(ctx, params)
	duration := time.Since(start)

	if err != nil {
		wrapped := parseAPIError(err)
		status := "error"
		switch {
		case errors.Is(wrapped, domain.ErrRateLimited):
			status = "rate_limited"
		case ctx.Err() != nil:
			status = "timeout"
		}
		metrics.CompletionRequestsTotal.WithLabelValues("anthropic", c.model, status).Inc()
		return domain.CompletionResult{}, wrapped
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(tb.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		metrics.CompletionRequestsTotal.WithLabelValues("anthropic", c.model, "error").Inc()
		return domain.CompletionResult{}, fmt.Errorf("empty completion response: %w", domain.ErrProviderError)
	}

	metrics.CompletionRequestsTotal.WithLabelValues("anthropic", c.model, "success").Inc()
	metrics.CompletionRequestDuration.WithLabelValues("anthropic", c.model).Observe(duration.Seconds())
	metrics.CompletionTokensTotal.WithLabelValues("anthropic", c.model, "prompt").Add(float64(msg.Usage.InputTokens))
	metrics.CompletionTokensTotal.WithLabelValues("anthropic", c.model, "output").Add(float64(msg.Usage.OutputTokens))

	if msg.StopReason == anthropic.StopReasonMaxTokens {
		c.logger.Debug("Completion truncated at max tokens", zap.String("model", c.model), zap.Int64("max_tokens", maxTokens))
	}

	return domain.CompletionResult{
		Text:         text.String(),
		PromptTokens: int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
	}, nil
}

// HealthCheck verifies API availability by listing models.
func (c *Completer) HealthCheck(ctx context.Context) error {
	if _, err := c.client.Models.List(ctx, anthropic.ModelListParams{}); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func parseAPIError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		wrap := domain.ErrProviderError
		if apiErr.StatusCode == http.StatusTooManyRequests {
			wrap = fmt.Errorf("%w: %w", domain.ErrRateLimited, wrap)
		}
		return fmt.Errorf("completion API error %d: %w", apiErr.StatusCode, wrap)
	}
	return fmt.Errorf("completion request failed: %v: %w", err, domain.ErrProviderError)
}
