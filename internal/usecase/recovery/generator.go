// Package recovery turns free-form model output into validated metadata
// records. Several prompt and parse strategies are tried in order; when all
// fail the result is an explicit placeholder.
package recovery

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/pustaka-digital/pustaka/internal/domain"
	"github.com/pustaka-digital/pustaka/internal/domain/metadata"
	"github.com/pustaka-digital/pustaka/internal/logger"
)

// Completer is the completion gateway. A false result means the model is unavailable.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts domain.CompletionOptions) (string, bool)
}

// Output is a generated description with its metadata.
type Output struct {
	Description string
	Metadata    metadata.BookMetadata
	Strategy    string
}

// Failed reports whether Output is the total-failure placeholder.
func (o Output) Failed() bool { return o.Metadata.AIFailed }

// Generator runs the recovery strategies.
type Generator struct {
	ai     Completer
	opts   domain.CompletionOptions
	logger *zap.Logger
}

// NewGenerator creates a metadata generator.
func NewGenerator(ai Completer, opts domain.CompletionOptions, logger *zap.Logger) *Generator {
	return &Generator{ai: ai, opts: opts, logger: logger}
}

// Generate describes subject. current, if non-empty, is an existing description
// that is kept as-is. Generate never fails: after every strategy has been
// tried it returns a placeholder with IsEmpty and AIFailed set.
func (g *Generator) Generate(ctx context.Context, s metadata.Subject, current string) Output {
	log := logger.FromContext(ctx, g.logger)

	for _, st := range strategies {
		out, err := st.run(g, ctx, s, current)
		if err != nil {
			log.Debug("Metadata strategy failed",
				zap.String("strategy", st.name),
				zap.String("title", s.Title),
				zap.Error(err),
			)
			continue
		}
		out.Strategy = st.name
		out.Metadata = metadata.Normalize(out.Metadata)
		return out
	}

	log.Warn("All metadata strategies failed", zap.String("title", s.Title))
	desc := strings.TrimSpace(current)
	if desc == "" {
		desc = metadata.PlaceholderDescription(s)
	}
	return Output{Description: desc, Metadata: metadata.Empty(), Strategy: StrategyPlaceholder}
}
