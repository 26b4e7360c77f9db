package chi

import (
	"context"

	domchat "github.com/pustaka-digital/pustaka/internal/domain/chat"
	"github.com/pustaka-digital/pustaka/internal/domain/metadata"
	domusage "github.com/pustaka-digital/pustaka/internal/domain/usage"
	descriptionuc "github.com/pustaka-digital/pustaka/internal/usecase/description"
	healthuc "github.com/pustaka-digital/pustaka/internal/usecase/health"
	playlistuc "github.com/pustaka-digital/pustaka/internal/usecase/playlist"
	searchuc "github.com/pustaka-digital/pustaka/internal/usecase/search"
)

// ChatResponder answers chat widget messages.
type ChatResponder interface {
	Respond(ctx context.Context, message string, history []domchat.Turn) domchat.Response
}

// BookSearcher runs relevance search over the catalog.
type BookSearcher interface {
	Search(ctx context.Context, term string) searchuc.Result
}

// Describer generates book descriptions.
type Describer interface {
	Describe(ctx context.Context, req descriptionuc.Request) (metadata.BookDescription, descriptionuc.Source, error)
}

// PlaylistGenerator generates playlist metadata in batches.
type PlaylistGenerator interface {
	Generate(ctx context.Context, req playlistuc.Request) (playlistuc.Summary, error)
}

// UsageReporter reports completion quota usage.
type UsageReporter interface {
	GetReport(ctx context.Context) domusage.Report
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
