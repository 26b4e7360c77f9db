package description

import (
	"context"

	"github.com/pustaka-digital/pustaka/internal/domain/book"
	"github.com/pustaka-digital/pustaka/internal/domain/metadata"
	"github.com/pustaka-digital/pustaka/internal/usecase/recovery"
)

// Repository persists generated descriptions.
type Repository interface {
	Get(ctx context.Context, bookID string) (metadata.BookDescription, error)
	Save(ctx context.Context, d metadata.BookDescription) error
}

// BookReader looks up catalog records for requests that omit the title.
type BookReader interface {
	Get(ctx context.Context, id string) (book.Book, error)
}

// Generator produces a description and metadata, never failing.
type Generator interface {
	Generate(ctx context.Context, s metadata.Subject, current string) recovery.Output
}
