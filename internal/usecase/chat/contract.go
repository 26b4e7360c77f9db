package chat

import (
	"context"

	"github.com/pustaka-digital/pustaka/internal/domain"
	"github.com/pustaka-digital/pustaka/internal/domain/book"
	"github.com/pustaka-digital/pustaka/internal/repository/catalog"
	"github.com/pustaka-digital/pustaka/internal/usecase/search"
)

// Searcher runs relevance search.
type Searcher interface {
	Search(ctx context.Context, term string) search.Result
}

// Catalog provides the lookups used to assemble model context.
type Catalog interface {
	Contains(ctx context.Context, term string, fields catalog.Field, limit int) ([]book.Book, error)
	Stats(ctx context.Context) (book.Stats, error)
}

// Completer is the completion gateway. A false result means the model is unavailable.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts domain.CompletionOptions) (string, bool)
}
