package search

import (
	"context"

	"github.com/pustaka-digital/pustaka/internal/domain/book"
	"github.com/pustaka-digital/pustaka/internal/repository/catalog"
)

// Catalog is the read contract the search service needs from the catalog repository.
type Catalog interface {
	Contains(ctx context.Context, term string, fields catalog.Field, limit int) ([]book.Book, error)
	Stats(ctx context.Context) (book.Stats, error)
}
