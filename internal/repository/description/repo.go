// Package description persists generated book descriptions as JSON documents.
package description

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pustaka-digital/pustaka/internal/db"
	"github.com/pustaka-digital/pustaka/internal/domain"
	"github.com/pustaka-digital/pustaka/internal/domain/metadata"
)

// store is the consumer interface for description records (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repo stores one description record per book.
type Repo struct {
	store store
}

// New creates a description repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Get returns the stored record for bookID, or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, bookID string) (metadata.BookDescription, error) {
	data, err := r.store.Get(ctx, recordKey(bookID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return metadata.BookDescription{}, domain.ErrNotFound
		}
		return metadata.BookDescription{}, fmt.Errorf("get description %s: %w", bookID, err)
	}

	var row recordRow
	if err := json.Unmarshal(data, &row); err != nil {
		return metadata.BookDescription{}, fmt.Errorf("unmarshal description %s: %w", bookID, err)
	}
	return fromRow(row), nil
}

// Save creates or overwrites the record for d.BookID.
func (r *Repo) Save(ctx context.Context, d metadata.BookDescription) error {
	data, err := json.Marshal(toRow(d))
	if err != nil {
		return fmt.Errorf("marshal description %s: %w", d.BookID, err)
	}
	if err := r.store.Set(ctx, recordKey(d.BookID), data); err != nil {
		return fmt.Errorf("set description %s: %w", d.BookID, err)
	}
	return nil
}

// Key pattern: pustaka:book_description:{bookId}

func recordKey(bookID string) string {
	return fmt.Sprintf("%sbook_description:%s", domain.KeyPrefix, bookID)
}
