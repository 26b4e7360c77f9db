// Package catalog reads and seeds catalog records stored as hashes.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pustaka-digital/pustaka/internal/db"
	"github.com/pustaka-digital/pustaka/internal/domain"
	"github.com/pustaka-digital/pustaka/internal/domain/book"
)

// store is the consumer interface for the catalog (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Field selects which catalog fields a contains-query inspects.
type Field int

// Queryable fields.
const (
	FieldTitle Field = 1 << iota
	FieldAuthor
	FieldPublisher
	FieldPhysicalDescription
)

// recentTitles is the number of titles listed in Stats.
const recentTitles = 5

// Repo implements the catalog queries used by search and chat.
type Repo struct {
	store store
}

// New creates a catalog repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Get returns one book by id.
func (r *Repo) Get(ctx context.Context, id string) (book.Book, error) {
	m, err := r.store.HGetAll(ctx, bookKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return book.Book{}, domain.ErrNotFound
		}
		return book.Book{}, fmt.Errorf("hgetall book %s: %w", id, err)
	}
	return bookFromHash(m), nil
}

// Contains returns up to limit books where any of the selected fields contains
// term case-insensitively, as a single phrase. Results follow store order
// (ascending numeric-aware id).
func (r *Repo) Contains(ctx context.Context, term string, fields Field, limit int) ([]book.Book, error) {
	all, err := r.all(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]book.Book, 0, min(limit, len(all)))
	for _, b := range all {
		if !matches(b, needle, fields) {
			continue
		}
		out = append(out, b)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Stats summarizes the catalog.
func (r *Repo) Stats(ctx context.Context) (book.Stats, error) {
	all, err := r.all(ctx)
	if err != nil {
		return book.Stats{}, err
	}

	authors := make(map[string]struct{})
	publishers := make(map[string]struct{})
	for _, b := range all {
		if b.Author() != "" {
			authors[strings.ToLower(b.Author())] = struct{}{}
		}
		if b.Publisher() != "" {
			publishers[strings.ToLower(b.Publisher())] = struct{}{}
		}
	}

	titles := make([]string, 0, recentTitles)
	for i := len(all) - 1; i >= 0 && len(titles) < recentTitles; i-- {
		titles = append(titles, all[i].Title())
	}

	return book.Stats{
		TotalBooks:         len(all),
		DistinctAuthors:    len(authors),
		DistinctPublishers: len(publishers),
		RecentTitles:       titles,
	}, nil
}

// Put stores books in one pipelined round-trip, overwriting existing records.
func (r *Repo) Put(ctx context.Context, books []book.Book) error {
	items := make([]db.HashSetItem, len(books))
	for i, b := range books {
		items[i] = db.HashSetItem{Key: bookKey(b.ID()), Fields: bookToHash(b)}
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset books: %w", err)
	}
	return nil
}

func (r *Repo) all(ctx context.Context) ([]book.Book, error) {
	keys, err := r.store.Scan(ctx, bookKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan books: %w", err)
	}
	if len(keys) == 0 {
		return []book.Book{}, nil
	}

	rows, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi books: %w", err)
	}

	books := make([]book.Book, 0, len(rows))
	for _, m := range rows {
		if len(m) == 0 || m[fieldID] == "" {
			continue
		}
		books = append(books, bookFromHash(m))
	}

	sort.SliceStable(books, func(i, j int) bool {
		return lessID(books[i].ID(), books[j].ID())
	})
	return books, nil
}

func matches(b book.Book, needle string, fields Field) bool {
	check := func(f Field, v string) bool {
		return fields&f != 0 && strings.Contains(strings.ToLower(v), needle)
	}
	return check(FieldTitle, b.Title()) ||
		check(FieldAuthor, b.Author()) ||
		check(FieldPublisher, b.Publisher()) ||
		check(FieldPhysicalDescription, b.PhysicalDescription())
}

// lessID orders numeric ids numerically and everything else lexically after them.
func lessID(a, b string) bool {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

// Key pattern: pustaka:book:{id}

func bookKey(id string) string {
	return fmt.Sprintf("%sbook:%s", domain.KeyPrefix, id)
}
