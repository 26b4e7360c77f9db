package pustaka

import (
	"context"
	"fmt"
	"time"

	"github.com/pustaka-digital/pustaka/internal/domain/book"
	"github.com/pustaka-digital/pustaka/internal/domain/metadata"
	descriptionuc "github.com/pustaka-digital/pustaka/internal/usecase/description"
	searchuc "github.com/pustaka-digital/pustaka/internal/usecase/search"
)

// ImportBooks validates and stores catalog records, replacing any with the
// same ID. Nothing is written if one record is invalid.
func (c *Client) ImportBooks(ctx context.Context, books []Book) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("import_books", start, err) }()

	items := make([]book.Book, 0, len(books))
	for i, b := range books {
		item, verr := toInternalBook(b)
		if verr != nil {
			return fmt.Errorf("import books: record %d: %w: %w", i, ErrInvalidRequest, verr)
		}
		items = append(items, item)
	}
	if err = c.books.Put(ctx, items); err != nil {
		return fmt.Errorf("import books: %w", err)
	}
	return nil
}

// SearchBooks ranks catalog records against q. Queries too short to search
// return catalog stats instead.
func (c *Client) SearchBooks(ctx context.Context, q string) SearchResult {
	start := time.Now()
	defer func() { c.obs.observe("search_books", start, nil) }()

	return fromInternalSearch(c.searchSvc.Search(ctx, q))
}

// DescribeBook returns a cached description or generates one.
func (c *Client) DescribeBook(ctx context.Context, req DescribeRequest) (_ Description, err error) {
	start := time.Now()
	defer func() { c.obs.observe("describe_book", start, err) }()

	d, src, err := c.describeSvc.Describe(ctx, descriptionuc.Request{
		BookID:             req.BookID,
		Title:              req.Title,
		Year:               req.Year,
		Author:             req.Author,
		CurrentDescription: req.CurrentDescription,
	})
	if err != nil {
		return Description{}, fmt.Errorf("describe book: %w", err)
	}
	return fromInternalDescription(d, src), nil
}

func toInternalBook(b Book) (book.Book, error) {
	return book.New(b.ID, b.Title, b.Author, b.Publisher, b.PublicationYear,
		b.PhysicalDescription, b.CallNumber)
}

func fromInternalBook(b book.Book) Book {
	return Book{
		ID:                  b.ID(),
		Title:               b.Title(),
		Author:              b.Author(),
		Publisher:           b.Publisher(),
		PublicationYear:     b.PublicationYear(),
		PhysicalDescription: b.PhysicalDescription(),
		CallNumber:          b.CallNumber(),
		Score:               b.Score(),
	}
}

func fromInternalSearch(r searchuc.Result) SearchResult {
	if r.IsStats() {
		return SearchResult{Stats: &CatalogStats{
			TotalBooks:         r.Stats.TotalBooks,
			DistinctAuthors:    r.Stats.DistinctAuthors,
			DistinctPublishers: r.Stats.DistinctPublishers,
			RecentTitles:       r.Stats.RecentTitles,
		}}
	}
	out := make([]Book, len(r.Books))
	for i, b := range r.Books {
		out[i] = fromInternalBook(b)
	}
	return SearchResult{Books: out}
}

func fromInternalDescription(d metadata.BookDescription, src descriptionuc.Source) Description {
	m := d.Metadata
	return Description{
		BookID:     d.BookID,
		Text:       d.Description,
		Source:     string(src),
		Confidence: d.Confidence,
		Metadata: Metadata{
			KeyThemes:         m.KeyThemes,
			GeographicFocus:   m.GeographicFocus,
			HistoricalPeriod:  m.HistoricalPeriod,
			ContentType:       m.ContentType,
			SubjectCategories: m.SubjectCategories,
			TemporalCoverage:  m.TemporalCoverage,
			IsEmpty:           m.IsEmpty,
			AIFailed:          m.AIFailed,
		},
		GeneratedAt: d.GeneratedAt,
	}
}
