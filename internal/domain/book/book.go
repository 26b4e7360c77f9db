package book

import (
	"fmt"
	"strings"
)

// Book is a catalog record (immutable value object).
// The catalog is owned by the store; this service only reads it.
type Book struct {
	id                  string
	title               string
	author              string
	publisher           string
	publicationYear     string
	physicalDescription string
	callNumber          string
	score               int
}

// New validates and creates a Book.
func New(id, title, author, publisher, year, physicalDescription, callNumber string) (Book, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Book{}, fmt.Errorf("book ID is required")
	}
	if strings.ContainsAny(id, ":*?[] ") {
		return Book{}, fmt.Errorf("book ID %q contains reserved characters", id)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return Book{}, fmt.Errorf("book title is required")
	}
	return Reconstruct(id, title, author, publisher, year, physicalDescription, callNumber), nil
}

// Reconstruct creates a Book without validation (storage hydration).
func Reconstruct(id, title, author, publisher, year, physicalDescription, callNumber string) Book {
	return Book{
		id:                  id,
		title:               title,
		author:              strings.TrimSpace(author),
		publisher:           strings.TrimSpace(publisher),
		publicationYear:     strings.TrimSpace(year),
		physicalDescription: strings.TrimSpace(physicalDescription),
		callNumber:          strings.TrimSpace(callNumber),
	}
}

// ID returns the book identifier.
func (b Book) ID() string { return b.id }

// Title returns the book title.
func (b Book) Title() string { return b.title }

// Author returns the author, possibly empty.
func (b Book) Author() string { return b.author }

// Publisher returns the publisher, possibly empty.
func (b Book) Publisher() string { return b.publisher }

// PublicationYear returns the publication year as catalogued, possibly empty.
func (b Book) PublicationYear() string { return b.publicationYear }

// PhysicalDescription returns the physical description, possibly empty.
func (b Book) PhysicalDescription() string { return b.physicalDescription }

// CallNumber returns the shelf call number, possibly empty.
func (b Book) CallNumber() string { return b.callNumber }

// HasPhysicalDescription reports whether a physical description is catalogued.
func (b Book) HasPhysicalDescription() bool { return b.physicalDescription != "" }

// HasCallNumber reports whether a call number is catalogued.
func (b Book) HasCallNumber() bool { return b.callNumber != "" }

// Score returns the relevance score attached by WithScore (0 when unscored).
func (b Book) Score() int { return b.score }

// WithScore returns a copy of b carrying a relevance score.
func (b Book) WithScore(score int) Book {
	b.score = score
	return b
}

// Stats summarizes the catalog; returned instead of results for too-short queries.
type Stats struct {
	TotalBooks         int
	DistinctAuthors    int
	DistinctPublishers int
	RecentTitles       []string
}
