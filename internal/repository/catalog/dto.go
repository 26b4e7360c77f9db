package catalog

import (
	"github.com/pustaka-digital/pustaka/internal/domain/book"
)

// Hash field names of a catalog record.
const (
	fieldID                  = "id"
	fieldTitle               = "title"
	fieldAuthor              = "author"
	fieldPublisher           = "publisher"
	fieldPublicationYear     = "publication_year"
	fieldPhysicalDescription = "physical_description"
	fieldCallNumber          = "call_number"
)

// bookToHash converts a domain Book to a map for HSET. Empty optional fields are omitted.
func bookToHash(b book.Book) map[string]string {
	m := map[string]string{
		fieldID:    b.ID(),
		fieldTitle: b.Title(),
	}
	put := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	put(fieldAuthor, b.Author())
	put(fieldPublisher, b.Publisher())
	put(fieldPublicationYear, b.PublicationYear())
	put(fieldPhysicalDescription, b.PhysicalDescription())
	put(fieldCallNumber, b.CallNumber())
	return m
}

// bookFromHash hydrates a Book from an HGETALL result.
func bookFromHash(m map[string]string) book.Book {
	return book.Reconstruct(
		m[fieldID],
		m[fieldTitle],
		m[fieldAuthor],
		m[fieldPublisher],
		m[fieldPublicationYear],
		m[fieldPhysicalDescription],
		m[fieldCallNumber],
	)
}
