package pustaka

import "time"

// Book is a catalog record.
type Book struct {
	ID                  string
	Title               string
	Author              string
	Publisher           string
	PublicationYear     string
	PhysicalDescription string
	CallNumber          string
	Score               int // relevance score; set on search results only
}

// CatalogStats summarizes the catalog. Returned by SearchBooks for queries too
// short to search.
type CatalogStats struct {
	TotalBooks         int
	DistinctAuthors    int
	DistinctPublishers int
	RecentTitles       []string
}

// SearchResult is either a ranked book list or catalog stats.
type SearchResult struct {
	Books []Book
	Stats *CatalogStats
}

// Turn is one earlier chat message.
type Turn struct {
	Text   string
	Sender string // "user" or "bot"
}

// Reply is a chat answer.
type Reply struct {
	Text       string
	Type       string // book_search, book_detail, ai_generated, rule_based, error
	Confidence float64
}

// DescribeRequest identifies a book to describe. Title, Year and Author are
// looked up in the catalog when Title is empty.
type DescribeRequest struct {
	BookID             string
	Title              string
	Year               string
	Author             string
	CurrentDescription string
}

// Metadata is structured book metadata.
type Metadata struct {
	KeyThemes         []string
	GeographicFocus   []string
	HistoricalPeriod  []string
	ContentType       string
	SubjectCategories []string
	TemporalCoverage  string
	IsEmpty           bool
	AIFailed          bool
}

// Description is a generated book description.
type Description struct {
	BookID      string
	Text        string
	Source      string // database-cache-full, ai-generated-full or ai-failed-empty
	Confidence  float64
	Metadata    Metadata
	GeneratedAt time.Time
}

// Playlist is a curated reading list.
type Playlist struct {
	ID          string
	Name        string
	Description string
}

// GenerateMode selects which playlists a generation run covers.
type GenerateMode string

// Generation modes.
const (
	ModeSingle  GenerateMode = "single"
	ModeAll     GenerateMode = "all"
	ModeMissing GenerateMode = "missing"
	ModeUpgrade GenerateMode = "upgrade"
)

// GenerateRequest is one playlist generation run. PlaylistID is used by ModeSingle.
type GenerateRequest struct {
	Mode       GenerateMode
	PlaylistID string
}

// PlaylistOutcome is the result for one playlist of a run.
type PlaylistOutcome struct {
	PlaylistID   string
	PlaylistName string
	Err          error
}

// OK reports whether the playlist was processed.
func (o PlaylistOutcome) OK() bool { return o.Err == nil }

// GenerateSummary reports a generation run.
type GenerateSummary struct {
	Message  string
	Outcomes []PlaylistOutcome
}
