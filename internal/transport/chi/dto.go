package chi

import (
	"time"

	dombatch "github.com/pustaka-digital/pustaka/internal/domain/batch"
	"github.com/pustaka-digital/pustaka/internal/domain/book"
	domchat "github.com/pustaka-digital/pustaka/internal/domain/chat"
	"github.com/pustaka-digital/pustaka/internal/domain/metadata"
	domusage "github.com/pustaka-digital/pustaka/internal/domain/usage"
)

// Error codes returned in errorResponse.Code.
const (
	codeBadRequest       = "bad_request"
	codeUnauthorized     = "unauthorized"
	codeNotFound         = "not_found"
	codeMethodNotAllowed = "method_not_allowed"
	codeRateLimited      = "rate_limited"
	codeProviderError    = "provider_error"
	codeInternalError    = "internal_error"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type chatTurn struct {
	Text   string `json:"text"`
	Sender string `json:"sender,omitempty"`
}

type chatRequest struct {
	Message     string     `json:"message"`
	ChatHistory []chatTurn `json:"chatHistory"`
}

type chatReply struct {
	Text       string  `json:"text"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

type bookItem struct {
	ID                  string `json:"id"`
	Title               string `json:"title"`
	Author              string `json:"author,omitempty"`
	Publisher           string `json:"publisher,omitempty"`
	PublicationYear     string `json:"publicationYear,omitempty"`
	PhysicalDescription string `json:"physicalDescription,omitempty"`
	CallNumber          string `json:"callNumber,omitempty"`
	Score               int    `json:"score"`
}

type catalogStats struct {
	TotalBooks         int      `json:"totalBooks"`
	DistinctAuthors    int      `json:"distinctAuthors"`
	DistinctPublishers int      `json:"distinctPublishers"`
	RecentTitles       []string `json:"recentTitles"`
}

type searchResponse struct {
	Query   string        `json:"query"`
	Results []bookItem    `json:"results,omitempty"`
	Total   int           `json:"total"`
	Stats   *catalogStats `json:"stats,omitempty"`
}

type descriptionRequest struct {
	BookID             string `json:"bookId"`
	BookTitle          string `json:"bookTitle"`
	BookYear           string `json:"bookYear"`
	BookAuthor         string `json:"bookAuthor"`
	CurrentDescription string `json:"currentDescription"`
}

type structuredMetadata struct {
	KeyThemes         []string `json:"keyThemes"`
	GeographicFocus   []string `json:"geographicFocus"`
	HistoricalPeriod  []string `json:"historicalPeriod"`
	ContentType       string   `json:"contentType"`
	SubjectCategories []string `json:"subjectCategories"`
	TemporalCoverage  string   `json:"temporalCoverage"`
	IsEmpty           bool     `json:"isEmpty"`
	AIFailed          bool     `json:"aiFailed"`
}

type descriptionRecord struct {
	BookID             string             `json:"bookId"`
	Description        string             `json:"description"`
	Source             string             `json:"source"`
	Confidence         float64            `json:"confidence"`
	StructuredMetadata structuredMetadata `json:"structuredMetadata"`
	GeneratedAt        time.Time          `json:"generatedAt"`
}

type descriptionResponse struct {
	Success bool              `json:"success"`
	Data    descriptionRecord `json:"data"`
	Source  string            `json:"source"`
}

type playlistRequest struct {
	PlaylistID   string `json:"playlistId"`
	GenerateAll  bool   `json:"generateAll"`
	FillMissing  bool   `json:"fillMissing"`
	UpgradeBasic bool   `json:"upgradeBasic"`
}

type playlistOutcome struct {
	PlaylistID   string `json:"playlistId"`
	PlaylistName string `json:"playlistName,omitempty"`
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
}

type playlistResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    []playlistOutcome `json:"data"`
}

type usageResponse struct {
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	Limit        int64     `json:"limit"`
	Used         int64     `json:"used"`
	Remaining    int64     `json:"remaining"`
	Exhausted    bool      `json:"exhausted"`
	WindowStart  time.Time `json:"windowStart"`
	WindowEnd    time.Time `json:"windowEnd"`
	CacheEntries int       `json:"cacheEntries"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func turnsFromRequest(in []chatTurn) []domchat.Turn {
	out := make([]domchat.Turn, 0, len(in))
	for _, t := range in {
		out = append(out, domchat.Turn{Text: t.Text, Sender: t.Sender})
	}
	return out
}

func chatReplyFromDomain(r domchat.Response) chatReply {
	return chatReply{Text: r.Text, Type: string(r.Type), Confidence: r.Confidence}
}

func bookToItem(b book.Book) bookItem {
	return bookItem{
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

func statsFromDomain(s *book.Stats) *catalogStats {
	titles := s.RecentTitles
	if titles == nil {
		titles = []string{}
	}
	return &catalogStats{
		TotalBooks:         s.TotalBooks,
		DistinctAuthors:    s.DistinctAuthors,
		DistinctPublishers: s.DistinctPublishers,
		RecentTitles:       titles,
	}
}

func descriptionFromDomain(d metadata.BookDescription) descriptionRecord {
	m := d.Metadata
	return descriptionRecord{
		BookID:      d.BookID,
		Description: d.Description,
		Source:      d.Source,
		Confidence:  d.Confidence,
		StructuredMetadata: structuredMetadata{
			KeyThemes:         orEmpty(m.KeyThemes),
			GeographicFocus:   orEmpty(m.GeographicFocus),
			HistoricalPeriod:  orEmpty(m.HistoricalPeriod),
			ContentType:       m.ContentType,
			SubjectCategories: orEmpty(m.SubjectCategories),
			TemporalCoverage:  m.TemporalCoverage,
			IsEmpty:           m.IsEmpty,
			AIFailed:          m.AIFailed,
		},
		GeneratedAt: d.GeneratedAt,
	}
}

func playlistOutcomeFromResult(r dombatch.Result) playlistOutcome {
	o := playlistOutcome{PlaylistID: r.ID(), PlaylistName: r.Name(), Success: r.OK()}
	if r.Err() != nil {
		o.Error = safeDomainMessage(r.Err())
	}
	return o
}

func usageFromDomain(r domusage.Report) usageResponse {
	return usageResponse{
		Provider:     r.Provider(),
		Model:        r.Model(),
		Limit:        r.Limit(),
		Used:         r.Used(),
		Remaining:    r.Remaining(),
		Exhausted:    r.Exhausted(),
		WindowStart:  time.UnixMilli(r.WindowStart()).UTC(),
		WindowEnd:    time.UnixMilli(r.WindowEnd()).UTC(),
		CacheEntries: r.CacheEntries(),
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
