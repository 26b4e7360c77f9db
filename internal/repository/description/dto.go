package description

import (
	"time"

	"github.com/pustaka-digital/pustaka/internal/domain/metadata"
)

// metadataRow is the JSON form of BookMetadata.
type metadataRow struct {
	KeyThemes         []string `json:"key_themes"`
	GeographicFocus   []string `json:"geographic_focus"`
	HistoricalPeriod  []string `json:"historical_period"`
	ContentType       string   `json:"content_type"`
	SubjectCategories []string `json:"subject_categories"`
	TemporalCoverage  string   `json:"temporal_coverage"`
	IsEmpty           bool     `json:"is_empty"`
	AIFailed          bool     `json:"ai_failed"`
}

// recordRow is the JSON document stored per book.
type recordRow struct {
	BookID      string      `json:"book_id"`
	Description string      `json:"description"`
	Source      string      `json:"source"`
	Confidence  float64     `json:"confidence"`
	Metadata    metadataRow `json:"structured_metadata"`
	GeneratedAt int64       `json:"generated_at"` // unix millis
}

func toRow(d metadata.BookDescription) recordRow {
	m := d.Metadata
	return recordRow{
		BookID:      d.BookID,
		Description: d.Description,
		Source:      d.Source,
		Confidence:  d.Confidence,
		Metadata: metadataRow{
			KeyThemes:         nonNil(m.KeyThemes),
			GeographicFocus:   nonNil(m.GeographicFocus),
			HistoricalPeriod:  nonNil(m.HistoricalPeriod),
			ContentType:       m.ContentType,
			SubjectCategories: nonNil(m.SubjectCategories),
			TemporalCoverage:  m.TemporalCoverage,
			IsEmpty:           m.IsEmpty,
			AIFailed:          m.AIFailed,
		},
		GeneratedAt: d.GeneratedAt.UnixMilli(),
	}
}

func fromRow(r recordRow) metadata.BookDescription {
	return metadata.BookDescription{
		BookID:      r.BookID,
		Description: r.Description,
		Source:      r.Source,
		Confidence:  r.Confidence,
		Metadata: metadata.BookMetadata{
			KeyThemes:         nonNil(r.Metadata.KeyThemes),
			GeographicFocus:   nonNil(r.Metadata.GeographicFocus),
			HistoricalPeriod:  nonNil(r.Metadata.HistoricalPeriod),
			ContentType:       r.Metadata.ContentType,
			SubjectCategories: nonNil(r.Metadata.SubjectCategories),
			TemporalCoverage:  r.Metadata.TemporalCoverage,
			IsEmpty:           r.Metadata.IsEmpty,
			AIFailed:          r.Metadata.AIFailed,
		},
		GeneratedAt: time.UnixMilli(r.GeneratedAt).UTC(),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
