// Package metadata defines structured book metadata and the normalization that
// every generated record passes through before it is stored.
package metadata

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// BookMetadata is the structured description of a book.
// Slice fields are never nil after Normalize; TemporalCoverage is "YYYY-YYYY" or empty.
type BookMetadata struct {
	KeyThemes         []string
	GeographicFocus   []string
	HistoricalPeriod  []string
	ContentType       string
	SubjectCategories []string
	TemporalCoverage  string
	IsEmpty           bool
	AIFailed          bool
}

// Field names accepted from model output. Each field also accepts its camelCase form.
const (
	FieldKeyThemes         = "key_themes"
	FieldGeographicFocus   = "geographic_focus"
	FieldHistoricalPeriod  = "historical_period"
	FieldContentType       = "content_type"
	FieldSubjectCategories = "subject_categories"
	FieldTemporalCoverage  = "temporal_coverage"
)

// ArrayFields lists the fields holding string lists.
var ArrayFields = []string{FieldKeyThemes, FieldGeographicFocus, FieldHistoricalPeriod, FieldSubjectCategories}

// StringFields lists the fields holding a single string.
var StringFields = []string{FieldContentType, FieldTemporalCoverage}

// CamelCase converts a snake_case field name to camelCase.
func CamelCase(field string) string {
	parts := strings.Split(field, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

// Empty returns a placeholder record marking a total generation failure.
func Empty() BookMetadata {
	return BookMetadata{
		KeyThemes:         []string{},
		GeographicFocus:   []string{},
		HistoricalPeriod:  []string{},
		SubjectCategories: []string{},
		IsEmpty:           true,
		AIFailed:          true,
	}
}

// HasContent reports whether any field carries a value.
func (m BookMetadata) HasContent() bool {
	return len(m.KeyThemes) > 0 || len(m.GeographicFocus) > 0 || len(m.HistoricalPeriod) > 0 ||
		len(m.SubjectCategories) > 0 || m.ContentType != "" || m.TemporalCoverage != ""
}

// FromMap builds normalized metadata from a decoded JSON object. Non-list values
// in list fields become empty lists, and falsy string fields become "".
func FromMap(raw map[string]any) BookMetadata {
	return Normalize(BookMetadata{
		KeyThemes:         StringList(lookup(raw, FieldKeyThemes)),
		GeographicFocus:   StringList(lookup(raw, FieldGeographicFocus)),
		HistoricalPeriod:  StringList(lookup(raw, FieldHistoricalPeriod)),
		ContentType:       String(lookup(raw, FieldContentType)),
		SubjectCategories: StringList(lookup(raw, FieldSubjectCategories)),
		TemporalCoverage:  String(lookup(raw, FieldTemporalCoverage)),
	})
}

// Normalize enforces the record invariants and clears the failure flags.
func Normalize(m BookMetadata) BookMetadata {
	return BookMetadata{
		KeyThemes:         cleanList(m.KeyThemes),
		GeographicFocus:   cleanList(m.GeographicFocus),
		HistoricalPeriod:  cleanList(m.HistoricalPeriod),
		ContentType:       strings.TrimSpace(m.ContentType),
		SubjectCategories: cleanList(m.SubjectCategories),
		TemporalCoverage:  NormalizePeriod(m.TemporalCoverage),
	}
}

func lookup(raw map[string]any, field string) any {
	if v, ok := raw[field]; ok {
		return v
	}
	return raw[CamelCase(field)]
}

// StringList coerces a decoded JSON value to a list of non-empty strings.
func StringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		if ss, ok := v.([]string); ok {
			return cleanList(ss)
		}
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s := String(it); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// String coerces a decoded JSON scalar to a trimmed string; nil and false become "".
func String(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case bool:
		if !t {
			return ""
		}
		return "true"
	case float64:
		return strings.TrimSpace(fmt.Sprintf("%g", t))
	default:
		return ""
	}
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Description sources recorded on a BookDescription.
const (
	SourceAIEnhanced = "ai-enhanced"
	SourceAIFailed   = "ai-failed"
)

// Confidence values stored alongside a description.
const (
	AIEnhancedConfidence = 0.85
	AIFailedConfidence   = 0.1
)

// BookDescription is the generated description cached per book.
type BookDescription struct {
	BookID      string
	Description string
	Source      string
	Confidence  float64
	Metadata    BookMetadata
	GeneratedAt time.Time
}

// Reusable reports whether the record is a valid cache hit that makes regeneration unnecessary.
func (d BookDescription) Reusable() bool {
	return d.Source == SourceAIEnhanced && d.Metadata.HasContent()
}

// Subject identifies a book to describe.
type Subject struct {
	Title  string
	Year   string
	Author string
}

var spaceRun = regexp.MustCompile(`\s+`)

// PlaceholderDescription renders the templated description used on total failure.
func PlaceholderDescription(s Subject) string {
	var author, year string
	if a := strings.TrimSpace(s.Author); a != "" {
		author = "oleh " + a
	}
	if y := strings.TrimSpace(s.Year); y != "" {
		year = "(" + y + ")"
	}
	text := fmt.Sprintf("Buku \"%s\" %s %s.", strings.TrimSpace(s.Title), author, year)
	return spaceRun.ReplaceAllString(text, " ")
}
