// Package playlist models curated reading playlists and their generated metadata.
package playlist

import (
	"strings"
	"time"

	"github.com/pustaka-digital/pustaka/internal/domain/metadata"
)

// Playlist is a curated list of catalog records.
type Playlist struct {
	ID          string
	Name        string
	Description string
}

// Per-field caps on generated metadata.
const (
	MaxHistoricalNames   = 3
	MaxModernEquivalents = 2
	MaxKeyThemes         = 3
	MaxGeographicalFocus = 2
	MaxKeywords          = 5
)

// Metadata is the generated descriptive record for a playlist.
type Metadata struct {
	PlaylistID        string
	HistoricalNames   []string
	ModernEquivalents []string
	KeyThemes         []string
	GeographicalFocus []string
	TimePeriod        string
	Keywords          []string
	AccuracyReasoning string
	GeneratedAt       time.Time
	Version           int
	IsFallback        bool
	IsPartial         bool
}

// FromMap builds capped metadata from a decoded JSON object.
// Both snake_case and camelCase keys are accepted.
func FromMap(playlistID string, raw map[string]any) Metadata {
	get := func(field string) any {
		if v, ok := raw[field]; ok {
			return v
		}
		return raw[metadata.CamelCase(field)]
	}
	return Clamp(Metadata{
		PlaylistID:        playlistID,
		HistoricalNames:   metadata.StringList(get("historical_names")),
		ModernEquivalents: metadata.StringList(get("modern_equivalents")),
		KeyThemes:         metadata.StringList(get("key_themes")),
		GeographicalFocus: metadata.StringList(get("geographical_focus")),
		TimePeriod:        metadata.String(get("time_period")),
		Keywords:          metadata.StringList(get("keywords")),
		AccuracyReasoning: metadata.String(get("accuracy_reasoning")),
	})
}

// Clamp applies the per-field caps and replaces nil lists with empty ones.
func Clamp(m Metadata) Metadata {
	m.HistoricalNames = capList(m.HistoricalNames, MaxHistoricalNames)
	m.ModernEquivalents = capList(m.ModernEquivalents, MaxModernEquivalents)
	m.KeyThemes = capList(m.KeyThemes, MaxKeyThemes)
	m.GeographicalFocus = capList(m.GeographicalFocus, MaxGeographicalFocus)
	m.Keywords = capList(m.Keywords, MaxKeywords)
	return m
}

// HasContent reports whether the record carries any themes or keywords.
func (m Metadata) HasContent() bool {
	return len(m.KeyThemes) > 0 || len(m.Keywords) > 0 || len(m.HistoricalNames) > 0
}

func capList(in []string, n int) []string {
	if in == nil {
		return []string{}
	}
	if len(in) > n {
		return in[:n:n]
	}
	return in
}

// topicTable drives the keyword fallback: a playlist name containing the key
// receives the listed themes.
var topicTable = []struct {
	match  string
	themes []string
}{
	{"sejarah", []string{"sejarah", "historis", "masa lalu"}},
	{"kolonial", []string{"kolonialisme", "hindia belanda", "voc"}},
	{"budaya", []string{"budaya", "tradisi", "adat istiadat"}},
	{"sastra", []string{"sastra", "novel", "puisi"}},
	{"kuliner", []string{"kuliner", "makanan tradisional", "resep"}},
	{"agama", []string{"agama", "spiritualitas", "keagamaan"}},
	{"islam", []string{"islam", "keagamaan", "pesantren"}},
	{"perang", []string{"perang", "militer", "perjuangan"}},
	{"kemerdekaan", []string{"kemerdekaan", "revolusi", "perjuangan"}},
	{"batavia", []string{"batavia", "jakarta", "kota kolonial"}},
	{"jawa", []string{"jawa", "kerajaan jawa", "budaya jawa"}},
	{"anak", []string{"bacaan anak", "pendidikan", "cerita"}},
	{"arsitektur", []string{"arsitektur", "bangunan bersejarah", "tata kota"}},
}

// Fallback derives metadata from the playlist name alone. The result is marked
// IsFallback so a later run can upgrade it.
func Fallback(p Playlist) Metadata {
	name := strings.ToLower(p.Name)
	var themes []string
	seen := make(map[string]bool)
	for _, t := range topicTable {
		if !strings.Contains(name, t.match) {
			continue
		}
		for _, th := range t.themes {
			if !seen[th] {
				seen[th] = true
				themes = append(themes, th)
			}
		}
	}
	if len(themes) == 0 {
		if n := strings.TrimSpace(name); n != "" {
			themes = []string{n}
		}
	}

	return Clamp(Metadata{
		PlaylistID:        p.ID,
		KeyThemes:         themes,
		Keywords:          themes,
		AccuracyReasoning: "Dibuat otomatis dari nama playlist karena layanan AI tidak tersedia.",
		IsFallback:        true,
	})
}
