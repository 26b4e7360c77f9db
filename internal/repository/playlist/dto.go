package playlist

import (
	"time"

	domplaylist "github.com/pustaka-digital/pustaka/internal/domain/playlist"
)

// metadataRow is the JSON document stored per playlist.
type metadataRow struct {
	PlaylistID        string   `json:"playlist_id"`
	HistoricalNames   []string `json:"historical_names"`
	ModernEquivalents []string `json:"modern_equivalents"`
	KeyThemes         []string `json:"key_themes"`
	GeographicalFocus []string `json:"geographical_focus"`
	TimePeriod        string   `json:"time_period"`
	Keywords          []string `json:"keywords"`
	AccuracyReasoning string   `json:"accuracy_reasoning"`
	GeneratedAt       int64    `json:"generated_at"` // unix millis
	Version           int      `json:"version"`
	IsFallback        bool     `json:"is_fallback,omitempty"`
	IsPartial         bool     `json:"is_partial,omitempty"`
}

func toRow(m domplaylist.Metadata) metadataRow {
	return metadataRow{
		PlaylistID:        m.PlaylistID,
		HistoricalNames:   m.HistoricalNames,
		ModernEquivalents: m.ModernEquivalents,
		KeyThemes:         m.KeyThemes,
		GeographicalFocus: m.GeographicalFocus,
		TimePeriod:        m.TimePeriod,
		Keywords:          m.Keywords,
		AccuracyReasoning: m.AccuracyReasoning,
		GeneratedAt:       m.GeneratedAt.UnixMilli(),
		Version:           m.Version,
		IsFallback:        m.IsFallback,
		IsPartial:         m.IsPartial,
	}
}

func fromRow(r metadataRow) domplaylist.Metadata {
	return domplaylist.Clamp(domplaylist.Metadata{
		PlaylistID:        r.PlaylistID,
		HistoricalNames:   r.HistoricalNames,
		ModernEquivalents: r.ModernEquivalents,
		KeyThemes:         r.KeyThemes,
		GeographicalFocus: r.GeographicalFocus,
		TimePeriod:        r.TimePeriod,
		Keywords:          r.Keywords,
		AccuracyReasoning: r.AccuracyReasoning,
		GeneratedAt:       time.UnixMilli(r.GeneratedAt).UTC(),
		Version:           r.Version,
		IsFallback:        r.IsFallback,
		IsPartial:         r.IsPartial,
	})
}

func playlistToHash(p domplaylist.Playlist) map[string]string {
	return map[string]string{"id": p.ID, "name": p.Name, "description": p.Description}
}

func playlistFromHash(m map[string]string) domplaylist.Playlist {
	return domplaylist.Playlist{ID: m["id"], Name: m["name"], Description: m["description"]}
}
