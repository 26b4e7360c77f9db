package recovery

import (
	"fmt"

	"github.com/pustaka-digital/pustaka/internal/domain/metadata"
	"github.com/pustaka-digital/pustaka/internal/domain/playlist"
)

// ParsePlaylist recovers playlist metadata from model output. IsPartial is set
// when the JSON had to be closed because the output was cut off. A partial
// record keeps its time period only if it still reads as a year span.
func ParsePlaylist(playlistID, text string) (playlist.Metadata, error) {
	obj, r, err := ParseObject(text)
	if err != nil {
		return playlist.Metadata{}, fmt.Errorf("parse playlist metadata: %w", err)
	}
	m := playlist.FromMap(playlistID, obj)
	if !m.HasContent() {
		return playlist.Metadata{}, errNoContent
	}
	if r.Truncated {
		m.IsPartial = true
		m.TimePeriod = metadata.NormalizePeriod(m.TimePeriod)
	}
	return m, nil
}
