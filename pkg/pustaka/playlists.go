package pustaka

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	dombatch "github.com/pustaka-digital/pustaka/internal/domain/batch"
	domplaylist "github.com/pustaka-digital/pustaka/internal/domain/playlist"
	playlistuc "github.com/pustaka-digital/pustaka/internal/usecase/playlist"
)

// ImportPlaylists stores playlists, replacing any with the same ID.
func (c *Client) ImportPlaylists(ctx context.Context, playlists []Playlist) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("import_playlists", start, err) }()

	items := make([]domplaylist.Playlist, 0, len(playlists))
	for i, p := range playlists {
		id, name := strings.TrimSpace(p.ID), strings.TrimSpace(p.Name)
		if id == "" || name == "" {
			return fmt.Errorf("import playlists: record %d: %w: id and name are required", i, ErrInvalidRequest)
		}
		items = append(items, domplaylist.Playlist{ID: id, Name: name, Description: p.Description})
	}
	if err = c.playlists.Put(ctx, items); err != nil {
		return fmt.Errorf("import playlists: %w", err)
	}
	return nil
}

// GeneratePlaylists runs metadata generation for the playlists selected by
// req.Mode. A failure on one playlist is reported in its outcome and does not
// stop the run.
func (c *Client) GeneratePlaylists(ctx context.Context, req GenerateRequest) (_ GenerateSummary, err error) {
	start := time.Now()
	defer func() { c.obs.observe("generate_playlists", start, err) }()

	sum, err := c.playlistSvc.Generate(ctx, playlistuc.Request{
		Mode:       playlistuc.Mode(req.Mode),
		PlaylistID: req.PlaylistID,
	})
	if err != nil {
		return GenerateSummary{}, fmt.Errorf("generate playlists: %w", err)
	}
	out := GenerateSummary{
		Message:  sum.Message,
		Outcomes: make([]PlaylistOutcome, len(sum.Results)),
	}
	for i, r := range sum.Results {
		out.Outcomes[i] = fromInternalResult(r)
	}
	return out, nil
}

func fromInternalResult(r dombatch.Result) PlaylistOutcome {
	o := PlaylistOutcome{PlaylistID: r.ID(), PlaylistName: r.Name()}
	if !r.OK() {
		o.Err = r.Err()
		if o.Err == nil {
			o.Err = errors.New("generation failed")
		}
	}
	return o
}
