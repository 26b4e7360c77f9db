// Package playlist persists playlists (hashes) and their generated metadata (JSON).
package playlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/pustaka-digital/pustaka/internal/db"
	"github.com/pustaka-digital/pustaka/internal/domain"
	domplaylist "github.com/pustaka-digital/pustaka/internal/domain/playlist"
)

// store is the consumer interface for playlists (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repo implements playlist persistence.
type Repo struct {
	store store
}

// New creates a playlist repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Get returns one playlist.
func (r *Repo) Get(ctx context.Context, id string) (domplaylist.Playlist, error) {
	m, err := r.store.HGetAll(ctx, playlistKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domplaylist.Playlist{}, domain.ErrNotFound
		}
		return domplaylist.Playlist{}, fmt.Errorf("hgetall playlist %s: %w", id, err)
	}
	return playlistFromHash(m), nil
}

// List returns all playlists ordered by id.
func (r *Repo) List(ctx context.Context) ([]domplaylist.Playlist, error) {
	keys, err := r.store.Scan(ctx, playlistKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan playlists: %w", err)
	}
	if len(keys) == 0 {
		return []domplaylist.Playlist{}, nil
	}

	rows, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi playlists: %w", err)
	}

	out := make([]domplaylist.Playlist, 0, len(rows))
	for _, m := range rows {
		if len(m) == 0 || m["id"] == "" {
			continue
		}
		out = append(out, playlistFromHash(m))
	}
	sort.SliceStable(out, func(i, j int) bool { return lessID(out[i].ID, out[j].ID) })
	return out, nil
}

// Put stores playlists in one pipelined round-trip.
func (r *Repo) Put(ctx context.Context, playlists []domplaylist.Playlist) error {
	items := make([]db.HashSetItem, len(playlists))
	for i, p := range playlists {
		items[i] = db.HashSetItem{Key: playlistKey(p.ID), Fields: playlistToHash(p)}
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset playlists: %w", err)
	}
	return nil
}

// GetMetadata returns the generated metadata for a playlist, or domain.ErrNotFound.
func (r *Repo) GetMetadata(ctx context.Context, id string) (domplaylist.Metadata, error) {
	data, err := r.store.Get(ctx, metaKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domplaylist.Metadata{}, domain.ErrNotFound
		}
		return domplaylist.Metadata{}, fmt.Errorf("get playlist metadata %s: %w", id, err)
	}
	var row metadataRow
	if err := json.Unmarshal(data, &row); err != nil {
		return domplaylist.Metadata{}, fmt.Errorf("unmarshal playlist metadata %s: %w", id, err)
	}
	return fromRow(row), nil
}

// HasMetadata reports whether metadata was ever generated for a playlist.
func (r *Repo) HasMetadata(ctx context.Context, id string) (bool, error) {
	ok, err := r.store.Exists(ctx, metaKey(id))
	if err != nil {
		return false, fmt.Errorf("exists playlist metadata %s: %w", id, err)
	}
	return ok, nil
}

// SaveMetadata creates or overwrites the metadata record.
func (r *Repo) SaveMetadata(ctx context.Context, m domplaylist.Metadata) error {
	data, err := json.Marshal(toRow(domplaylist.Clamp(m)))
	if err != nil {
		return fmt.Errorf("marshal playlist metadata %s: %w", m.PlaylistID, err)
	}
	if err := r.store.Set(ctx, metaKey(m.PlaylistID), data); err != nil {
		return fmt.Errorf("set playlist metadata %s: %w", m.PlaylistID, err)
	}
	return nil
}

func lessID(a, b string) bool {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}

// Key patterns: pustaka:playlist:{id}, pustaka:playlist_meta:{id}

func playlistKey(id string) string {
	return fmt.Sprintf("%splaylist:%s", domain.KeyPrefix, id)
}

func metaKey(id string) string {
	return fmt.Sprintf("%splaylist_meta:%s", domain.KeyPrefix, id)
}
