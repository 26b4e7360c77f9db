// Package playlist generates descriptive metadata for curated playlists.
package playlist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pustaka-digital/pustaka/internal/domain"
	dombatch "github.com/pustaka-digital/pustaka/internal/domain/batch"
	domplaylist "github.com/pustaka-digital/pustaka/internal/domain/playlist"
	"github.com/pustaka-digital/pustaka/internal/logger"
	"github.com/pustaka-digital/pustaka/internal/metrics"
	"github.com/pustaka-digital/pustaka/internal/usecase/batch"
	"github.com/pustaka-digital/pustaka/internal/usecase/recovery"
)

// Mode selects which playlists a run covers.
type Mode string

// Modes.
const (
	ModeSingle  Mode = "single"  // one playlist by id
	ModeAll     Mode = "all"     // every playlist
	ModeMissing Mode = "missing" // playlists never generated
	ModeUpgrade Mode = "upgrade" // playlists holding fallback metadata
)

// Request is one generation run.
type Request struct {
	Mode       Mode
	PlaylistID string
}

// Summary reports a run.
type Summary struct {
	Message string
	Results []dombatch.Result
}

// Service implements playlist metadata generation.
type Service struct {
	repo   Repository
	ai     Completer
	runner *batch.Runner
	opts   domain.CompletionOptions
	now    func() time.Time
	logger *zap.Logger
}

// New creates a playlist metadata service.
func New(repo Repository, ai Completer, runner *batch.Runner, opts domain.CompletionOptions, logger *zap.Logger) *Service {
	return &Service{repo: repo, ai: ai, runner: runner, opts: opts, now: time.Now, logger: logger}
}

// Generate selects playlists for the request mode and generates metadata for
// each. Per-playlist failures are reported in the summary, not returned.
func (s *Service) Generate(ctx context.Context, req Request) (Summary, error) {
	targets, err := s.selectTargets(ctx, req)
	if err != nil {
		return Summary{}, err
	}

	items := make([]batch.Item, len(targets))
	byID := make(map[string]domplaylist.Playlist, len(targets))
	for i, p := range targets {
		items[i] = batch.Item{ID: p.ID, Name: p.Name}
		byID[p.ID] = p
	}

	results := s.runner.Run(ctx, items, func(ctx context.Context, it batch.Item) error {
		_, err := s.GenerateOne(ctx, byID[it.ID])
		return err
	})

	ok, failed := dombatch.Summary(results)
	msg := fmt.Sprintf("Metadata dibuat untuk %d dari %d playlist", ok, len(results))
	if failed > 0 {
		msg += fmt.Sprintf(" (%d gagal)", failed)
	}
	return Summary{Message: msg, Results: results}, nil
}

// GenerateOne generates and stores metadata for p. When the model is
// unavailable or its output cannot be recovered, keyword fallback metadata is
// stored instead.
func (s *Service) GenerateOne(ctx context.Context, p domplaylist.Playlist) (domplaylist.Metadata, error) {
	log := logger.FromContext(ctx, s.logger).With(zap.String("playlist_id", p.ID))

	version := 1
	prev, err := s.repo.GetMetadata(ctx, p.ID)
	switch {
	case err == nil:
		version = prev.Version + 1
	case !errors.Is(err, domain.ErrNotFound):
		metrics.MetadataGenerationTotal.WithLabelValues("playlist", "error").Inc()
		return domplaylist.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}

	m, outcome := s.build(ctx, p, log)
	m.PlaylistID = p.ID
	m.Version = version
	m.GeneratedAt = s.now().UTC()

	if err := s.repo.SaveMetadata(ctx, m); err != nil {
		metrics.MetadataGenerationTotal.WithLabelValues("playlist", "error").Inc()
		return domplaylist.Metadata{}, fmt.Errorf("save metadata: %w", err)
	}
	metrics.MetadataGenerationTotal.WithLabelValues("playlist", outcome).Inc()
	log.Info("Playlist metadata stored", zap.String("outcome", outcome), zap.Int("version", version))
	return m, nil
}

func (s *Service) build(ctx context.Context, p domplaylist.Playlist, log *zap.Logger) (domplaylist.Metadata, string) {
	text, ok := s.ai.Complete(ctx, prompt(p), s.opts)
	if !ok {
		log.Debug("Completion unavailable, using keyword fallback")
		return domplaylist.Fallback(p), "fallback"
	}

	m, err := recovery.ParsePlaylist(p.ID, text)
	if err != nil {
		log.Debug("Playlist metadata unrecoverable, using keyword fallback", zap.Error(err))
		return domplaylist.Fallback(p), "fallback"
	}
	if m.IsPartial {
		return m, "partial"
	}
	return m, "generated"
}

func (s *Service) selectTargets(ctx context.Context, req Request) ([]domplaylist.Playlist, error) {
	switch req.Mode {
	case ModeSingle:
		id := strings.TrimSpace(req.PlaylistID)
		if id == "" {
			return nil, fmt.Errorf("%w: playlistId is required", domain.ErrInvalidRequest)
		}
		p, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get playlist %s: %w", id, err)
		}
		return []domplaylist.Playlist{p}, nil
	case ModeAll, ModeMissing, ModeUpgrade:
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMode, req.Mode)
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	if req.Mode == ModeAll {
		return all, nil
	}

	var out []domplaylist.Playlist
	for _, p := range all {
		keep, err := s.wants(ctx, req.Mode, p.ID)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Service) wants(ctx context.Context, mode Mode, id string) (bool, error) {
	if mode == ModeMissing {
		has, err := s.repo.HasMetadata(ctx, id)
		if err != nil {
			return false, fmt.Errorf("check metadata %s: %w", id, err)
		}
		return !has, nil
	}

	m, err := s.repo.GetMetadata(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get metadata %s: %w", id, err)
	}
	return m.IsFallback, nil
}

func prompt(p domplaylist.Playlist) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Playlist perpustakaan: \"%s\"\n", p.Name)
	if d := strings.TrimSpace(p.Description); d != "" {
		fmt.Fprintf(&sb, "Deskripsi: %s\n", d)
	}
	sb.WriteString("\nBalas hanya dengan JSON ringkas seperti contoh:\n")
	sb.WriteString(`{"historical_names": ["Batavia"], "modern_equivalents": ["Jakarta"], ` +
		`"key_themes": ["kolonial", "perdagangan"], "geographical_focus": ["Jawa"], ` +
		`"time_period": "1619-1942", "keywords": ["voc", "pelabuhan"], ` +
		`"accuracy_reasoning": "alasan singkat"}`)
	sb.WriteString("\nMaksimal 3 historical_names, 2 modern_equivalents, 3 key_themes, 2 geographical_focus, 5 keywords.")
	return sb.String()
}
