package playlist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/pustaka-digital/pustaka/internal/domain"
	domplaylist "github.com/pustaka-digital/pustaka/internal/domain/playlist"
	"github.com/pustaka-digital/pustaka/internal/usecase/batch"
)

// --- Mocks ---

type memRepo struct {
	mu        sync.Mutex
	playlists []domplaylist.Playlist
	meta      map[string]domplaylist.Metadata
	saveErr   map[string]error
}

func newMemRepo(ps ...domplaylist.Playlist) *memRepo {
	return &memRepo{playlists: ps, meta: map[string]domplaylist.Metadata{}, saveErr: map[string]error{}}
}

func (m *memRepo) Get(_ context.Context, id string) (domplaylist.Playlist, error) {
	for _, p := range m.playlists {
		if p.ID == id {
			return p, nil
		}
	}
	return domplaylist.Playlist{}, domain.ErrNotFound
}

func (m *memRepo) List(_ context.Context) ([]domplaylist.Playlist, error) {
	return m.playlists, nil
}

func (m *memRepo) GetMetadata(_ context.Context, id string) (domplaylist.Metadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	md, ok := m.meta[id]
	if !ok {
		return domplaylist.Metadata{}, domain.ErrNotFound
	}
	return md, nil
}

func (m *memRepo) HasMetadata(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.meta[id]
	return ok, nil
}

func (m *memRepo) SaveMetadata(_ context.Context, md domplaylist.Metadata) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.saveErr[md.PlaylistID]; err != nil {
		return err
	}
	m.meta[md.PlaylistID] = md
	return nil
}

type mockCompleter struct {
	text    string
	ok      bool
	prompts []string
}

func (m *mockCompleter) Complete(_ context.Context, prompt string, _ domain.CompletionOptions) (string, bool) {
	m.prompts = append(m.prompts, prompt)
	return m.text, m.ok
}

func newService(repo Repository, ai Completer) *Service {
	svc := New(repo, ai, batch.NewRunner(0, zap.NewNop()), domain.CompletionOptions{}, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC) }
	return svc
}

func playlists() []domplaylist.Playlist {
	return []domplaylist.Playlist{
		{ID: "1", Name: "Sejarah Batavia"},
		{ID: "2", Name: "Sastra Kolonial"},
		{ID: "3", Name: "Kuliner Nusantara"},
	}
}

const goodJSON = `{"historical_names": ["Batavia"], "key_themes": ["kolonial"], "keywords": ["voc"], "time_period": "1619-1942"}`

// --- Tests ---

func TestGenerate_AllWithOneFailure(t *testing.T) {
	repo := newMemRepo(playlists()...)
	repo.saveErr["2"] = errors.New("write timeout")
	svc := newService(repo, &mockCompleter{text: goodJSON, ok: true})

	sum, err := svc.Generate(context.Background(), Request{Mode: ModeAll})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(sum.Results) != 3 {
		t.Fatalf("results = %d, want 3", len(sum.Results))
	}
	failed := 0
	for _, r := range sum.Results {
		if !r.OK() {
			failed++
			if r.ID() != "2" || r.Name() != "Sastra Kolonial" {
				t.Errorf("unexpected failure for %s", r.ID())
			}
		}
	}
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
	if _, ok := repo.meta["3"]; !ok {
		t.Error("processing must continue after a failure")
	}
	if sum.Message == "" {
		t.Error("expected a summary message")
	}
}

func TestGenerateOne_Versioning(t *testing.T) {
	repo := newMemRepo(playlists()...)
	svc := newService(repo, &mockCompleter{text: goodJSON, ok: true})
	p := playlists()[0]

	first, err := svc.GenerateOne(context.Background(), p)
	if err != nil {
		t.Fatalf("GenerateOne: %v", err)
	}
	second, err := svc.GenerateOne(context.Background(), p)
	if err != nil {
		t.Fatalf("GenerateOne: %v", err)
	}
	if first.Version != 1 || second.Version != 2 {
		t.Errorf("versions = %d, %d, want 1, 2", first.Version, second.Version)
	}
	if first.IsFallback || first.IsPartial {
		t.Errorf("flags = fallback %v partial %v", first.IsFallback, first.IsPartial)
	}
	if !second.GeneratedAt.Equal(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("GeneratedAt = %v", second.GeneratedAt)
	}
}

func TestGenerateOne_FallbackWhenUnavailable(t *testing.T) {
	repo := newMemRepo(playlists()...)
	svc := newService(repo, &mockCompleter{})

	m, err := svc.GenerateOne(context.Background(), playlists()[0])
	if err != nil {
		t.Fatalf("GenerateOne: %v", err)
	}
	if !m.IsFallback {
		t.Fatal("expected fallback metadata")
	}
	if len(m.KeyThemes) == 0 || m.KeyThemes[0] != "sejarah" {
		t.Errorf("KeyThemes = %v", m.KeyThemes)
	}
	if m.PlaylistID != "1" || m.Version != 1 {
		t.Errorf("record = %+v", m)
	}
}

func TestGenerateOne_FallbackWhenUnparseable(t *testing.T) {
	svc := newService(newMemRepo(playlists()...), &mockCompleter{text: "Maaf, saya tidak bisa.", ok: true})

	m, err := svc.GenerateOne(context.Background(), playlists()[1])
	if err != nil {
		t.Fatalf("GenerateOne: %v", err)
	}
	if !m.IsFallback {
		t.Error("expected fallback metadata")
	}
}

func TestGenerateOne_Partial(t *testing.T) {
	svc := newService(newMemRepo(playlists()...), &mockCompleter{text: `{"key_themes": ["kolonial", "sastra"`, ok: true})

	m, err := svc.GenerateOne(context.Background(), playlists()[1])
	if err != nil {
		t.Fatalf("GenerateOne: %v", err)
	}
	if !m.IsPartial || m.IsFallback {
		t.Errorf("flags = partial %v fallback %v", m.IsPartial, m.IsFallback)
	}
}

func TestGenerate_Missing(t *testing.T) {
	repo := newMemRepo(playlists()...)
	repo.meta["1"] = domplaylist.Metadata{PlaylistID: "1", Version: 1}
	ai := &mockCompleter{text: goodJSON, ok: true}
	svc := newService(repo, ai)

	sum, err := svc.Generate(context.Background(), Request{Mode: ModeMissing})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(sum.Results) != 2 || sum.Results[0].ID() != "2" || sum.Results[1].ID() != "3" {
		t.Errorf("results = %v", sum.Results)
	}
}

func TestGenerate_Upgrade(t *testing.T) {
	repo := newMemRepo(playlists()...)
	repo.meta["1"] = domplaylist.Metadata{PlaylistID: "1", Version: 1}
	repo.meta["3"] = domplaylist.Metadata{PlaylistID: "3", Version: 2, IsFallback: true}
	svc := newService(repo, &mockCompleter{text: goodJSON, ok: true})

	sum, err := svc.Generate(context.Background(), Request{Mode: ModeUpgrade})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(sum.Results) != 1 || sum.Results[0].ID() != "3" {
		t.Fatalf("results = %v", sum.Results)
	}
	if got := repo.meta["3"]; got.IsFallback || got.Version != 3 {
		t.Errorf("upgraded record = %+v", got)
	}
}

func TestGenerate_Single(t *testing.T) {
	svc := newService(newMemRepo(playlists()...), &mockCompleter{text: goodJSON, ok: true})

	sum, err := svc.Generate(context.Background(), Request{Mode: ModeSingle, PlaylistID: "2"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(sum.Results) != 1 || !sum.Results[0].OK() {
		t.Fatalf("results = %v", sum.Results)
	}
}

func TestGenerate_RequestErrors(t *testing.T) {
	svc := newService(newMemRepo(playlists()...), &mockCompleter{})

	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"unknown mode", Request{Mode: "everything"}, domain.ErrUnknownMode},
		{"single without id", Request{Mode: ModeSingle}, domain.ErrInvalidRequest},
		{"single unknown id", Request{Mode: ModeSingle, PlaylistID: "99"}, domain.ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Generate(context.Background(), tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
