package description

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/pustaka-digital/pustaka/internal/domain"
	"github.com/pustaka-digital/pustaka/internal/domain/book"
	"github.com/pustaka-digital/pustaka/internal/domain/metadata"
	"github.com/pustaka-digital/pustaka/internal/usecase/recovery"
)

// --- Mocks ---

type mockRepo struct {
	getFn  func(ctx context.Context, bookID string) (metadata.BookDescription, error)
	saveFn func(ctx context.Context, d metadata.BookDescription) error
	saved  []metadata.BookDescription
}

func (m *mockRepo) Get(ctx context.Context, bookID string) (metadata.BookDescription, error) {
	if m.getFn != nil {
		return m.getFn(ctx, bookID)
	}
	return metadata.BookDescription{}, domain.ErrNotFound
}

func (m *mockRepo) Save(ctx context.Context, d metadata.BookDescription) error {
	m.saved = append(m.saved, d)
	if m.saveFn != nil {
		return m.saveFn(ctx, d)
	}
	return nil
}

type mockBooks struct {
	getFn func(ctx context.Context, id string) (book.Book, error)
}

func (m *mockBooks) Get(ctx context.Context, id string) (book.Book, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return book.Book{}, domain.ErrNotFound
}

type mockGenerator struct {
	out      recovery.Output
	subjects []metadata.Subject
	current  []string
}

func (m *mockGenerator) Generate(_ context.Context, s metadata.Subject, current string) recovery.Output {
	m.subjects = append(m.subjects, s)
	m.current = append(m.current, current)
	return m.out
}

func generated() recovery.Output {
	return recovery.Output{
		Description: "Deskripsi baru.",
		Metadata: metadata.Normalize(metadata.BookMetadata{
			KeyThemes: []string{"kolonial"}, ContentType: "sejarah",
		}),
		Strategy: recovery.StrategyTwoStep,
	}
}

func newService(repo *mockRepo, books *mockBooks, gen *mockGenerator) *Service {
	svc := New(repo, books, gen, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC) }
	return svc
}

// --- Tests ---

func TestDescribe_MissingBookID(t *testing.T) {
	svc := newService(&mockRepo{}, &mockBooks{}, &mockGenerator{})

	_, _, err := svc.Describe(context.Background(), Request{Title: "X"})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestDescribe_CacheHit(t *testing.T) {
	cached := metadata.BookDescription{
		BookID:   "12",
		Source:   metadata.SourceAIEnhanced,
		Metadata: metadata.Normalize(metadata.BookMetadata{KeyThemes: []string{"x"}}),
	}
	repo := &mockRepo{getFn: func(context.Context, string) (metadata.BookDescription, error) {
		return cached, nil
	}}
	gen := &mockGenerator{}
	svc := newService(repo, &mockBooks{}, gen)

	d, src, err := svc.Describe(context.Background(), Request{BookID: "12", Title: "X"})
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if src != SourceCache || d.BookID != "12" {
		t.Errorf("got %s/%s, want cache hit", src, d.BookID)
	}
	if len(gen.subjects) != 0 || len(repo.saved) != 0 {
		t.Error("cache hit must not regenerate or save")
	}
}

func TestDescribe_FailedCacheIsRegenerated(t *testing.T) {
	repo := &mockRepo{getFn: func(context.Context, string) (metadata.BookDescription, error) {
		return metadata.BookDescription{BookID: "12", Source: metadata.SourceAIFailed, Metadata: metadata.Empty()}, nil
	}}
	gen := &mockGenerator{out: generated()}
	svc := newService(repo, &mockBooks{}, gen)

	_, src, err := svc.Describe(context.Background(), Request{BookID: "12", Title: "X"})
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if src != SourceGenerated {
		t.Errorf("source = %s, want %s", src, SourceGenerated)
	}
	if len(gen.subjects) != 1 {
		t.Errorf("generator calls = %d, want 1", len(gen.subjects))
	}
}

func TestDescribe_GeneratesAndSaves(t *testing.T) {
	repo := &mockRepo{}
	gen := &mockGenerator{out: generated()}
	svc := newService(repo, &mockBooks{}, gen)

	d, src, err := svc.Describe(context.Background(), Request{
		BookID: "12", Title: " Judul X ", Year: "1998", CurrentDescription: "lama",
	})
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if src != SourceGenerated {
		t.Errorf("source = %s", src)
	}
	if d.Source != metadata.SourceAIEnhanced || d.Confidence != metadata.AIEnhancedConfidence {
		t.Errorf("record = %s/%v", d.Source, d.Confidence)
	}
	if !d.GeneratedAt.Equal(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("GeneratedAt = %v", d.GeneratedAt)
	}
	if len(repo.saved) != 1 || repo.saved[0].Description != "Deskripsi baru." {
		t.Fatalf("saved = %+v", repo.saved)
	}
	if gen.subjects[0] != (metadata.Subject{Title: "Judul X", Year: "1998"}) {
		t.Errorf("subject = %+v", gen.subjects[0])
	}
	if gen.current[0] != "lama" {
		t.Errorf("current description = %q", gen.current[0])
	}
}

func TestDescribe_PlaceholderSavedWithLowConfidence(t *testing.T) {
	repo := &mockRepo{}
	gen := &mockGenerator{out: recovery.Output{
		Description: `Buku "Judul X" .`,
		Metadata:    metadata.Empty(),
		Strategy:    recovery.StrategyPlaceholder,
	}}
	svc := newService(repo, &mockBooks{}, gen)

	d, src, err := svc.Describe(context.Background(), Request{BookID: "12", Title: "Judul X"})
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if src != SourceFailed {
		t.Errorf("source = %s, want %s", src, SourceFailed)
	}
	if d.Source != metadata.SourceAIFailed || d.Confidence != metadata.AIFailedConfidence {
		t.Errorf("record = %s/%v", d.Source, d.Confidence)
	}
	if len(repo.saved) != 1 {
		t.Error("placeholder must be persisted")
	}
}

func TestDescribe_TitleFromCatalog(t *testing.T) {
	books := &mockBooks{getFn: func(_ context.Context, id string) (book.Book, error) {
		return book.Reconstruct(id, "Max Havelaar", "Multatuli", "Djambatan", "1860", "", ""), nil
	}}
	gen := &mockGenerator{out: generated()}
	svc := newService(&mockRepo{}, books, gen)

	if _, _, err := svc.Describe(context.Background(), Request{BookID: "5"}); err != nil {
		t.Fatalf("Describe: %v", err)
	}
	want := metadata.Subject{Title: "Max Havelaar", Year: "1860", Author: "Multatuli"}
	if gen.subjects[0] != want {
		t.Errorf("subject = %+v, want %+v", gen.subjects[0], want)
	}
}

func TestDescribe_UnknownBookWithoutTitle(t *testing.T) {
	svc := newService(&mockRepo{}, &mockBooks{}, &mockGenerator{})

	_, _, err := svc.Describe(context.Background(), Request{BookID: "404"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDescribe_StoreErrors(t *testing.T) {
	storeErr := errors.New("connection reset")

	t.Run("get", func(t *testing.T) {
		repo := &mockRepo{getFn: func(context.Context, string) (metadata.BookDescription, error) {
			return metadata.BookDescription{}, storeErr
		}}
		svc := newService(repo, &mockBooks{}, &mockGenerator{out: generated()})

		if _, _, err := svc.Describe(context.Background(), Request{BookID: "1", Title: "X"}); !errors.Is(err, storeErr) {
			t.Fatalf("expected store error, got %v", err)
		}
	})

	t.Run("save", func(t *testing.T) {
		repo := &mockRepo{saveFn: func(context.Context, metadata.BookDescription) error { return storeErr }}
		svc := newService(repo, &mockBooks{}, &mockGenerator{out: generated()})

		if _, _, err := svc.Describe(context.Background(), Request{BookID: "1", Title: "X"}); !errors.Is(err, storeErr) {
			t.Fatalf("expected store error, got %v", err)
		}
	})
}
