package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/pustaka-digital/pustaka/internal/domain"
	"github.com/pustaka-digital/pustaka/internal/domain/book"
	domchat "github.com/pustaka-digital/pustaka/internal/domain/chat"
	"github.com/pustaka-digital/pustaka/internal/domain/intent"
	"github.com/pustaka-digital/pustaka/internal/metrics"
	"github.com/pustaka-digital/pustaka/internal/repository/catalog"
	"github.com/pustaka-digital/pustaka/internal/usecase/search"
)

// --- Mocks ---

type mockSearcher struct {
	searchFn func(ctx context.Context, term string) search.Result
	terms    []string
}

func (m *mockSearcher) Search(ctx context.Context, term string) search.Result {
	m.terms = append(m.terms, term)
	if m.searchFn != nil {
		return m.searchFn(ctx, term)
	}
	return search.Result{Books: []book.Book{}}
}

type mockCatalog struct {
	containsFn func(ctx context.Context, term string, fields catalog.Field, limit int) ([]book.Book, error)
	statsFn    func(ctx context.Context) (book.Stats, error)
}

func (m *mockCatalog) Contains(ctx context.Context, term string, fields catalog.Field, limit int) ([]book.Book, error) {
	if m.containsFn != nil {
		return m.containsFn(ctx, term, fields, limit)
	}
	return nil, nil
}

func (m *mockCatalog) Stats(ctx context.Context) (book.Stats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return book.Stats{}, nil
}

type mockCompleter struct {
	mu      sync.Mutex
	text    string
	ok      bool
	prompts []string
}

func (m *mockCompleter) Complete(_ context.Context, prompt string, _ domain.CompletionOptions) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	return m.text, m.ok
}

func testConfig() Config {
	return Config{LibraryName: "Perpustakaan Uji", ContactWhatsApp: "0812-0000-0000"}
}

func sejarahBook() book.Book {
	return book.Reconstruct("17", "Sejarah Indonesia Modern", "M.C. Ricklefs", "Serambi", "2008", "", "959.8 RIC s")
}

// --- Tests ---

func TestRespond_ExplicitSearch(t *testing.T) {
	s := &mockSearcher{searchFn: func(_ context.Context, _ string) search.Result {
		return search.Result{Books: []book.Book{sejarahBook()}}
	}}
	ai := &mockCompleter{}
	svc := New(s, &mockCatalog{}, ai, testConfig(), zap.NewNop())

	before := testutil.ToFloat64(metrics.ChatResponsesTotal.WithLabelValues("book_search"))
	resp := svc.Respond(context.Background(), "cari buku sejarah indonesia", nil)

	if resp.Type != domchat.TypeBookSearch {
		t.Fatalf("type = %s, want book_search", resp.Type)
	}
	if resp.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", resp.Confidence)
	}
	if len(s.terms) != 1 || s.terms[0] != "sejarah indonesia" {
		t.Errorf("search terms = %v, want [sejarah indonesia]", s.terms)
	}
	if !strings.Contains(resp.Text, "Sejarah Indonesia Modern") || !strings.Contains(resp.Text, "959.8 RIC s") {
		t.Errorf("reply does not list the book: %q", resp.Text)
	}
	if len(ai.prompts) != 0 {
		t.Error("search branch must not call the model")
	}
	after := testutil.ToFloat64(metrics.ChatResponsesTotal.WithLabelValues("book_search"))
	if after != before+1 {
		t.Errorf("chat_responses_total{book_search} delta = %v, want 1", after-before)
	}
}

func TestRespond_ExplicitSearchNotFound(t *testing.T) {
	ai := &mockCompleter{text: "x", ok: true}
	svc := New(&mockSearcher{}, &mockCatalog{}, ai, testConfig(), zap.NewNop())

	resp := svc.Respond(context.Background(), "carikan buku kapal selam", nil)

	if resp.Type != domchat.TypeBookSearch || resp.Confidence != 0.9 {
		t.Fatalf("got %s/%v, want book_search/0.9", resp.Type, resp.Confidence)
	}
	if !strings.Contains(resp.Text, "tidak menemukan") {
		t.Errorf("expected not-found text, got %q", resp.Text)
	}
	if len(ai.prompts) != 0 {
		t.Error("not-found must not fall through to the model")
	}
}

func TestRespond_SearchWithoutKeywordFallsThrough(t *testing.T) {
	s := &mockSearcher{}
	svc := New(s, &mockCatalog{}, &mockCompleter{}, testConfig(), zap.NewNop())

	resp := svc.Respond(context.Background(), "cari buku", nil)

	if len(s.terms) != 0 {
		t.Errorf("search called with %v", s.terms)
	}
	if resp.Type != domchat.TypeRuleBased {
		t.Errorf("type = %s, want rule_based", resp.Type)
	}
}

func TestRespond_GreetingNeverEscalates(t *testing.T) {
	ai := &mockCompleter{text: "jawaban model", ok: true}
	cfg := testConfig()
	cfg.Rules = []intent.Rule{} // every message falls to the catch-all
	svc := New(&mockSearcher{}, &mockCatalog{}, ai, cfg, zap.NewNop())

	resp := svc.Respond(context.Background(), "halo", nil)

	if len(ai.prompts) != 0 {
		t.Fatal("greeting escalated to the model")
	}
	if resp.Type != domchat.TypeRuleBased || resp.Confidence != intent.CatchAllConfidence {
		t.Errorf("got %s/%v, want rule_based catch-all", resp.Type, resp.Confidence)
	}
}

func TestRespond_GreetingUsesRule(t *testing.T) {
	svc := New(&mockSearcher{}, &mockCatalog{}, &mockCompleter{}, testConfig(), zap.NewNop())

	resp := svc.Respond(context.Background(), "selamat pagi", nil)

	if resp.Type != domchat.TypeRuleBased {
		t.Fatalf("type = %s", resp.Type)
	}
	if resp.Confidence != 0.72 {
		t.Errorf("confidence = %v, want 0.72", resp.Confidence)
	}
}

func TestRespond_BookQuestion(t *testing.T) {
	s := &mockSearcher{searchFn: func(_ context.Context, _ string) search.Result {
		return search.Result{Books: []book.Book{
			book.Reconstruct("1", "Laskar Pelangi", "Andrea Hirata", "Bentang", "2005", "", ""),
			book.Reconstruct("2", "Sang Pemimpi", "Andrea Hirata", "Bentang", "2006", "", ""),
			book.Reconstruct("3", "Edensor", "Andrea Hirata", "Bentang", "2007", "", ""),
		}}
	}}
	ai := &mockCompleter{text: "Kisah sepuluh anak Belitung.", ok: true}
	svc := New(s, &mockCatalog{}, ai, testConfig(), zap.NewNop())

	resp := svc.Respond(context.Background(), "buku laskar pelangi tentang apa", nil)

	if resp.Type != domchat.TypeBookDetail || resp.Confidence != 0.8 {
		t.Fatalf("got %s/%v, want book_detail/0.8", resp.Type, resp.Confidence)
	}
	if resp.Text != "Kisah sepuluh anak Belitung." {
		t.Errorf("text = %q", resp.Text)
	}
	if len(s.terms) != 1 || s.terms[0] != "laskar pelangi" {
		t.Errorf("search terms = %v", s.terms)
	}
	prompt := ai.prompts[0]
	if !strings.Contains(prompt, "Sang Pemimpi") || strings.Contains(prompt, "Edensor") {
		t.Errorf("prompt should carry exactly two candidates:\n%s", prompt)
	}
}

func TestRespond_BookQuestionFallback(t *testing.T) {
	svc := New(&mockSearcher{}, &mockCatalog{}, &mockCompleter{}, testConfig(), zap.NewNop())

	resp := svc.Respond(context.Background(), "sinopsis novel bumi manusia", nil)

	if resp.Type != domchat.TypeBookDetail {
		t.Fatalf("type = %s, want book_detail", resp.Type)
	}
	if resp.Text == "" || !strings.Contains(resp.Text, "0812-0000-0000") {
		t.Errorf("fallback text = %q", resp.Text)
	}
}

func TestRespond_ComplexEscalates(t *testing.T) {
	cat := &mockCatalog{
		statsFn: func(context.Context) (book.Stats, error) {
			return book.Stats{TotalBooks: 1200, DistinctAuthors: 300, DistinctPublishers: 80}, nil
		},
		containsFn: func(_ context.Context, _ string, fields catalog.Field, _ int) ([]book.Book, error) {
			if fields == catalog.FieldTitle {
				return []book.Book{sejarahBook()}, nil
			}
			return nil, errors.New("timeout")
		},
	}
	ai := &mockCompleter{text: "Tentu, program relawan dibuka setiap semester.", ok: true}
	svc := New(&mockSearcher{}, cat, ai, testConfig(), zap.NewNop())

	history := []domchat.Turn{
		{Text: "pertama", Sender: "user"},
		{Text: "kedua", Sender: "bot"},
		{Text: "ketiga", Sender: "user"},
	}
	resp := svc.Respond(context.Background(), "bagaimana cara menjadi relawan di perpustakaan untuk mahasiswa", history)

	if resp.Type != domchat.TypeAIGenerated || resp.Confidence != 0.8 {
		t.Fatalf("got %s/%v, want ai_generated/0.8", resp.Type, resp.Confidence)
	}
	prompt := ai.prompts[0]
	if strings.Contains(prompt, "pertama") || !strings.Contains(prompt, "Asisten: kedua") || !strings.Contains(prompt, "ketiga") {
		t.Errorf("prompt should carry the last two turns:\n%s", prompt)
	}
	if !strings.Contains(prompt, "1200 judul") {
		t.Errorf("prompt should carry catalog stats:\n%s", prompt)
	}
}

func TestRespond_StatsFailureKeepsRelatedBooks(t *testing.T) {
	cat := &mockCatalog{
		statsFn: func(context.Context) (book.Stats, error) {
			return book.Stats{}, errors.New("connection reset")
		},
		containsFn: func(ctx context.Context, _ string, fields catalog.Field, _ int) ([]book.Book, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(20 * time.Millisecond):
			}
			if fields == catalog.FieldTitle {
				return []book.Book{sejarahBook()}, nil
			}
			return nil, nil
		},
	}
	ai := &mockCompleter{text: "Mulailah dari arsip VOC.", ok: true}
	svc := New(&mockSearcher{}, cat, ai, testConfig(), zap.NewNop())

	resp := svc.Respond(context.Background(), "bagaimana cara meneliti sejarah perdagangan rempah nusantara secara mendalam", nil)

	if resp.Type != domchat.TypeAIGenerated {
		t.Fatalf("type = %s, want ai_generated", resp.Type)
	}
	prompt := ai.prompts[0]
	if !strings.Contains(prompt, "Sejarah Indonesia Modern") {
		t.Errorf("prompt should carry related books:\n%s", prompt)
	}
	if strings.Contains(prompt, "- Koleksi:") {
		t.Errorf("prompt should omit failed stats:\n%s", prompt)
	}
}

func TestRespond_EscalationFailureUsesRule(t *testing.T) {
	cfg := testConfig()
	cfg.Rules = []intent.Rule{}
	svc := New(&mockSearcher{}, &mockCatalog{}, &mockCompleter{}, cfg, zap.NewNop())

	resp := svc.Respond(context.Background(), "bagaimana cara menjadi relawan di perpustakaan untuk mahasiswa", nil)

	if resp.Type != domchat.TypeRuleBased {
		t.Fatalf("type = %s, want rule_based", resp.Type)
	}
	if resp.Text != intent.CatchAllResponse {
		t.Errorf("text = %q", resp.Text)
	}
}

func TestRespond_PanicBecomesErrorResponse(t *testing.T) {
	s := &mockSearcher{searchFn: func(context.Context, string) search.Result {
		panic("boom")
	}}
	svc := New(s, &mockCatalog{}, &mockCompleter{}, testConfig(), zap.NewNop())

	resp := svc.Respond(context.Background(), "cari buku sejarah", nil)

	if resp.Type != domchat.TypeError {
		t.Fatalf("type = %s, want error", resp.Type)
	}
	if !strings.Contains(resp.Text, "0812-0000-0000") {
		t.Errorf("error reply should carry the contact number: %q", resp.Text)
	}
}
