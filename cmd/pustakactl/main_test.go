package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pustaka-digital/pustaka/pkg/pustaka"
)

type fakeOps struct {
	importBooksFn     func(ctx context.Context, books []pustaka.Book) error
	importPlaylistsFn func(ctx context.Context, playlists []pustaka.Playlist) error
	generateFn        func(ctx context.Context, req pustaka.GenerateRequest) (pustaka.GenerateSummary, error)
	describeFn        func(ctx context.Context, req pustaka.DescribeRequest) (pustaka.Description, error)
	usage             pustaka.UsageReport
	health            pustaka.HealthStatus
	closed            bool
}

func (f *fakeOps) ImportBooks(ctx context.Context, books []pustaka.Book) error {
	return f.importBooksFn(ctx, books)
}

func (f *fakeOps) ImportPlaylists(ctx context.Context, playlists []pustaka.Playlist) error {
	return f.importPlaylistsFn(ctx, playlists)
}

func (f *fakeOps) GeneratePlaylists(ctx context.Context, req pustaka.GenerateRequest) (pustaka.GenerateSummary, error) {
	return f.generateFn(ctx, req)
}

func (f *fakeOps) DescribeBook(ctx context.Context, req pustaka.DescribeRequest) (pustaka.Description, error) {
	return f.describeFn(ctx, req)
}

func (f *fakeOps) Usage(context.Context) pustaka.UsageReport   { return f.usage }
func (f *fakeOps) Health(context.Context) pustaka.HealthStatus { return f.health }
func (f *fakeOps) Close()                                      { f.closed = true }

// run executes pustakactl with args against ops and returns its output.
func run(t *testing.T, ops *fakeOps, args ...string) (string, error) {
	t.Helper()
	open := func(context.Context, string) (operations, error) { return ops, nil }
	cmd := newRootCmd(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLoadSeed(t *testing.T) {
	books, playlists, err := loadSeed("testdata/catalog.yaml")
	if err != nil {
		t.Fatalf("loadSeed: %v", err)
	}
	if len(books) != 2 || len(playlists) != 1 {
		t.Fatalf("got %d books, %d playlists", len(books), len(playlists))
	}
	if books[0].CallNumber != "959.82 RAF s" || books[0].PublicationYear != "2008" {
		t.Errorf("books[0] = %+v", books[0])
	}
	if playlists[0].ID != "p-majapahit" || playlists[0].Name != "Majapahit" {
		t.Errorf("playlists[0] = %+v", playlists[0])
	}
}

func TestLoadSeed_MissingFile(t *testing.T) {
	if _, _, err := loadSeed("testdata/nope.yaml"); err == nil {
		t.Fatal("expected error")
	}
}

func TestSeedCmd(t *testing.T) {
	var gotBooks []pustaka.Book
	var gotPlaylists []pustaka.Playlist
	ops := &fakeOps{
		importBooksFn: func(_ context.Context, books []pustaka.Book) error {
			gotBooks = books
			return nil
		},
		importPlaylistsFn: func(_ context.Context, p []pustaka.Playlist) error {
			gotPlaylists = p
			return nil
		},
	}

	out, err := run(t, ops, "seed", "--file", "testdata/catalog.yaml")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(gotBooks) != 2 || len(gotPlaylists) != 1 {
		t.Errorf("imported %d books, %d playlists", len(gotBooks), len(gotPlaylists))
	}
	if !strings.Contains(out, "imported 2 books, 1 playlists") {
		t.Errorf("output = %q", out)
	}
	if !ops.closed {
		t.Error("client not closed")
	}
}

func TestSeedCmd_ImportError(t *testing.T) {
	ops := &fakeOps{
		importBooksFn: func(context.Context, []pustaka.Book) error {
			return pustaka.ErrInvalidRequest
		},
		importPlaylistsFn: func(context.Context, []pustaka.Playlist) error {
			t.Error("playlists imported after book failure")
			return nil
		},
	}

	_, err := run(t, ops, "seed", "-f", "testdata/catalog.yaml")
	if !errors.Is(err, pustaka.ErrInvalidRequest) {
		t.Errorf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestSeedCmd_RequiresFile(t *testing.T) {
	if _, err := run(t, &fakeOps{}, "seed"); err == nil {
		t.Fatal("expected error without --file")
	}
}

func TestGenerateFlags_Request(t *testing.T) {
	tests := []struct {
		name    string
		flags   generateFlags
		want    pustaka.GenerateRequest
		wantErr bool
	}{
		{"single", generateFlags{id: "p1"}, pustaka.GenerateRequest{Mode: pustaka.ModeSingle, PlaylistID: "p1"}, false},
		{"all", generateFlags{all: true}, pustaka.GenerateRequest{Mode: pustaka.ModeAll}, false},
		{"missing", generateFlags{missing: true}, pustaka.GenerateRequest{Mode: pustaka.ModeMissing}, false},
		{"upgrade", generateFlags{upgrade: true}, pustaka.GenerateRequest{Mode: pustaka.ModeUpgrade}, false},
		{"none", generateFlags{}, pustaka.GenerateRequest{}, true},
		{"two", generateFlags{all: true, missing: true}, pustaka.GenerateRequest{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.flags.request()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("request = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPlaylistsGenerateCmd(t *testing.T) {
	ops := &fakeOps{
		generateFn: func(_ context.Context, req pustaka.GenerateRequest) (pustaka.GenerateSummary, error) {
			if req.Mode != pustaka.ModeMissing {
				t.Errorf("mode = %q, want missing", req.Mode)
			}
			return pustaka.GenerateSummary{
				Message: "Processed 2 playlists",
				Outcomes: []pustaka.PlaylistOutcome{
					{PlaylistID: "p1", PlaylistName: "Majapahit"},
					{PlaylistID: "p2", PlaylistName: "Sriwijaya", Err: errors.New("timeout")},
				},
			}, nil
		},
	}

	out, err := run(t, ops, "playlists", "generate", "--missing")
	if err == nil || !strings.Contains(err.Error(), "1 of 2 playlists failed") {
		t.Errorf("err = %v", err)
	}
	if !strings.Contains(out, "ok     p1") || !strings.Contains(out, "failed p2") {
		t.Errorf("output = %q", out)
	}
}

func TestPlaylistsGenerateCmd_NoSelector(t *testing.T) {
	ops := &fakeOps{
		generateFn: func(context.Context, pustaka.GenerateRequest) (pustaka.GenerateSummary, error) {
			t.Error("generate should not run")
			return pustaka.GenerateSummary{}, nil
		},
	}
	if _, err := run(t, ops, "playlists", "generate"); err == nil {
		t.Fatal("expected error")
	}
}

func TestBooksDescribeCmd(t *testing.T) {
	ops := &fakeOps{
		describeFn: func(_ context.Context, req pustaka.DescribeRequest) (pustaka.Description, error) {
			if req.BookID != "b-001" {
				t.Errorf("BookID = %q", req.BookID)
			}
			return pustaka.Description{
				BookID:     "b-001",
				Text:       "Catatan Raffles tentang Jawa.",
				Source:     "ai-generated-full",
				Confidence: 0.85,
				Metadata:   pustaka.Metadata{KeyThemes: []string{"sejarah", "budaya"}},
			}, nil
		},
	}

	out, err := run(t, ops, "books", "describe", "--id", "b-001")
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if !strings.Contains(out, "ai-generated-full (confidence 0.85)") || !strings.Contains(out, "sejarah, budaya") {
		t.Errorf("output = %q", out)
	}
}

func TestUsageCmd(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	ops := &fakeOps{usage: pustaka.UsageReport{
		Provider: "openai", Model: "gpt-4o-mini",
		Limit: 60, Used: 60, Remaining: 0, Exhausted: true,
		WindowStart: start, WindowEnd: start.Add(time.Hour),
	}}

	out, err := run(t, ops, "usage")
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	for _, want := range []string{"openai (gpt-4o-mini)", "60/60 (0 remaining)", "quota exhausted", "2025-03-01T10:00:00Z"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestHealthCmd(t *testing.T) {
	ops := &fakeOps{health: pustaka.HealthStatus{
		Status: "error",
		Checks: map[string]string{"database": "error", "completion": "ok"},
	}}

	out, err := run(t, ops, "health")
	if err == nil {
		t.Error("expected error for unhealthy status")
	}
	if !strings.Contains(out, "status: error") {
		t.Errorf("output = %q", out)
	}
}

func TestConnectError(t *testing.T) {
	open := func(context.Context, string) (operations, error) { return nil, errors.New("dial tcp: refused") }
	cmd := newRootCmd(open)
	cmd.SetArgs([]string{"usage"})
	cmd.SetOut(&bytes.Buffer{})

	err := cmd.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "connect") {
		t.Errorf("err = %v", err)
	}
}
