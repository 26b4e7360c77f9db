package pustaka

import (
	"context"

	"github.com/pustaka-digital/pustaka/internal/domain/book"
	domchat "github.com/pustaka-digital/pustaka/internal/domain/chat"
	"github.com/pustaka-digital/pustaka/internal/domain/metadata"
	domplaylist "github.com/pustaka-digital/pustaka/internal/domain/playlist"
	domusage "github.com/pustaka-digital/pustaka/internal/domain/usage"
	descriptionuc "github.com/pustaka-digital/pustaka/internal/usecase/description"
	healthuc "github.com/pustaka-digital/pustaka/internal/usecase/health"
	playlistuc "github.com/pustaka-digital/pustaka/internal/usecase/playlist"
	searchuc "github.com/pustaka-digital/pustaka/internal/usecase/search"
)

type mockChatUC struct {
	respondFn func(ctx context.Context, message string, history []domchat.Turn) domchat.Response
}

func (m *mockChatUC) Respond(ctx context.Context, message string, history []domchat.Turn) domchat.Response {
	return m.respondFn(ctx, message, history)
}

type mockSearchUC struct {
	searchFn func(ctx context.Context, term string) searchuc.Result
}

func (m *mockSearchUC) Search(ctx context.Context, term string) searchuc.Result {
	return m.searchFn(ctx, term)
}

type mockDescribeUC struct {
	describeFn func(ctx context.Context, req descriptionuc.Request) (metadata.BookDescription, descriptionuc.Source, error)
}

func (m *mockDescribeUC) Describe(
	ctx context.Context, req descriptionuc.Request,
) (metadata.BookDescription, descriptionuc.Source, error) {
	return m.describeFn(ctx, req)
}

type mockPlaylistUC struct {
	generateFn func(ctx context.Context, req playlistuc.Request) (playlistuc.Summary, error)
}

func (m *mockPlaylistUC) Generate(ctx context.Context, req playlistuc.Request) (playlistuc.Summary, error) {
	return m.generateFn(ctx, req)
}

type mockBookWriter struct {
	putFn func(ctx context.Context, books []book.Book) error
}

func (m *mockBookWriter) Put(ctx context.Context, books []book.Book) error {
	return m.putFn(ctx, books)
}

type mockPlaylistWriter struct {
	putFn func(ctx context.Context, playlists []domplaylist.Playlist) error
}

func (m *mockPlaylistWriter) Put(ctx context.Context, playlists []domplaylist.Playlist) error {
	return m.putFn(ctx, playlists)
}

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

type mockUsageUC struct {
	report domusage.Report
}

func (m *mockUsageUC) GetReport(context.Context) domusage.Report { return m.report }
