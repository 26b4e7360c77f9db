package playlist

import (
	"context"

	"github.com/pustaka-digital/pustaka/internal/domain"
	domplaylist "github.com/pustaka-digital/pustaka/internal/domain/playlist"
)

// Repository reads playlists and stores their metadata.
type Repository interface {
	Get(ctx context.Context, id string) (domplaylist.Playlist, error)
	List(ctx context.Context) ([]domplaylist.Playlist, error)
	GetMetadata(ctx context.Context, id string) (domplaylist.Metadata, error)
	HasMetadata(ctx context.Context, id string) (bool, error)
	SaveMetadata(ctx context.Context, m domplaylist.Metadata) error
}

// Completer is the completion gateway. A false result means the model is unavailable.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts domain.CompletionOptions) (string, bool)
}
