package radarr

import (
	"context"

	"golift.io/starr/radarr"
)

// RadarrAPI defines the Radarr operations the hand-off needs
type RadarrAPI interface {
	GetMovieContext(ctx context.Context, params *radarr.GetMovie) ([]*radarr.Movie, error)
	AddMovieContext(ctx context.Context, movie *radarr.AddMovieInput) (*radarr.Movie, error)
	GetRootFoldersContext(ctx context.Context) ([]*radarr.RootFolder, error)

	// Health check
	Ping() error
}
