package roulette

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/roulette/tmdb"
	"github.com/s0up4200/roulette/torrents"
)

// ProviderSource looks up regional watch providers
type ProviderSource interface {
	WatchProviders(ctx context.Context, movieID int) *tmdb.WatchProviderResult
}

// TorrentSource searches a torrent index
type TorrentSource interface {
	SearchMovie(ctx context.Context, title string, year int) []torrents.Result
}

// Pick is a selected movie together with its display-only extras
type Pick struct {
	Movie     *tmdb.Movie               `json:"movie"`
	Providers *tmdb.WatchProviderResult `json:"providers,omitempty"`
	Torrents  []torrents.Result         `json:"torrents,omitempty"`
}

// Enricher attaches watch providers and torrent results to a selected movie
type Enricher struct {
	providers ProviderSource
	torrents  TorrentSource
	logger    zerolog.Logger
}

// NewEnricher creates an enricher. Either source may be nil to skip it.
func NewEnricher(providers ProviderSource, torrentSource TorrentSource, logger zerolog.Logger) *Enricher {
	return &Enricher{
		providers: providers,
		torrents:  torrentSource,
		logger:    logger,
	}
}

// Enrich fetches the extras concurrently. Both lookups are best effort, so
// Enrich never fails; missing extras are simply left empty.
func (e *Enricher) Enrich(ctx context.Context, movie *tmdb.Movie) *Pick {
	pick := &Pick{Movie: movie}
	if movie == nil {
		return pick
	}

	var g errgroup.Group

	if e.providers != nil {
		g.Go(func() error {
			pick.Providers = e.providers.WatchProviders(ctx, movie.ID)
			return nil
		})
	}

	if e.torrents != nil {
		g.Go(func() error {
			pick.Torrents = e.torrents.SearchMovie(ctx, movie.Title, movie.Year())
			return nil
		})
	}

	g.Wait()

	e.logger.Debug().
		Int("movie_id", movie.ID).
		Bool("providers", pick.Providers != nil).
		Int("torrents", len(pick.Torrents)).
		Msg("Enriched selected movie")

	return pick
}
