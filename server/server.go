package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/s0up4200/roulette/filter"
	"github.com/s0up4200/roulette/roulette"
	"github.com/s0up4200/roulette/tmdb"
	"github.com/s0up4200/roulette/watchlist"
)

const shutdownTimeout = 5 * time.Second

// Catalog is the part of the catalog client the API serves directly
type Catalog interface {
	ListGenres(ctx context.Context) []tmdb.Genre
	WatchProviders(ctx context.Context, movieID int) *tmdb.WatchProviderResult
}

// Selector picks and resolves movies
type Selector interface {
	PickRandomMatching(ctx context.Context, filters tmdb.Filters, accept roulette.CandidateFilter) (*tmdb.Movie, error)
	GetByID(ctx context.Context, movieID int) (*tmdb.Movie, error)
}

// Config holds HTTP settings
type Config struct {
	Addr string
	Mode string
}

// Dependencies are the collaborators behind the API. Torrents may be nil when
// the torrent index is disabled.
type Dependencies struct {
	Catalog   Catalog
	Selector  Selector
	Torrents  roulette.TorrentSource
	Watchlist *watchlist.Store
	Filters   *filter.Manager
	Presets   map[string]tmdb.Filters
}

// Server is the JSON API used by the browser UI
type Server struct {
	cfg    Config
	deps   Dependencies
	genres *genreSource
	engine *gin.Engine
	logger zerolog.Logger
}

// New creates a server and registers its routes
func New(cfg Config, deps Dependencies, logger zerolog.Logger) *Server {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	registerValidations()

	if deps.Filters == nil {
		deps.Filters = filter.NewManager()
	}

	s := &Server{
		cfg:    cfg,
		deps:   deps,
		genres: newGenreSource(deps.Catalog),
		engine: gin.New(),
		logger: logger,
	}

	s.engine.Use(gin.Recovery(), RequestID(), Logger(logger), CORS())
	s.registerRoutes()

	return s
}

// Handler returns the HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}
