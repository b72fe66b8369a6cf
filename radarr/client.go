package radarr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golift.io/starr"
	"golift.io/starr/radarr"

	"github.com/s0up4200/roulette/tmdb"
)

// ErrNoRootFolder is returned when no root folder is configured or available
var ErrNoRootFolder = errors.New("no radarr root folder available")

// AddOptions controls how a movie is added
type AddOptions struct {
	QualityProfileID int64
	// RootFolder defaults to the first root folder Radarr reports
	RootFolder string
	Search     bool
}

// AddResult describes the Radarr library entry for a movie
type AddResult struct {
	ID      int64
	Title   string
	Existed bool
}

// Client wraps the starr Radarr client
type Client struct {
	client RadarrAPI
	logger zerolog.Logger
}

// NewClient creates a new Radarr client and checks the connection
func NewClient(url, apiKey string, logger zerolog.Logger) (*Client, error) {
	config := starr.New(apiKey, url, 30*time.Second)
	radarrClient := radarr.New(config)

	if err := radarrClient.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to Radarr: %w", err)
	}

	return NewClientWithAPI(radarrClient, logger), nil
}

// NewClientWithAPI creates a client over an existing API implementation
func NewClientWithAPI(api RadarrAPI, logger zerolog.Logger) *Client {
	return &Client{
		client: api,
		logger: logger,
	}
}

// Ping checks the connection
func (c *Client) Ping() error {
	if err := c.client.Ping(); err != nil {
		return fmt.Errorf("failed to connect to Radarr: %w", err)
	}
	return nil
}

// FindMovie returns the library entry for a catalog id, or nil when the
// movie is not in the library
func (c *Client) FindMovie(ctx context.Context, tmdbID int64) (*radarr.Movie, error) {
	movies, err := c.client.GetMovieContext(ctx, &radarr.GetMovie{TMDBID: tmdbID})
	if err != nil {
		return nil, fmt.Errorf("failed to look up movie %d: %w", tmdbID, err)
	}

	for _, m := range movies {
		if m != nil && m.TmdbID == tmdbID {
			return m, nil
		}
	}
	return nil, nil
}

// AddMovie adds a selected movie to the library. A movie already present is
// reported with Existed set and is left untouched.
func (c *Client) AddMovie(ctx context.Context, movie *tmdb.Movie, opts AddOptions) (*AddResult, error) {
	tmdbID := int64(movie.ID)

	existing, err := c.FindMovie(ctx, tmdbID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		c.logger.Info().
			Int64("radarr_id", existing.ID).
			Str("title", existing.Title).
			Msg("Movie already in Radarr")
		return &AddResult{ID: existing.ID, Title: existing.Title, Existed: true}, nil
	}

	rootFolder := opts.RootFolder
	if rootFolder == "" {
		rootFolder, err = c.defaultRootFolder(ctx)
		if err != nil {
			return nil, err
		}
	}

	added, err := c.client.AddMovieContext(ctx, &radarr.AddMovieInput{
		Title:            movie.Title,
		TmdbID:           tmdbID,
		Year:             movie.Year(),
		QualityProfileID: opts.QualityProfileID,
		RootFolderPath:   rootFolder,
		Monitored:        true,
		AddOptions: &radarr.AddMovieOptions{
			SearchForMovie: opts.Search,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add movie %q: %w", movie.Title, err)
	}

	c.logger.Info().
		Int64("radarr_id", added.ID).
		Str("title", added.Title).
		Str("root_folder", rootFolder).
		Bool("search", opts.Search).
		Msg("Added movie to Radarr")

	return &AddResult{ID: added.ID, Title: added.Title}, nil
}

func (c *Client) defaultRootFolder(ctx context.Context) (string, error) {
	folders, err := c.client.GetRootFoldersContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get root folders: %w", err)
	}
	for _, f := range folders {
		if f != nil && f.Path != "" {
			return f.Path, nil
		}
	}
	return "", ErrNoRootFolder
}
