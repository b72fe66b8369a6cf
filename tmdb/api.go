package tmdb

import (
	"context"
)

// API defines the catalog operations used by the rest of the application
type API interface {
	// ListGenres returns the genre vocabulary, empty on failure
	ListGenres(ctx context.Context) []Genre

	// Discover returns one page of a filtered discovery query
	Discover(ctx context.Context, filters Filters, page int) (*DiscoverPage, error)

	// MovieDetail returns the full record for a movie
	MovieDetail(ctx context.Context, movieID int) (*Movie, error)

	// WatchProviders returns regional provider availability, nil when unavailable
	WatchProviders(ctx context.Context, movieID int) *WatchProviderResult
}

var _ API = (*Client)(nil)
