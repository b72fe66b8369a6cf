package server

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/s0up4200/roulette/tmdb"
)

// genreSource collapses concurrent vocabulary requests into one catalog call.
// Results are not kept once the call returns.
type genreSource struct {
	catalog Catalog
	group   singleflight.Group
}

func newGenreSource(catalog Catalog) *genreSource {
	return &genreSource{catalog: catalog}
}

// List shares one catalog call between concurrent callers. The call outlives
// the caller that started it, so one disconnect does not empty every response.
func (g *genreSource) List(ctx context.Context) []tmdb.Genre {
	shared := context.WithoutCancel(ctx)
	v, _, _ := g.group.Do("genres", func() (any, error) {
		return g.catalog.ListGenres(shared), nil
	})

	genres, ok := v.([]tmdb.Genre)
	if !ok || genres == nil {
		return []tmdb.Genre{}
	}
	return genres
}
