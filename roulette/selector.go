package roulette

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/rs/zerolog"

	"github.com/s0up4200/roulette/tmdb"
)

const (
	// DefaultMaxPages is the deepest discovery page the catalog API serves
	DefaultMaxPages = 500
	// DefaultMaxAttempts caps detail lookups per selection
	DefaultMaxAttempts = 20
)

// Catalog is the subset of the catalog API the selector needs
type Catalog interface {
	Discover(ctx context.Context, filters tmdb.Filters, page int) (*tmdb.DiscoverPage, error)
	MovieDetail(ctx context.Context, movieID int) (*tmdb.Movie, error)
}

// CandidateFilter is an extra predicate applied to detailed candidates
type CandidateFilter func(movie *tmdb.Movie) bool

// Selector picks a single displayable movie at random from a filtered catalog
type Selector struct {
	catalog     Catalog
	logger      zerolog.Logger
	maxPages    int
	maxAttempts int
	accept      CandidateFilter

	randMu sync.Mutex
	rng    *rand.Rand
}

// NewSelector creates a new selector over the given catalog
func NewSelector(catalog Catalog, logger zerolog.Logger, opts ...Option) *Selector {
	s := &Selector{
		catalog:     catalog,
		logger:      logger,
		maxPages:    DefaultMaxPages,
		maxAttempts: DefaultMaxAttempts,
		rng:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// MaxAttempts returns the detail lookup ceiling per selection
func (s *Selector) MaxAttempts() int {
	return s.maxAttempts
}

// intN draws a uniform integer in [0, n). The shared source is not safe for
// concurrent use, so draws are serialized.
func (s *Selector) intN(n int) int {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return s.rng.IntN(n)
}

// PickRandom returns one movie satisfying filters that is valid for display.
// It returns ErrNoneFound when no such movie turned up, and an error wrapping
// ErrSelectionFailed when a catalog call failed.
func (s *Selector) PickRandom(ctx context.Context, filters tmdb.Filters) (*tmdb.Movie, error) {
	return s.pick(ctx, filters, s.accept)
}

// PickRandomMatching is PickRandom with a per-call candidate filter that
// replaces the selector's default one.
func (s *Selector) PickRandomMatching(ctx context.Context, filters tmdb.Filters, accept CandidateFilter) (*tmdb.Movie, error) {
	return s.pick(ctx, filters, accept)
}

func (s *Selector) pick(ctx context.Context, filters tmdb.Filters, accept CandidateFilter) (*tmdb.Movie, error) {
	first, err := s.catalog.Discover(ctx, filters, 1)
	if err != nil {
		return nil, selectionFailed("discover first page", err)
	}
	if first.TotalResults == 0 {
		s.logger.Debug().Msg("Discovery returned no results")
		return nil, ErrNoneFound
	}

	totalPages := min(first.TotalPages, s.maxPages)
	if totalPages < 1 {
		totalPages = 1
	}

	randomPage := s.intN(totalPages) + 1
	page, err := s.catalog.Discover(ctx, filters, randomPage)
	if err != nil {
		return nil, selectionFailed(fmt.Sprintf("discover page %d", randomPage), err)
	}
	if len(page.Results) == 0 {
		s.logger.Debug().Int("page", randomPage).Msg("Sampled page is empty")
		return nil, ErrNoneFound
	}

	candidates := make([]tmdb.Movie, 0, len(page.Results))
	for _, m := range page.Results {
		if m.ValidForSelection() {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		s.logger.Debug().Int("page", randomPage).Msg("No candidates with poster and overview")
		return nil, ErrNoneFound
	}

	budget := min(len(candidates), s.maxAttempts)
	attempted := make(map[int]struct{}, budget)
	attempts := 0

	s.logger.Debug().
		Int("page", randomPage).
		Int("total_pages", totalPages).
		Int("candidates", len(candidates)).
		Int("budget", budget).
		Msg("Sampling candidates")

	// remaining holds the not-yet-drawn candidates; each draw swaps the chosen
	// element to the end and shrinks the slice.
	remaining := candidates
	for attempts < budget && len(remaining) > 0 {
		idx := s.intN(len(remaining))
		candidate := remaining[idx]
		remaining[idx] = remaining[len(remaining)-1]
		remaining = remaining[:len(remaining)-1]

		if _, seen := attempted[candidate.ID]; seen {
			continue
		}
		attempted[candidate.ID] = struct{}{}
		attempts++

		detail, err := s.catalog.MovieDetail(ctx, candidate.ID)
		if err != nil {
			return nil, selectionFailed(fmt.Sprintf("get detail for movie %d", candidate.ID), err)
		}
		if !detail.ValidForDisplay() {
			s.logger.Debug().Int("movie_id", candidate.ID).Msg("Candidate is missing display fields")
			continue
		}

		movie := candidate.MergeDetail(detail)
		if accept != nil && !accept(movie) {
			s.logger.Debug().Int("movie_id", candidate.ID).Msg("Candidate rejected by filter")
			continue
		}

		s.logger.Debug().
			Int("movie_id", movie.ID).
			Str("title", movie.Title).
			Int("attempts", attempts).
			Msg("Selected movie")
		return movie, nil
	}

	s.logger.Debug().Int("attempts", attempts).Msg("Attempt budget exhausted")
	return nil, ErrNoneFound
}

// GetByID fetches a known movie and returns it only if it is valid for display.
// Unknown ids and incomplete records yield ErrNoneFound.
func (s *Selector) GetByID(ctx context.Context, movieID int) (*tmdb.Movie, error) {
	if movieID <= 0 {
		return nil, ErrNoneFound
	}

	movie, err := s.catalog.MovieDetail(ctx, movieID)
	if err != nil {
		if tmdb.IsNotFound(err) {
			return nil, ErrNoneFound
		}
		return nil, selectionFailed(fmt.Sprintf("get movie %d", movieID), err)
	}

	if !movie.ValidForDisplay() {
		return nil, ErrNoneFound
	}
	return movie, nil
}
