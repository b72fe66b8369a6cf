package roulette

import (
	"math/rand/v2"
)

// Option configures a Selector.
type Option func(*Selector)

// WithMaxPages caps how deep into the discovery results a page may be sampled.
func WithMaxPages(pages int) Option {
	return func(s *Selector) {
		if pages > 0 {
			s.maxPages = pages
		}
	}
}

// WithMaxAttempts caps detail lookups per selection.
func WithMaxAttempts(attempts int) Option {
	return func(s *Selector) {
		if attempts > 0 {
			s.maxAttempts = attempts
		}
	}
}

// WithRand sets the random source. Mostly useful for deterministic tests.
func WithRand(r *rand.Rand) Option {
	return func(s *Selector) {
		if r != nil {
			s.rng = r
		}
	}
}

// WithCandidateFilter sets a predicate every selected movie must also satisfy.
func WithCandidateFilter(accept CandidateFilter) Option {
	return func(s *Selector) {
		s.accept = accept
	}
}
