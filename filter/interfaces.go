package filter

import (
	"github.com/s0up4200/roulette/tmdb"
)

// Filter decides whether a detailed movie is acceptable
type Filter interface {
	// Matches checks if a movie satisfies the filter
	Matches(movie *tmdb.Movie) bool

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (Filter, error)
}
