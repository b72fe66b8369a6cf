package filter

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/s0up4200/roulette/tmdb"
)

// DefaultCacheSize is the number of compiled programs kept by default
const DefaultCacheSize = 128

// exprFilter implements Filter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// CompilerOption configures an expr compiler
type CompilerOption func(*ExprCompiler)

// WithCache sets the compiled program cache size. Zero disables caching.
func WithCache(size int) CompilerOption {
	return func(c *ExprCompiler) {
		c.cacheSize = size
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) CompilerOption {
	return func(c *ExprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// ExprCompiler compiles expressions against the movie environment
type ExprCompiler struct {
	helperFuncs map[string]any
	cacheSize   int
	cache       *lru.Cache[string, Filter]
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...CompilerOption) *ExprCompiler {
	c := &ExprCompiler{
		helperFuncs: createHelperFunctions(),
		cacheSize:   DefaultCacheSize,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cacheSize > 0 {
		// lru.New only fails on a non-positive size
		c.cache, _ = lru.New[string, Filter](c.cacheSize)
	}

	return c
}

// Compile compiles an expression into an executable filter
func (c *ExprCompiler) Compile(expression string) (Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(compileEnvironment(c.helperFuncs)),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		helpers:    c.helperFuncs,
	}

	if c.cache != nil {
		c.cache.Add(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *ExprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Purge()
	}
}

// Size returns the number of cached filters
func (c *ExprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Len()
	}
	return 0
}

// Matches evaluates the filter against a movie. Runtime errors reject it.
func (f *exprFilter) Matches(movie *tmdb.Movie) bool {
	if movie == nil {
		return false
	}

	env := createRuntimeEnvironment(movie)
	maps.Copy(env, f.helpers)

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false
	}

	matched, ok := result.(bool)
	return ok && matched
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// createHelperFunctions creates the static helper functions used during compilation
func createHelperFunctions() map[string]any {
	funcs := make(map[string]any, 16)
	addHelperFunctions(funcs)
	return funcs
}

func addHelperFunctions(env map[string]any) {
	env["containsText"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["hasPrefix"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["hasSuffix"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	env["yearsSince"] = func(year int) int {
		if year <= 0 {
			return 0
		}
		return time.Now().Year() - year
	}
}

// compileEnvironment declares every name an expression may use, with zero
// values standing in for the movie fields.
func compileEnvironment(helpers map[string]any) map[string]any {
	env := createRuntimeEnvironment(&tmdb.Movie{})
	maps.Copy(env, helpers)
	return env
}

// createRuntimeEnvironment creates the runtime environment for filter evaluation
func createRuntimeEnvironment(movie *tmdb.Movie) map[string]any {
	env := make(map[string]any, 32)
	addHelperFunctions(env)

	genres := movie.GenreNames()
	genreIDs := movie.GenreIDs
	if genreIDs == nil {
		genreIDs = []int{}
	}

	env["hasGenre"] = createHasGenreFunc(genres)
	env["hasGenreID"] = func(id int) bool {
		return slices.Contains(genreIDs, id)
	}

	env["Title"] = movie.Title
	env["OriginalTitle"] = movie.OriginalTitle
	env["Overview"] = movie.Overview
	env["Tagline"] = movie.Tagline
	env["Year"] = movie.Year()
	env["Runtime"] = movie.Runtime
	env["Rating"] = movie.VoteAverage
	env["Votes"] = movie.VoteCount
	env["Popularity"] = movie.Popularity
	env["Language"] = movie.OriginalLanguage
	env["Genres"] = genres
	env["GenreIDs"] = genreIDs
	env["Status"] = movie.Status
	env["Adult"] = movie.Adult
	env["IMDBID"] = movie.IMDbID
	env["TMDBID"] = movie.ID

	return env
}

func createHasGenreFunc(genres []string) func(string) bool {
	lowerGenres := make([]string, len(genres))
	for i, genre := range genres {
		lowerGenres[i] = strings.ToLower(genre)
	}
	return func(genre string) bool {
		return slices.Contains(lowerGenres, strings.ToLower(genre))
	}
}
