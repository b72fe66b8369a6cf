package filter

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/roulette/tmdb"
)

func testMovie() *tmdb.Movie {
	return &tmdb.Movie{
		ID:               598,
		Title:            "Cidade de Deus",
		OriginalTitle:    "Cidade de Deus",
		Overview:         "Buscapé cresce na Cidade de Deus.",
		ReleaseDate:      "2002-08-30",
		VoteAverage:      8.4,
		VoteCount:        7600,
		Popularity:       45.2,
		OriginalLanguage: "pt",
		Runtime:          130,
		Status:           "Released",
		IMDbID:           "tt0317248",
		GenreIDs:         []int{18, 80},
		Genres:           []tmdb.Genre{{ID: 18, Name: "Drama"}, {ID: 80, Name: "Crime"}},
	}
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{name: "valid expression", expression: `hasGenre("drama")`},
		{name: "empty expression", expression: "  ", wantErr: true, errContains: "empty expression"},
		{name: "invalid syntax", expression: `hasGenre("unclosed`, wantErr: true},
		{name: "unknown field", expression: `Director == "Meirelles"`, wantErr: true},
		{name: "non-bool result", expression: `Runtime + 1`, wantErr: true},
		{name: "complex expression", expression: `hasGenre("crime") and Year > 2000 and Rating >= 8 and Runtime < 150`},
	}

	compiler := NewExprCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := compiler.Compile(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				assert.ErrorAs(t, err, &compErr)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expression, filter.Expression())
		})
	}
}

func TestMatches(t *testing.T) {
	movie := testMovie()

	tests := []struct {
		expression string
		expected   bool
	}{
		{`hasGenre("Drama")`, true},
		{`hasGenre("comedy")`, false},
		{`hasGenreID(80)`, true},
		{`Year == 2002`, true},
		{`Year >= 2010`, false},
		{`Rating > 8 and Votes > 1000`, true},
		{`Runtime <= 120`, false},
		{`Language == "pt" and Status == "Released"`, true},
		{`containsText(Title, "deus")`, true},
		{`Title contains "Deus"`, true},
		{`hasPrefix(Title, "cidade") and hasSuffix(IMDBID, "248")`, true},
		{`"Crime" in Genres`, true},
		{`not Adult`, true},
		{`yearsSince(Year) > 10`, true},
		{`TMDBID == 598`, true},
	}

	compiler := NewExprCompiler()
	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			filter, err := compiler.Compile(tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, filter.Matches(movie))
		})
	}
}

func TestMatchesEdgeCases(t *testing.T) {
	compiler := NewExprCompiler()

	t.Run("nil movie", func(t *testing.T) {
		filter, err := compiler.Compile(`Year > 0`)
		require.NoError(t, err)
		assert.False(t, filter.Matches(nil))
	})

	t.Run("runtime error rejects", func(t *testing.T) {
		filter, err := compiler.Compile(`Genres[5] == "Drama"`)
		require.NoError(t, err)
		assert.False(t, filter.Matches(testMovie()))
	})

	t.Run("summary record", func(t *testing.T) {
		filter, err := compiler.Compile(`len(Genres) == 0 and Year == 0`)
		require.NoError(t, err)
		assert.True(t, filter.Matches(&tmdb.Movie{ID: 1}))
	})
}

func TestCompilerCache(t *testing.T) {
	compiler := NewExprCompiler(WithCache(2))

	first, err := compiler.Compile(`Year > 2000`)
	require.NoError(t, err)
	again, err := compiler.Compile(`  Year > 2000 `)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, compiler.Size())

	_, err = compiler.Compile(`Year > 2001`)
	require.NoError(t, err)
	_, err = compiler.Compile(`Year > 2002`)
	require.NoError(t, err)
	assert.Equal(t, 2, compiler.Size())

	compiler.Clear()
	assert.Zero(t, compiler.Size())

	uncached := NewExprCompiler(WithCache(0))
	_, err = uncached.Compile(`Year > 2000`)
	require.NoError(t, err)
	assert.Zero(t, uncached.Size())
}

func TestCustomFunctions(t *testing.T) {
	compiler := NewExprCompiler(WithCustomFunctions(map[string]any{
		"isBrazilian": func(lang string) bool { return lang == "pt" },
	}))

	filter, err := compiler.Compile(`isBrazilian(Language)`)
	require.NoError(t, err)
	assert.True(t, filter.Matches(testMovie()))
	assert.True(t, filter.Matches(&tmdb.Movie{OriginalLanguage: "pt"}))
	assert.False(t, filter.Matches(&tmdb.Movie{OriginalLanguage: "en"}))

	combined, err := compiler.Compile(`isBrazilian(Language) and containsText(Title, "cidade")`)
	require.NoError(t, err)
	assert.True(t, combined.Matches(testMovie()))
}

func TestConcurrentMatches(t *testing.T) {
	filter, err := NewExprCompiler().Compile(`hasGenre("crime") and Runtime > 100`)
	require.NoError(t, err)

	movie := testMovie()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, filter.Matches(movie))
		}()
	}
	wg.Wait()
}

func TestManager(t *testing.T) {
	m := NewManager()

	require.NoError(t, m.RegisterFilters(map[string]string{
		"short":   `Runtime > 0 and Runtime < 100`,
		"classic": `Year < 1980`,
	}))
	assert.Equal(t, []string{"classic", "short"}, m.ListFilters())

	err := m.RegisterFilters(map[string]string{"broken": `Year >`, "fine": `Year > 1`})
	require.Error(t, err)
	assert.Equal(t, []string{"classic", "short"}, m.ListFilters(), "failed batch must register nothing")

	short, err := m.GetFilter("short")
	require.NoError(t, err)
	assert.False(t, short.Matches(testMovie()))

	_, err = m.GetFilter("missing")
	assert.ErrorIs(t, err, ErrUnknownFilter)

	m.UnregisterFilter("short")
	assert.Equal(t, []string{"classic"}, m.ListFilters())

	require.Error(t, m.RegisterFilter("bad", ""))
}

func TestAllOf(t *testing.T) {
	compiler := NewExprCompiler()
	drama, err := compiler.Compile(`hasGenre("drama")`)
	require.NoError(t, err)
	long, err := compiler.Compile(`Runtime > 120`)
	require.NoError(t, err)
	old, err := compiler.Compile(`Year < 1990`)
	require.NoError(t, err)

	movie := testMovie()
	assert.True(t, AllOf(drama, long)(movie))
	assert.False(t, AllOf(drama, long, old)(movie))
	assert.True(t, AllOf(nil, drama)(movie))
	assert.Nil(t, AllOf())
	assert.Nil(t, AllOf(nil, nil))
}
