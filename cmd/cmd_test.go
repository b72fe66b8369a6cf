package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/roulette/config"
	"github.com/s0up4200/roulette/filter"
	"github.com/s0up4200/roulette/overseerr"
	"github.com/s0up4200/roulette/roulette"
	"github.com/s0up4200/roulette/tautulli"
	"github.com/s0up4200/roulette/tmdb"
)

func TestSelectionMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"none found", fmt.Errorf("spin: %w", roulette.ErrNoneFound), "No movie matched these filters. Try loosening them."},
		{"selection failed", &roulette.SelectionError{Step: "discover", Err: errors.New("timeout")}, "Could not reach the movie catalog. Try again."},
		{"other", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, selectionMessage(tt.err))
		})
	}
}

func TestParseMovieID(t *testing.T) {
	id, err := parseMovieID("603")
	require.NoError(t, err)
	assert.Equal(t, 603, id)

	for _, arg := range []string{"0", "-3", "abc", ""} {
		_, err := parseMovieID(arg)
		assert.Error(t, err, arg)
	}
}

func TestSpinFilters(t *testing.T) {
	filters = filter.NewManager()
	require.NoError(t, filters.RegisterFilter("curtos", `Runtime < 100`))
	presets = map[string]tmdb.Filters{
		"curtos": {GenreIDs: []int{35}, StartYear: 1980, EndYear: 1989, MinRating: 6},
	}
	t.Cleanup(func() {
		spinPreset, spinExpr = "", ""
		filters, presets = nil, nil
	})

	spinPreset = "curtos"
	require.NoError(t, spinCmd.Flags().Set("from", "1985"))
	require.NoError(t, spinCmd.Flags().Set("genre", "35"))
	require.NoError(t, spinCmd.Flags().Set("genre", "18"))

	base, accept, err := spinFilters(spinCmd)
	require.NoError(t, err)
	assert.Equal(t, tmdb.Filters{GenreIDs: []int{35, 18}, StartYear: 1985, EndYear: 1989, MinRating: 6}, base)
	require.NotNil(t, accept)
	assert.True(t, accept(&tmdb.Movie{Runtime: 90}))
	assert.False(t, accept(&tmdb.Movie{Runtime: 120}))

	spinExpr = "Runtime >"
	_, _, err = spinFilters(spinCmd)
	assert.Error(t, err)

	spinExpr = ""
	spinPreset = "missing"
	_, _, err = spinFilters(spinCmd)
	assert.Error(t, err)
}

func TestAllAccept(t *testing.T) {
	assert.Nil(t, allAccept(nil, nil))

	long := func(m *tmdb.Movie) bool { return m.Runtime > 120 }
	old := func(m *tmdb.Movie) bool { return m.Year() < 1980 }

	accept := allAccept(nil, long, old)
	assert.True(t, accept(&tmdb.Movie{Runtime: 200, ReleaseDate: "1962-12-10"}))
	assert.False(t, accept(&tmdb.Movie{Runtime: 200, ReleaseDate: "2001-12-19"}))
	assert.False(t, accept(&tmdb.Movie{Runtime: 90, ReleaseDate: "1962-12-10"}))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Matrix", 10, "Matrix"},
		{"O Auto da Compadecida", 21, "O Auto da Compadecida"},
		{"O Auto da Compadecida", 12, "O Auto da..."},
		{"Ação Ação Ação", 8, "Ação ..."},
		{"Brasília, São João", 10, "Brasíli..."},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := truncate(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.LessOrEqual(t, utf8.RuneCountInString(got), tt.max)
		})
	}
}

func TestSetupLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "roulette.log")

	log := setupLogger(config.LoggingConfig{
		Level:      "info",
		Format:     "json",
		File:       path,
		MaxSize:    1,
		MaxBackups: 1,
	})
	log.Info().Str("movie", "Matrix").Msg("Spinning")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"movie":"Matrix"`)
}

func TestSendToOverseerr(t *testing.T) {
	logger = zerolog.Nop()
	t.Cleanup(func() {
		overseerrCli = nil
		dryRun = false
	})

	movie := &tmdb.Movie{ID: 603, Title: "Matrix"}

	overseerrCli = nil
	assert.Error(t, sendToOverseerr(context.Background(), movie))

	var posts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v1/auth/me":
			json.NewEncoder(w).Encode(map[string]any{"id": 1})
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/movie/603":
			w.Write([]byte(`{"id": 603, "title": "Matrix"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/request":
			posts.Add(1)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id": 42, "status": 1, "type": "movie"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	client, err := overseerr.NewClient(context.Background(), server.URL, "test-key", logger)
	require.NoError(t, err)
	overseerrCli = client

	dryRun = true
	require.NoError(t, sendToOverseerr(context.Background(), movie))
	assert.Zero(t, posts.Load())

	dryRun = false
	require.NoError(t, sendToOverseerr(context.Background(), movie))
	assert.Equal(t, int32(1), posts.Load())
}

func TestHandOffRequest(t *testing.T) {
	logger = zerolog.Nop()
	overseerrCli = nil

	pick := &roulette.Pick{Movie: &tmdb.Movie{ID: 603, Title: "Matrix"}}
	err := handOff(context.Background(), pick, pickOptions{request: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overseerr")
}

func TestRunSpinUnwatchedNeedsTautulli(t *testing.T) {
	logger = zerolog.Nop()
	tautulliCli = nil
	spinUnwatched = true
	t.Cleanup(func() { spinUnwatched = false })

	err := runSpin(spinCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--unwatched")
}

func TestUnwatchedAccept(t *testing.T) {
	logger = zerolog.Nop()
	t.Cleanup(func() { tautulliCli = nil })

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch q.Get("cmd") {
		case "get_server_info":
			fmt.Fprint(w, `{"response": {"result": "success", "data": {}}}`)
		case "get_history":
			records := "[]"
			if q.Get("guid") == "com.plexapp.agents.imdb://tt0133093" {
				records = `[{"title": "Matrix", "year": 1999, "percent_complete": 100}]`
			}
			fmt.Fprintf(w, `{"response": {"result": "success", "data": {"data": %s}}}`, records)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	client, err := tautulli.NewClient(context.Background(), server.URL, "test-key", logger)
	require.NoError(t, err)
	tautulliCli = client

	accept := allAccept(nil, tautulliCli.Unwatched(context.Background()))
	require.NotNil(t, accept)
	assert.False(t, accept(&tmdb.Movie{Title: "Matrix", IMDbID: "tt0133093", ReleaseDate: "1999-03-31"}))
	assert.True(t, accept(&tmdb.Movie{Title: "Central do Brasil", IMDbID: "tt0140888", ReleaseDate: "1998-04-03"}))
}
