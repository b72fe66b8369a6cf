package tautulli

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/roulette/tmdb"
)

type fakeTautulli struct {
	mu       sync.Mutex
	byGUID   map[string]string
	bySearch map[string]string
	queries  []url.Values
}

func (f *fakeTautulli) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("apikey") != "test-key" {
		fmt.Fprint(w, `{"response": {"result": "error", "message": "Invalid apikey", "data": {}}}`)
		return
	}

	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()

	switch q.Get("cmd") {
	case "get_server_info":
		fmt.Fprint(w, `{"response": {"result": "success", "data": {"pms_name": "plex"}}}`)
	case "get_history":
		records := "[]"
		if guid := q.Get("guid"); guid != "" && f.byGUID[guid] != "" {
			records = f.byGUID[guid]
		}
		if search := q.Get("search"); search != "" && f.bySearch[search] != "" {
			records = f.bySearch[search]
		}
		fmt.Fprintf(w, `{"response": {"result": "success", "data": {"data": %s}}}`, records)
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, fake *fakeTautulli, opts ...Option) *Client {
	t.Helper()

	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client, err := NewClient(context.Background(), server.URL+"/", "test-key", zerolog.Nop(), opts...)
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	server := httptest.NewServer(&fakeTautulli{})
	defer server.Close()

	_, err := NewClient(context.Background(), server.URL, "wrong", zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAPIFailure)
	assert.Contains(t, err.Error(), "Invalid apikey")
}

func TestWatchStatus(t *testing.T) {
	fake := &fakeTautulli{
		byGUID: map[string]string{
			"com.plexapp.agents.imdb://tt0133093": `[
				{"title": "Matrix", "year": 1999, "percent_complete": 40, "date": 1700000000},
				{"title": "Matrix", "year": 1999, "percent_complete": 97, "date": 1710000000}
			]`,
		},
		bySearch: map[string]string{
			"Duna": `[
				{"title": "Duna", "year": 1984, "percent_complete": 100},
				{"title": "Duna", "year": 2021, "percent_complete": 20},
				{"title": "Duna: Parte Dois", "year": 2024, "percent_complete": 100}
			]`,
		},
	}
	client := newTestClient(t, fake)
	ctx := context.Background()

	t.Run("by imdb id", func(t *testing.T) {
		status, err := client.WatchStatus(ctx, &tmdb.Movie{ID: 603, Title: "Matrix", IMDbID: "tt0133093"})
		require.NoError(t, err)
		assert.True(t, status.Watched)
		assert.Equal(t, 2, status.PlayCount)
		assert.Equal(t, float64(97), status.MaxProgress)
		assert.Equal(t, int64(1710000000), status.LastWatched.Unix())
	})

	t.Run("title fallback matches the year", func(t *testing.T) {
		status, err := client.WatchStatus(ctx, &tmdb.Movie{ID: 438631, Title: "Duna", ReleaseDate: "2021-10-21", IMDbID: "tt1160419"})
		require.NoError(t, err)
		assert.False(t, status.Watched)
		assert.Equal(t, 1, status.PlayCount)

		status, err = client.WatchStatus(ctx, &tmdb.Movie{ID: 841, Title: "Duna", ReleaseDate: "1984-12-14"})
		require.NoError(t, err)
		assert.True(t, status.Watched)
	})

	t.Run("never played", func(t *testing.T) {
		status, err := client.WatchStatus(ctx, &tmdb.Movie{ID: 1, Title: "Inédito"})
		require.NoError(t, err)
		assert.False(t, status.Watched)
		assert.Zero(t, status.PlayCount)
	})
}

func TestWatchStatusOptions(t *testing.T) {
	fake := &fakeTautulli{
		byGUID: map[string]string{
			"com.plexapp.agents.imdb://tt0133093": `[{"title": "Matrix", "year": 1999, "percent_complete": 60}]`,
		},
	}
	client := newTestClient(t, fake, WithUser("ana"), WithMinWatchPercent(50))

	status, err := client.WatchStatus(context.Background(), &tmdb.Movie{Title: "Matrix", IMDbID: "tt0133093"})
	require.NoError(t, err)
	assert.True(t, status.Watched)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	last := fake.queries[len(fake.queries)-1]
	assert.Equal(t, "ana", last.Get("user"))
	assert.Equal(t, "movie", last.Get("media_type"))
}

func TestUnwatched(t *testing.T) {
	fake := &fakeTautulli{
		byGUID: map[string]string{
			"com.plexapp.agents.imdb://tt0133093": `[{"title": "Matrix", "year": 1999, "percent_complete": 100}]`,
		},
	}
	client := newTestClient(t, fake)
	accept := client.Unwatched(context.Background())

	assert.False(t, accept(&tmdb.Movie{Title: "Matrix", IMDbID: "tt0133093"}))
	assert.True(t, accept(&tmdb.Movie{Title: "Amnésia", IMDbID: "tt0209144"}))

	// A cancelled lookup keeps the candidate.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, client.Unwatched(ctx)(&tmdb.Movie{Title: "Matrix", IMDbID: "tt0133093"}))
}

func TestIsWatched(t *testing.T) {
	tests := []struct {
		name   string
		record HistoryRecord
		want   bool
	}{
		{"complete", HistoryRecord{PercentComplete: 90}, true},
		{"partial", HistoryRecord{PercentComplete: 50}, false},
		{"marked watched", HistoryRecord{PercentComplete: 10, WatchedStatus: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.IsWatched(DefaultMinWatchPercent))
		})
	}
}
