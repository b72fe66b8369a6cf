package overseerr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer serves /auth/me and delegates everything else to handler
func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path == "/api/v1/auth/me" {
			json.NewEncoder(w).Encode(map[string]any{"id": 1, "displayName": "Test User"})
			return
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	tests := []struct {
		name    string
		baseURL string
		apiKey  string
		errMsg  string
	}{
		{
			name:    "missing URL",
			baseURL: "",
			apiKey:  "test-key",
			errMsg:  "URL is required",
		},
		{
			name:    "missing API key",
			baseURL: "http://localhost:5055",
			apiKey:  "",
			errMsg:  "API key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(ctx, tt.baseURL, tt.apiKey, logger)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	t.Run("valid config", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("unexpected request to %s", r.URL.Path)
		})

		client, err := NewClient(ctx, server.URL+"/", "test-key", logger)
		require.NoError(t, err)
		assert.Equal(t, server.URL, client.baseURL)
	})

	t.Run("bad key", func(t *testing.T) {
		server := newTestServer(t, nil)

		_, err := NewClient(ctx, server.URL, "wrong", logger)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoConnection)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.True(t, apiErr.IsUnauthorized())
	})
}

func TestRequestMovie(t *testing.T) {
	tests := []struct {
		name        string
		movie       string
		wantPost    bool
		wantExisted bool
		wantStatus  MediaStatus
	}{
		{
			name:     "untracked movie is requested",
			movie:    `{"id": 603, "title": "Matrix"}`,
			wantPost: true,
		},
		{
			name:       "previously deleted movie is requested",
			movie:      `{"id": 603, "title": "Matrix", "mediaInfo": {"id": 9, "tmdbId": 603, "status": 1}}`,
			wantPost:   true,
			wantStatus: MediaStatusUnknown,
		},
		{
			name:        "pending movie is not requested again",
			movie:       `{"id": 603, "title": "Matrix", "mediaInfo": {"id": 9, "tmdbId": 603, "status": 2}}`,
			wantExisted: true,
			wantStatus:  MediaStatusPending,
		},
		{
			name:        "available movie is not requested",
			movie:       `{"id": 603, "title": "Matrix", "mediaInfo": {"id": 9, "tmdbId": 603, "status": 5}}`,
			wantExisted: true,
			wantStatus:  MediaStatusAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var posted *requestBody
			server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				switch {
				case r.Method == http.MethodGet && r.URL.Path == "/api/v1/movie/603":
					w.Write([]byte(tt.movie))
				case r.Method == http.MethodPost && r.URL.Path == "/api/v1/request":
					assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
					posted = &requestBody{}
					assert.NoError(t, json.NewDecoder(r.Body).Decode(posted))
					w.WriteHeader(http.StatusCreated)
					w.Write([]byte(`{"id": 42, "status": 1, "type": "movie", "media": {"tmdbId": 603}}`))
				default:
					http.NotFound(w, r)
				}
			})

			client, err := NewClient(context.Background(), server.URL, "test-key", zerolog.Nop())
			require.NoError(t, err)

			result, err := client.RequestMovie(context.Background(), 603)
			require.NoError(t, err)

			assert.Equal(t, tt.wantExisted, result.Existed)
			assert.Equal(t, tt.wantStatus, result.MediaStatus)
			if tt.wantPost {
				require.NotNil(t, posted)
				assert.Equal(t, requestBody{MediaType: MediaTypeMovie, MediaID: 603}, *posted)
				assert.Equal(t, 42, result.RequestID)
				assert.Equal(t, RequestStatusPending, result.Status)
			} else {
				assert.Nil(t, posted)
			}
		})
	}
}

func TestRequestMovieErrors(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/movie/1" {
			http.NotFound(w, r)
			return
		}
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message": "quota exceeded"}`))
			return
		}
		w.Write([]byte(`{"id": 603}`))
	})

	client, err := NewClient(context.Background(), server.URL, "test-key", zerolog.Nop())
	require.NoError(t, err)

	_, err = client.RequestMovie(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	_, err = client.RequestMovie(context.Background(), 603)
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "quota exceeded")
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "PENDING", RequestStatusPending.String())
	assert.Equal(t, "DECLINED", RequestStatusDeclined.String())
	assert.Equal(t, "UNKNOWN", RequestStatus(99).String())
	assert.Equal(t, "AVAILABLE", MediaStatusAvailable.String())
	assert.Equal(t, "UNKNOWN", MediaStatusNone.String())
	assert.False(t, MediaStatusUnknown.Requested())
	assert.True(t, MediaStatusProcessing.Requested())
}
