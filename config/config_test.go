package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		TMDB:     TMDBConfig{APIKey: "key"},
		Roulette: RouletteConfig{MaxPages: 500, MaxAttempts: 20, MinVoteCount: 100},
		Server:   ServerConfig{Mode: "release"},
		Logging:  LoggingConfig{Level: "info", Format: "console"},
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "env-key")
	path := writeConfig(t, "logging:\n  level: debug\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.TMDB.APIKey)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.URL)
	assert.Equal(t, "pt-BR", cfg.TMDB.Language)
	assert.Equal(t, "BR", cfg.TMDB.Region)
	assert.Equal(t, 10*time.Second, cfg.TMDB.Timeout)
	assert.Equal(t, 500, cfg.Roulette.MaxPages)
	assert.Equal(t, 20, cfg.Roulette.MaxAttempts)
	assert.Equal(t, 100, cfg.Roulette.MinVoteCount)
	assert.Equal(t, time.Second, cfg.Watchlist.PollInterval)
	assert.NotEmpty(t, cfg.Watchlist.Dir)
	assert.False(t, cfg.Torrents.Enabled)
	assert.Equal(t, "https://thepirateapi.fly.dev", cfg.Torrents.URL)
	assert.Equal(t, 5, cfg.Torrents.Limit)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.False(t, cfg.Overseerr.Enabled)
	assert.Equal(t, 85.0, cfg.Tautulli.MinWatchPercent)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "env-key")
	t.Setenv("TMDB_BASE_URL", "http://catalog.local/3")
	t.Setenv("PIRATE_API_URL", "http://index.local")
	t.Setenv("ROULETTE_ROULETTE_MAX_ATTEMPTS", "7")
	t.Setenv("ROULETTE_TMDB_REGION", "PT")
	path := writeConfig(t, "tmdb:\n  language: en-US\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://catalog.local/3", cfg.TMDB.URL)
	assert.Equal(t, "http://index.local", cfg.Torrents.URL)
	assert.Equal(t, 7, cfg.Roulette.MaxAttempts)
	assert.Equal(t, "PT", cfg.TMDB.Region)
	assert.Equal(t, "en-US", cfg.TMDB.Language)
}

func TestLoadPresets(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "env-key")
	path := writeConfig(t, `
presets:
  noventa:
    genres: [28, 12]
    start_year: 1990
    end_year: 1999
    min_rating: 7
    expression: Runtime < 130
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Contains(t, cfg.Presets, "noventa")

	preset := cfg.Presets["noventa"]
	assert.Equal(t, "Runtime < 130", preset.Expression)

	filters := preset.Filters()
	assert.Equal(t, []int{28, 12}, filters.GenreIDs)
	assert.Equal(t, 1990, filters.StartYear)
	assert.Equal(t, 1999, filters.EndYear)
	assert.Equal(t, 7.0, filters.MinRating)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing api key is fatal", func(t *testing.T) {
		t.Setenv("TMDB_API_KEY", "")
		path := writeConfig(t, "logging:\n  level: info\n")

		_, err := Load(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("explicit file must exist", func(t *testing.T) {
		t.Setenv("TMDB_API_KEY", "key")
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid preset", func(t *testing.T) {
		t.Setenv("TMDB_API_KEY", "key")
		path := writeConfig(t, "presets:\n  broken:\n    start_year: 2000\n    end_year: 1990\n")

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "blank api key", mutate: func(c *Config) { c.TMDB.APIKey = "  " }, wantErr: "tmdb.api_key"},
		{name: "page cap above catalog limit", mutate: func(c *Config) { c.Roulette.MaxPages = 501 }, wantErr: "roulette.max_pages"},
		{name: "zero attempts", mutate: func(c *Config) { c.Roulette.MaxAttempts = 0 }, wantErr: "roulette.max_attempts"},
		{name: "radarr without key", mutate: func(c *Config) {
			c.Radarr = RadarrConfig{Enabled: true, URL: "http://localhost:7878", APIKey: "your-api-key-here"}
		}, wantErr: "radarr.api_key"},
		{name: "radarr disabled ignores key", mutate: func(c *Config) { c.Radarr = RadarrConfig{URL: "x"} }},
		{name: "qbittorrent without url", mutate: func(c *Config) { c.QBittorrent = QBittorrentConfig{Enabled: true} }, wantErr: "qbittorrent.url"},
		{name: "overseerr without key", mutate: func(c *Config) {
			c.Overseerr = OverseerrConfig{Enabled: true, URL: "http://localhost:5055"}
		}, wantErr: "overseerr.api_key"},
		{name: "tautulli percent", mutate: func(c *Config) {
			c.Tautulli = TautulliConfig{Enabled: true, URL: "http://localhost:8181", APIKey: "k", MinWatchPercent: 120}
		}, wantErr: "tautulli.min_watch_percent"},
		{name: "tautulli enabled", mutate: func(c *Config) {
			c.Tautulli = TautulliConfig{Enabled: true, URL: "http://localhost:8181", APIKey: "k", MinWatchPercent: 85}
		}},
		{name: "server mode", mutate: func(c *Config) { c.Server.Mode = "prod" }, wantErr: "invalid server mode"},
		{name: "logging level", mutate: func(c *Config) { c.Logging.Level = "trace" }, wantErr: "invalid logging level"},
		{name: "logging format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "invalid logging format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
