package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/s0up4200/roulette/roulette"
	"github.com/s0up4200/roulette/tautulli"
	"github.com/s0up4200/roulette/tmdb"
	"github.com/s0up4200/roulette/torrents"
	"github.com/s0up4200/roulette/watchlist"
)

// ErrMissingAPIKey is returned when no catalog API key is configured
var ErrMissingAPIKey = errors.New("tmdb.api_key is required (set TMDB_API_KEY)")

// Load loads the configuration from file and environment. The config file is
// optional unless configPath names one explicitly.
func Load(configPath string) (*Config, error) {
	// Variables already set in the environment win over .env.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()

	setDefaults(v)
	bindEnv(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".roulette"))
		}

		v.AddConfigPath("/etc/roulette/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// bindEnv maps ROULETTE_SECTION_KEY onto every key and keeps the bare
// variable names the catalog and torrent settings are usually given as.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("ROULETTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("tmdb.api_key", "ROULETTE_TMDB_API_KEY", "TMDB_API_KEY")
	_ = v.BindEnv("tmdb.url", "ROULETTE_TMDB_URL", "TMDB_BASE_URL")
	_ = v.BindEnv("torrents.url", "ROULETTE_TORRENTS_URL", "PIRATE_API_URL")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Catalog defaults
	v.SetDefault("tmdb.url", tmdb.DefaultBaseURL)
	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("tmdb.language", tmdb.DefaultLanguage)
	v.SetDefault("tmdb.region", tmdb.DefaultRegion)
	v.SetDefault("tmdb.timeout", tmdb.DefaultTimeout)

	// Selection defaults
	v.SetDefault("roulette.max_pages", roulette.DefaultMaxPages)
	v.SetDefault("roulette.max_attempts", roulette.DefaultMaxAttempts)
	v.SetDefault("roulette.min_vote_count", tmdb.DefaultMinVoteCount)

	v.SetDefault("watchlist.dir", defaultWatchlistDir())
	v.SetDefault("watchlist.poll_interval", watchlist.DefaultPollInterval)

	v.SetDefault("torrents.enabled", false)
	v.SetDefault("torrents.url", torrents.DefaultBaseURL)
	v.SetDefault("torrents.timeout", torrents.DefaultTimeout)
	v.SetDefault("torrents.limit", 5)

	v.SetDefault("radarr.enabled", false)
	v.SetDefault("radarr.url", "http://localhost:7878")
	v.SetDefault("radarr.api_key", "")
	v.SetDefault("radarr.quality_profile_id", 1)
	v.SetDefault("radarr.root_folder", "")
	v.SetDefault("radarr.search", true)

	v.SetDefault("qbittorrent.enabled", false)
	v.SetDefault("qbittorrent.url", "http://localhost:8080")
	v.SetDefault("qbittorrent.username", "")
	v.SetDefault("qbittorrent.password", "")
	v.SetDefault("qbittorrent.category", "roulette")
	v.SetDefault("qbittorrent.save_path", "")

	v.SetDefault("overseerr.enabled", false)
	v.SetDefault("overseerr.url", "http://localhost:5055")
	v.SetDefault("overseerr.api_key", "")

	v.SetDefault("tautulli.enabled", false)
	v.SetDefault("tautulli.url", "http://localhost:8181")
	v.SetDefault("tautulli.api_key", "")
	v.SetDefault("tautulli.user", "")
	v.SetDefault("tautulli.min_watch_percent", tautulli.DefaultMinWatchPercent)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", false)
}

func defaultWatchlistDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "roulette")
	}
	return ".roulette"
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.TMDB.APIKey) == "" {
		return ErrMissingAPIKey
	}

	if cfg.Roulette.MaxPages < 1 || cfg.Roulette.MaxPages > roulette.DefaultMaxPages {
		return fmt.Errorf("roulette.max_pages must be between 1 and %d", roulette.DefaultMaxPages)
	}
	if cfg.Roulette.MaxAttempts < 1 {
		return fmt.Errorf("roulette.max_attempts must be at least 1")
	}
	if cfg.Roulette.MinVoteCount < 0 {
		return fmt.Errorf("roulette.min_vote_count must not be negative")
	}

	if cfg.Radarr.Enabled {
		if cfg.Radarr.URL == "" {
			return fmt.Errorf("radarr.url is required when radarr is enabled")
		}
		if cfg.Radarr.APIKey == "" || cfg.Radarr.APIKey == "your-api-key-here" {
			return fmt.Errorf("radarr.api_key must be set to a valid API key")
		}
	}

	if cfg.QBittorrent.Enabled && cfg.QBittorrent.URL == "" {
		return fmt.Errorf("qbittorrent.url is required when qbittorrent is enabled")
	}

	if cfg.Overseerr.Enabled && (cfg.Overseerr.URL == "" || cfg.Overseerr.APIKey == "") {
		return fmt.Errorf("overseerr.url and overseerr.api_key are required when overseerr is enabled")
	}

	if cfg.Tautulli.Enabled {
		if cfg.Tautulli.URL == "" || cfg.Tautulli.APIKey == "" {
			return fmt.Errorf("tautulli.url and tautulli.api_key are required when tautulli is enabled")
		}
		if cfg.Tautulli.MinWatchPercent <= 0 || cfg.Tautulli.MinWatchPercent > 100 {
			return fmt.Errorf("tautulli.min_watch_percent must be between 0 and 100")
		}
	}

	for name, preset := range cfg.Presets {
		if err := preset.Filters().Validate(); err != nil {
			return fmt.Errorf("invalid preset %q: %w", name, err)
		}
	}

	validModes := map[string]bool{
		"debug":   true,
		"release": true,
		"test":    true,
	}
	if !validModes[cfg.Server.Mode] {
		return fmt.Errorf("invalid server mode: %s", cfg.Server.Mode)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
