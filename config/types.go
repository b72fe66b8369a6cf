package config

import (
	"time"

	"github.com/s0up4200/roulette/tmdb"
)

// Config represents the complete configuration structure
type Config struct {
	TMDB        TMDBConfig              `mapstructure:"tmdb"`
	Roulette    RouletteConfig          `mapstructure:"roulette"`
	Watchlist   WatchlistConfig         `mapstructure:"watchlist"`
	Torrents    TorrentsConfig          `mapstructure:"torrents"`
	Radarr      RadarrConfig            `mapstructure:"radarr"`
	QBittorrent QBittorrentConfig       `mapstructure:"qbittorrent"`
	Overseerr   OverseerrConfig         `mapstructure:"overseerr"`
	Tautulli    TautulliConfig          `mapstructure:"tautulli"`
	Server      ServerConfig            `mapstructure:"server"`
	Presets     map[string]PresetConfig `mapstructure:"presets"`
	Logging     LoggingConfig           `mapstructure:"logging"`
}

// TMDBConfig holds catalog API connection details
type TMDBConfig struct {
	URL      string        `mapstructure:"url"`
	APIKey   string        `mapstructure:"api_key"`
	Language string        `mapstructure:"language"`
	Region   string        `mapstructure:"region"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// RouletteConfig tunes the selection algorithm
type RouletteConfig struct {
	MaxPages     int `mapstructure:"max_pages"`
	MaxAttempts  int `mapstructure:"max_attempts"`
	MinVoteCount int `mapstructure:"min_vote_count"`
}

// WatchlistConfig sets where the watchlist lives
type WatchlistConfig struct {
	Dir          string        `mapstructure:"dir"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// TorrentsConfig holds torrent index settings
type TorrentsConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Limit   int           `mapstructure:"limit"`
}

// RadarrConfig holds Radarr API connection details
type RadarrConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	URL              string `mapstructure:"url"`
	APIKey           string `mapstructure:"api_key"`
	QualityProfileID int64  `mapstructure:"quality_profile_id"`
	RootFolder       string `mapstructure:"root_folder"`
	Search           bool   `mapstructure:"search"`
}

// QBittorrentConfig holds qBittorrent Web API connection details
type QBittorrentConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	URL      string `mapstructure:"url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Category string `mapstructure:"category"`
	SavePath string `mapstructure:"save_path"`
}

// OverseerrConfig holds Overseerr API connection details
type OverseerrConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	APIKey  string `mapstructure:"api_key"`
}

// TautulliConfig holds Tautulli API settings used to skip watched movies
type TautulliConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	URL             string  `mapstructure:"url"`
	APIKey          string  `mapstructure:"api_key"`
	User            string  `mapstructure:"user"`
	MinWatchPercent float64 `mapstructure:"min_watch_percent"`
}

// ServerConfig contains HTTP API settings
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Mode string `mapstructure:"mode"`
}

// PresetConfig is a named set of filters
type PresetConfig struct {
	Genres     []int   `mapstructure:"genres"`
	StartYear  int     `mapstructure:"start_year"`
	EndYear    int     `mapstructure:"end_year"`
	MinRating  float64 `mapstructure:"min_rating"`
	MinVotes   int     `mapstructure:"min_votes"`
	Expression string  `mapstructure:"expression"`
}

// Filters converts the preset into discovery filters
func (p PresetConfig) Filters() tmdb.Filters {
	return tmdb.Filters{
		GenreIDs:     p.Genres,
		StartYear:    p.StartYear,
		EndYear:      p.EndYear,
		MinRating:    p.MinRating,
		MinVoteCount: p.MinVotes,
	}
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Color      bool   `mapstructure:"color"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}
