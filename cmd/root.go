package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/s0up4200/roulette/config"
	"github.com/s0up4200/roulette/filter"
	"github.com/s0up4200/roulette/overseerr"
	"github.com/s0up4200/roulette/qbittorrent"
	"github.com/s0up4200/roulette/radarr"
	"github.com/s0up4200/roulette/roulette"
	"github.com/s0up4200/roulette/tautulli"
	"github.com/s0up4200/roulette/tmdb"
	"github.com/s0up4200/roulette/torrents"
	"github.com/s0up4200/roulette/watchlist"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger

	catalog      *tmdb.Client
	selector     *roulette.Selector
	store        *watchlist.Store
	filters      *filter.Manager
	presets      map[string]tmdb.Filters
	torrentSrc   roulette.TorrentSource
	radarrCli    *radarr.Client
	qbitClient   *qbittorrent.Client
	overseerrCli *overseerr.Client
	tautulliCli  *tautulli.Client
	dryRun       bool
	appVersion   = "dev"
	appBuilt     = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "roulette",
	Short: "Pick a random movie to watch",
	Long: `roulette picks a random movie from the catalog that matches your filters.

Filter by genre, release years, minimum rating and vote count, or with an
expression over the movie details. Picks can be saved to a local watchlist,
added to Radarr or sent to qBittorrent.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// SetVersion records the build information shown by --version and used by update
func SetVersion(version, buildTime string) {
	appVersion = version
	appBuilt = buildTime
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Interrupts cancel the context every command runs with.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "d", false, "show Radarr and qBittorrent hand-offs without making them")
}

// initializeApp loads the configuration and builds the clients. Optional
// integrations that fail to connect are logged and left disabled.
func initializeApp(cmd *cobra.Command, args []string) error {
	// Help and shell completion work without configuration.
	if cmd.Name() == "help" || (cmd.HasParent() && cmd.Parent().Name() == "completion") {
		return nil
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	catalog, err = tmdb.NewClient(cfg.TMDB.URL, cfg.TMDB.APIKey, logger,
		tmdb.WithTimeout(cfg.TMDB.Timeout),
		tmdb.WithLanguage(cfg.TMDB.Language),
		tmdb.WithRegion(cfg.TMDB.Region),
		tmdb.WithMinVoteCount(cfg.Roulette.MinVoteCount),
	)
	if err != nil {
		return fmt.Errorf("failed to create catalog client: %w", err)
	}

	selector = roulette.NewSelector(catalog, logger,
		roulette.WithMaxPages(cfg.Roulette.MaxPages),
		roulette.WithMaxAttempts(cfg.Roulette.MaxAttempts),
	)

	store = watchlist.NewStore(afero.NewOsFs(), cfg.Watchlist.Dir, logger)

	filters = filter.NewManager()
	presets = make(map[string]tmdb.Filters, len(cfg.Presets))
	expressions := make(map[string]string)
	for name, preset := range cfg.Presets {
		presets[name] = preset.Filters()
		if preset.Expression != "" {
			expressions[name] = preset.Expression
		}
	}
	if err := filters.RegisterFilters(expressions); err != nil {
		return fmt.Errorf("invalid preset expression: %w", err)
	}

	// Leave torrentSrc as an untyped nil when disabled so callers can check it.
	torrentSrc = nil
	if cfg.Torrents.Enabled {
		torrentSrc = torrents.NewClient(cfg.Torrents.URL, logger,
			torrents.WithTimeout(cfg.Torrents.Timeout),
			torrents.WithLimit(cfg.Torrents.Limit),
		)
	}

	if cfg.Radarr.Enabled {
		radarrCli, err = radarr.NewClient(cfg.Radarr.URL, cfg.Radarr.APIKey, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to create Radarr client, continuing without Radarr")
		} else {
			logger.Debug().Str("url", cfg.Radarr.URL).Msg("Radarr integration enabled")
		}
	}

	if cfg.QBittorrent.Enabled {
		qbitClient, err = qbittorrent.NewClient(cfg.QBittorrent.URL, cfg.QBittorrent.Username, cfg.QBittorrent.Password, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to create qBittorrent client, continuing without downloads")
		} else {
			logger.Debug().Str("url", cfg.QBittorrent.URL).Msg("qBittorrent integration enabled")
		}
	}

	if cfg.Overseerr.Enabled {
		overseerrCli, err = overseerr.NewClient(cmd.Context(), cfg.Overseerr.URL, cfg.Overseerr.APIKey, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to create Overseerr client, continuing without requests")
		} else {
			logger.Debug().Str("url", cfg.Overseerr.URL).Msg("Overseerr integration enabled")
		}
	}

	if cfg.Tautulli.Enabled {
		tautulliCli, err = tautulli.NewClient(cmd.Context(), cfg.Tautulli.URL, cfg.Tautulli.APIKey, logger,
			tautulli.WithUser(cfg.Tautulli.User),
			tautulli.WithMinWatchPercent(cfg.Tautulli.MinWatchPercent),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to create Tautulli client, continuing without watch status")
		} else {
			logger.Debug().Str("url", cfg.Tautulli.URL).Msg("Tautulli integration enabled")
		}
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	var console io.Writer = os.Stderr
	if cfg.Format != "json" {
		console = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
		}
	}

	if cfg.File == "" {
		return zerolog.New(console).With().Timestamp().Logger()
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
		return zerolog.New(console).With().Timestamp().Logger()
	}

	// The file always gets JSON lines, whatever the console format.
	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	return zerolog.New(zerolog.MultiLevelWriter(console, file)).With().Timestamp().Logger()
}
