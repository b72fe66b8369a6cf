package cmd

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/roulette/server"
	"github.com/s0up4200/roulette/watchlist"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API used by the browser UI",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := server.New(server.Config{Addr: addr, Mode: cfg.Server.Mode}, server.Dependencies{
		Catalog:   catalog,
		Selector:  selector,
		Torrents:  torrentSrc,
		Watchlist: store,
		Filters:   filters,
		Presets:   presets,
	}, logger)

	// The watcher turns edits from other processes into events for SSE clients.
	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return watchlist.NewWatcher(store, cfg.Watchlist.PollInterval, logger).Run(ctx)
	})
	g.Go(func() error {
		return srv.Run(ctx)
	})

	return g.Wait()
}
