package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connections to the catalog and enabled integrations",
	Args:  cobra.NoArgs,
	RunE:  runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	fmt.Printf("Testing connection to the catalog at %s...\n", cfg.TMDB.URL)
	if err := catalog.Ping(ctx); err != nil {
		fmt.Println("✗ Connection failed")
		return fmt.Errorf("catalog: %w", err)
	}
	fmt.Println("✓ Connection successful!")

	genres := catalog.ListGenres(ctx)
	fmt.Printf("- Genres: %d\n", len(genres))
	fmt.Printf("- Language: %s, region: %s\n", cfg.TMDB.Language, cfg.TMDB.Region)

	fmt.Printf("\nWatchlist: %s (%d movies)\n", store.Path(), store.Count())

	if torrentSrc != nil {
		fmt.Printf("Torrent index: %s\n", cfg.Torrents.URL)
	} else {
		fmt.Println("Torrent index: Disabled")
	}

	switch {
	case !cfg.Radarr.Enabled:
		fmt.Println("\nRadarr integration: Disabled")
	case radarrCli == nil:
		fmt.Printf("\n✗ Could not connect to Radarr at %s\n", cfg.Radarr.URL)
	default:
		fmt.Printf("\nTesting connection to Radarr at %s...\n", cfg.Radarr.URL)
		if err := radarrCli.Ping(); err != nil {
			fmt.Printf("✗ Radarr connection failed: %v\n", err)
		} else {
			fmt.Println("✓ Radarr connection successful!")
		}
	}

	switch {
	case !cfg.QBittorrent.Enabled:
		fmt.Println("\nqBittorrent integration: Disabled")
	case qbitClient == nil:
		fmt.Printf("\n✗ Could not connect to qBittorrent at %s\n", cfg.QBittorrent.URL)
	default:
		fmt.Printf("\nTesting connection to qBittorrent at %s...\n", cfg.QBittorrent.URL)
		version, err := qbitClient.Version(ctx)
		if err != nil {
			fmt.Printf("✗ qBittorrent connection failed: %v\n", err)
		} else {
			fmt.Printf("✓ qBittorrent %s\n", version)
		}
	}

	switch {
	case !cfg.Overseerr.Enabled:
		fmt.Println("\nOverseerr integration: Disabled")
	case overseerrCli == nil:
		fmt.Printf("\n✗ Could not connect to Overseerr at %s\n", cfg.Overseerr.URL)
	default:
		fmt.Printf("\nTesting connection to Overseerr at %s...\n", cfg.Overseerr.URL)
		if err := overseerrCli.TestConnection(ctx); err != nil {
			fmt.Printf("✗ Overseerr connection failed: %v\n", err)
		} else {
			fmt.Println("✓ Overseerr connection successful!")
		}
	}

	switch {
	case !cfg.Tautulli.Enabled:
		fmt.Println("\nTautulli integration: Disabled")
	case tautulliCli == nil:
		fmt.Printf("\n✗ Could not connect to Tautulli at %s\n", cfg.Tautulli.URL)
	default:
		fmt.Printf("\nTesting connection to Tautulli at %s...\n", cfg.Tautulli.URL)
		if err := tautulliCli.TestConnection(ctx); err != nil {
			fmt.Printf("✗ Tautulli connection failed: %v\n", err)
		} else {
			fmt.Println("✓ Tautulli connection successful!")
			fmt.Printf("- Minimum watch percent: %.0f%%\n", cfg.Tautulli.MinWatchPercent)
		}
	}

	return nil
}
