package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/s0up4200/roulette/qbittorrent"
	"github.com/s0up4200/roulette/radarr"
	"github.com/s0up4200/roulette/roulette"
	"github.com/s0up4200/roulette/tmdb"
)

// pickOptions are the extras and hand-offs shared by spin and movie
type pickOptions struct {
	providers bool
	torrents  bool
	save      bool
	radarr    bool
	request   bool
	download  bool
}

func addPickFlags(cmd *cobra.Command, opts *pickOptions) {
	cmd.Flags().BoolVar(&opts.providers, "providers", false, "show where the movie is streaming, for rent or for sale")
	cmd.Flags().BoolVar(&opts.torrents, "torrents", false, "search the torrent index for the movie")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save the movie to the watchlist")
	cmd.Flags().BoolVar(&opts.radarr, "radarr", false, "add the movie to Radarr")
	cmd.Flags().BoolVar(&opts.request, "request", false, "request the movie through Overseerr")
	cmd.Flags().BoolVar(&opts.download, "download", false, "send the best torrent to qBittorrent (implies --torrents)")
}

func (o pickOptions) enricher() *roulette.Enricher {
	var providers roulette.ProviderSource
	if o.providers {
		providers = catalog
	}

	var index roulette.TorrentSource
	if o.torrents || o.download {
		index = torrentSrc
	}

	return roulette.NewEnricher(providers, index, logger)
}

// selectionMessage turns selector errors into advice for the user
func selectionMessage(err error) string {
	switch {
	case errors.Is(err, roulette.ErrNoneFound):
		return "No movie matched these filters. Try loosening them."
	case errors.Is(err, roulette.ErrSelectionFailed):
		return "Could not reach the movie catalog. Try again."
	default:
		return err.Error()
	}
}

func printPick(pick *roulette.Pick, opts pickOptions) {
	movie := pick.Movie

	fmt.Println(strings.Repeat("━", 80))
	fmt.Printf("%s", movie.Title)
	if year := movie.Year(); year > 0 {
		fmt.Printf(" (%d)", year)
	}
	fmt.Printf("  ★ %.1f", movie.VoteAverage)
	if movie.Runtime > 0 {
		fmt.Printf("  %d min", movie.Runtime)
	}
	fmt.Println()

	if movie.OriginalTitle != "" && movie.OriginalTitle != movie.Title {
		fmt.Printf("Original title: %s\n", movie.OriginalTitle)
	}
	if names := movie.GenreNames(); len(names) > 0 {
		fmt.Printf("Genres: %s\n", strings.Join(names, ", "))
	}
	if movie.Tagline != "" {
		fmt.Printf("\n%q\n", movie.Tagline)
	}
	fmt.Printf("\n%s\n\n", movie.Overview)

	fmt.Printf("IMDb:   %s\n", movie.IMDbURL())
	fmt.Printf("Poster: %s\n", movie.PosterURL(""))
	if store != nil && store.Has(movie.ID) {
		fmt.Println("✓ In your watchlist")
	}

	if opts.providers {
		printProviders(pick.Providers)
	}
	if opts.torrents || opts.download {
		printTorrents(pick)
	}
	fmt.Println(strings.Repeat("━", 80))
}

func printProviders(providers *tmdb.WatchProviderResult) {
	if providers == nil {
		fmt.Printf("\nNot available on any service in %s.\n", catalog.Region())
		return
	}

	fmt.Printf("\nWhere to watch (%s):\n", catalog.Region())
	for _, group := range []struct {
		label string
		list  []tmdb.WatchProvider
	}{
		{"Streaming", providers.Flatrate},
		{"Rent", providers.Rent},
		{"Buy", providers.Buy},
	} {
		if len(group.list) == 0 {
			continue
		}
		names := make([]string, 0, len(group.list))
		for _, p := range group.list {
			names = append(names, p.ProviderName)
		}
		fmt.Printf("  %-10s %s\n", group.label+":", strings.Join(names, ", "))
	}
}

func printTorrents(pick *roulette.Pick) {
	if torrentSrc == nil {
		fmt.Println("\nTorrent search is disabled (set torrents.enabled).")
		return
	}
	if len(pick.Torrents) == 0 {
		fmt.Println("\nNo torrents found.")
		return
	}

	fmt.Println("\nTorrents:")
	for _, t := range pick.Torrents {
		fmt.Printf("  • %-60s %5d seeders  %s\n", truncate(t.Name, 60), t.Seeders, t.Size)
	}
}

// handOff runs the hand-offs requested for a pick. Each one is independent;
// failures are reported and the rest still run.
func handOff(ctx context.Context, pick *roulette.Pick, opts pickOptions) error {
	var errs []error
	movie := pick.Movie

	if opts.save {
		if dryRun {
			fmt.Printf("[DRY RUN] Would save %s to the watchlist\n", movie.Title)
		} else {
			store.Add(movie)
			if store.Has(movie.ID) {
				fmt.Printf("✓ Saved to watchlist (%d movies)\n", store.Count())
			} else {
				fmt.Printf("✗ Could not save %s to the watchlist\n", movie.Title)
			}
		}
	}

	if opts.radarr {
		if err := sendToRadarr(ctx, movie); err != nil {
			fmt.Printf("✗ Radarr: %v\n", err)
			errs = append(errs, err)
		}
	}

	if opts.request {
		if err := sendToOverseerr(ctx, movie); err != nil {
			fmt.Printf("✗ Overseerr: %v\n", err)
			errs = append(errs, err)
		}
	}

	if opts.download {
		if err := sendToQBittorrent(ctx, pick); err != nil {
			fmt.Printf("✗ qBittorrent: %v\n", err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func sendToRadarr(ctx context.Context, movie *tmdb.Movie) error {
	if radarrCli == nil {
		return errors.New("radarr is not enabled or could not be reached")
	}

	if dryRun {
		fmt.Printf("[DRY RUN] Would add %s to Radarr\n", movie.Title)
		return nil
	}

	result, err := radarrCli.AddMovie(ctx, movie, radarr.AddOptions{
		QualityProfileID: cfg.Radarr.QualityProfileID,
		RootFolder:       cfg.Radarr.RootFolder,
		Search:           cfg.Radarr.Search,
	})
	if err != nil {
		return err
	}

	if result.Existed {
		fmt.Printf("✓ %s is already in Radarr (ID: %d)\n", result.Title, result.ID)
	} else {
		fmt.Printf("✓ Added %s to Radarr (ID: %d)\n", result.Title, result.ID)
	}
	return nil
}

func sendToOverseerr(ctx context.Context, movie *tmdb.Movie) error {
	if overseerrCli == nil {
		return errors.New("overseerr is not enabled or could not be reached")
	}

	if dryRun {
		fmt.Printf("[DRY RUN] Would request %s\n", movie.Title)
		return nil
	}

	result, err := overseerrCli.RequestMovie(ctx, movie.ID)
	if err != nil {
		return err
	}

	if result.Existed {
		fmt.Printf("✓ %s is already requested (%s)\n", movie.Title, strings.ToLower(result.MediaStatus.String()))
	} else {
		fmt.Printf("✓ Requested %s (%s)\n", movie.Title, strings.ToLower(result.Status.String()))
	}
	return nil
}

func sendToQBittorrent(ctx context.Context, pick *roulette.Pick) error {
	if qbitClient == nil {
		return errors.New("qbittorrent is not enabled or could not be reached")
	}
	if len(pick.Torrents) == 0 {
		return errors.New("no torrent to download")
	}

	// Results rank year matches first, then by seeders.
	best := pick.Torrents[0]
	if dryRun {
		fmt.Printf("[DRY RUN] Would download %s\n", best.Name)
		return nil
	}

	err := qbitClient.AddMagnet(ctx, best.MagnetLink, qbittorrent.AddOptions{
		Category: cfg.QBittorrent.Category,
		SavePath: cfg.QBittorrent.SavePath,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Sent %s to qBittorrent\n", best.Name)
	return nil
}

// truncate shortens s to limit runes, ending with "..." when cut
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-3]) + "..."
}
