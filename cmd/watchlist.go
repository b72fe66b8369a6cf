package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/roulette/watchlist"
)

// watchlistCmd represents the watchlist command
var watchlistCmd = &cobra.Command{
	Use:     "watchlist",
	Aliases: []string{"wl"},
	Short:   "Manage the saved movies",
	Long: `Manage the movies saved for later. The watchlist is a JSON file shared by
every roulette process on this machine.`,
}

var watchlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved movies in the order they were saved",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		items := store.List()
		if len(items) == 0 {
			fmt.Println("Your watchlist is empty. Save a pick with 'roulette spin --save'.")
			return nil
		}

		fmt.Println(strings.Repeat("━", 85))
		fmt.Printf("%-10s %-48s %-6s %-6s %s\n", "ID", "MOVIE", "YEAR", "RATING", "SAVED")
		fmt.Println(strings.Repeat("━", 85))
		for _, item := range items {
			title := truncate(item.Title, 46)
			year := "-"
			if len(item.ReleaseDate) >= 4 {
				year = item.ReleaseDate[:4]
			}
			fmt.Printf("%-10d %-48s %-6s %-6.1f %s\n", item.ID, title, year, item.VoteAverage, item.SavedTime().Format("2006-01-02"))
		}
		fmt.Println(strings.Repeat("━", 85))
		fmt.Printf("%d saved\n", len(items))
		return nil
	},
}

var watchlistAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Save a movie by its catalog id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseMovieID(args[0])
		if err != nil {
			return err
		}

		movie, err := selector.GetByID(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("movie %d: %s", id, selectionMessage(err))
		}

		store.Add(movie)
		if !store.Has(id) {
			return fmt.Errorf("could not save %s, see the log for details", movie.Title)
		}
		fmt.Printf("✓ Saved %s (%d movies)\n", movie.Title, store.Count())
		return nil
	},
}

var watchlistRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a movie from the watchlist",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseMovieID(args[0])
		if err != nil {
			return err
		}

		if !store.Has(id) {
			fmt.Printf("Movie %d is not in the watchlist\n", id)
			return nil
		}

		store.Remove(id)
		fmt.Printf("✓ Removed movie %d (%d movies)\n", id, store.Count())
		return nil
	},
}

var watchlistHasCmd = &cobra.Command{
	Use:   "has <id>",
	Short: "Report whether a movie is saved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseMovieID(args[0])
		if err != nil {
			return err
		}
		fmt.Println(store.Has(id))
		return nil
	},
}

var watchlistCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of saved movies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(store.Count())
		return nil
	},
}

var watchlistWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print watchlist changes as they happen, including other processes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		unsubscribe := store.Subscribe(func(e watchlist.Event) {
			switch e.Type {
			case watchlist.EventAdded:
				fmt.Printf("+ %d (%d movies)\n", e.MovieID, e.Count)
			case watchlist.EventRemoved:
				fmt.Printf("- %d (%d movies)\n", e.MovieID, e.Count)
			default:
				fmt.Printf("~ changed (%d movies)\n", e.Count)
			}
		})
		defer unsubscribe()

		fmt.Printf("Watching %s (%d movies), press Ctrl+C to stop\n", store.Path(), store.Count())
		return watchlist.NewWatcher(store, cfg.Watchlist.PollInterval, logger).Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(watchlistCmd)

	watchlistCmd.AddCommand(watchlistListCmd)
	watchlistCmd.AddCommand(watchlistAddCmd)
	watchlistCmd.AddCommand(watchlistRemoveCmd)
	watchlistCmd.AddCommand(watchlistHasCmd)
	watchlistCmd.AddCommand(watchlistCountCmd)
	watchlistCmd.AddCommand(watchlistWatchCmd)
}
