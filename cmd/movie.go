package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var movieOpts pickOptions

// movieCmd represents the movie command
var movieCmd = &cobra.Command{
	Use:   "movie <id>",
	Short: "Show a movie by its catalog id",
	Long: `Show a movie by its catalog id, for example one from the watchlist or a
shared link. Only movies complete enough to be picked are shown.`,
	Args: cobra.ExactArgs(1),
	RunE: runMovie,
}

func init() {
	rootCmd.AddCommand(movieCmd)
	addPickFlags(movieCmd, &movieOpts)
}

func parseMovieID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid movie id '%s': must be a positive integer", arg)
	}
	return id, nil
}

func runMovie(cmd *cobra.Command, args []string) error {
	id, err := parseMovieID(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	movie, err := selector.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("movie %d: %s", id, selectionMessage(err))
	}

	pick := movieOpts.enricher().Enrich(ctx, movie)
	printPick(pick, movieOpts)

	return handOff(ctx, pick, movieOpts)
}
