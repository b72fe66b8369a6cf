package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/roulette/filter"
	"github.com/s0up4200/roulette/roulette"
	"github.com/s0up4200/roulette/tmdb"
)

const maxConcurrentSpins = 4

var (
	spinGenres    []int
	spinFrom      int
	spinTo        int
	spinMinRating float64
	spinMinVotes  int
	spinExpr      string
	spinPreset    string
	spinCount     int
	spinUnwatched bool
	spinOpts      pickOptions
)

// spinCmd represents the spin command
var spinCmd = &cobra.Command{
	Use:   "spin",
	Short: "Pick a random movie",
	Long: `Pick a random movie that matches the given filters.

Filters from a preset can be overridden by the flags. An expression given with
--filter is evaluated against each candidate's details, for example:

  roulette spin -g 28 --from 1990 --to 1999 -f 'Runtime < 120'`,
	Args: cobra.NoArgs,
	RunE: runSpin,
}

func init() {
	rootCmd.AddCommand(spinCmd)

	spinCmd.Flags().IntSliceVarP(&spinGenres, "genre", "g", nil, "genre id (repeatable, see 'roulette genres')")
	spinCmd.Flags().IntVar(&spinFrom, "from", 0, "earliest release year")
	spinCmd.Flags().IntVar(&spinTo, "to", 0, "latest release year")
	spinCmd.Flags().Float64Var(&spinMinRating, "min-rating", 0, "minimum average rating (0-10)")
	spinCmd.Flags().IntVar(&spinMinVotes, "min-votes", 0, "minimum vote count (default from config)")
	spinCmd.Flags().StringVarP(&spinExpr, "filter", "f", "", "filter expression evaluated against movie details")
	spinCmd.Flags().StringVarP(&spinPreset, "preset", "p", "", "use a preset from config")
	spinCmd.Flags().BoolVar(&spinUnwatched, "unwatched", false, "skip movies already watched on Plex (needs Tautulli)")
	spinCmd.Flags().IntVarP(&spinCount, "count", "n", 1, "number of independent picks")
	addPickFlags(spinCmd, &spinOpts)
}

// spinFilters resolves the preset and the flags into discovery filters and a
// candidate expression
func spinFilters(cmd *cobra.Command) (tmdb.Filters, roulette.CandidateFilter, error) {
	var base tmdb.Filters
	var presetFilter filter.Filter

	if spinPreset != "" {
		preset, ok := presets[spinPreset]
		if !ok {
			return tmdb.Filters{}, nil, fmt.Errorf("preset '%s' not found in config", spinPreset)
		}
		base = preset
		presetFilter, _ = filters.GetFilter(spinPreset)
	}

	flags := cmd.Flags()
	if flags.Changed("genre") {
		base.GenreIDs = spinGenres
	}
	if flags.Changed("from") {
		base.StartYear = spinFrom
	}
	if flags.Changed("to") {
		base.EndYear = spinTo
	}
	if flags.Changed("min-rating") {
		base.MinRating = spinMinRating
	}
	if flags.Changed("min-votes") {
		base.MinVoteCount = spinMinVotes
	}

	if err := base.Validate(); err != nil {
		return tmdb.Filters{}, nil, err
	}

	var exprFilter filter.Filter
	if spinExpr != "" {
		var err error
		exprFilter, err = filters.Compile(spinExpr)
		if err != nil {
			return tmdb.Filters{}, nil, fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	return base, filter.AllOf(presetFilter, exprFilter), nil
}

// allAccept combines candidate filters, skipping nil ones
func allAccept(accepts ...roulette.CandidateFilter) roulette.CandidateFilter {
	var active []roulette.CandidateFilter
	for _, accept := range accepts {
		if accept != nil {
			active = append(active, accept)
		}
	}
	if len(active) == 0 {
		return nil
	}

	return func(movie *tmdb.Movie) bool {
		for _, accept := range active {
			if !accept(movie) {
				return false
			}
		}
		return true
	}
}

func runSpin(cmd *cobra.Command, args []string) error {
	if spinCount < 1 {
		return fmt.Errorf("--count must be at least 1")
	}

	base, accept, err := spinFilters(cmd)
	if err != nil {
		return err
	}

	logger.Info().
		Ints("genres", base.GenreIDs).
		Int("from", base.StartYear).
		Int("to", base.EndYear).
		Float64("min_rating", base.MinRating).
		Str("filter", spinExpr).
		Int("count", spinCount).
		Msg("Spinning")

	ctx := cmd.Context()

	if spinUnwatched {
		if tautulliCli == nil {
			return errors.New("--unwatched needs tautulli to be enabled and reachable")
		}
		accept = allAccept(accept, tautulliCli.Unwatched(ctx))
	}

	picks := make([]*roulette.Pick, spinCount)
	errs := make([]error, spinCount)
	enricher := spinOpts.enricher()

	// Picks are independent, so one failure does not cancel the others.
	var g errgroup.Group
	g.SetLimit(maxConcurrentSpins)
	for i := range spinCount {
		g.Go(func() error {
			movie, err := selector.PickRandomMatching(ctx, base, accept)
			if err != nil {
				errs[i] = err
				return nil
			}
			picks[i] = enricher.Enrich(ctx, movie)
			return nil
		})
	}
	_ = g.Wait()

	var failed int
	var handOffErrs []error
	for i := range spinCount {
		if spinCount > 1 {
			fmt.Printf("\n#%d\n", i+1)
		}
		if errs[i] != nil {
			logger.Debug().Err(errs[i]).Msg("Spin failed")
			fmt.Println(selectionMessage(errs[i]))
			failed++
			continue
		}

		printPick(picks[i], spinOpts)
		if err := handOff(ctx, picks[i], spinOpts); err != nil {
			handOffErrs = append(handOffErrs, err)
		}
	}

	if failed == spinCount {
		return errors.New("no movie selected")
	}
	if len(handOffErrs) > 0 {
		return fmt.Errorf("some hand-offs failed: %w", errors.Join(handOffErrs...))
	}
	return nil
}
