package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// genresCmd represents the genres command
var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List catalog genres and their ids",
	Args:  cobra.NoArgs,
	RunE:  runGenres,
}

func init() {
	rootCmd.AddCommand(genresCmd)
}

func runGenres(cmd *cobra.Command, args []string) error {
	genres := catalog.ListGenres(cmd.Context())
	if len(genres) == 0 {
		return fmt.Errorf("no genres available, check the catalog connection with 'roulette test'")
	}

	fmt.Printf("%-8s %s\n", "ID", "GENRE")
	fmt.Println(strings.Repeat("━", 40))
	for _, g := range genres {
		fmt.Printf("%-8d %s\n", g.ID, g.Name)
	}
	return nil
}
