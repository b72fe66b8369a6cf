package cmd

import (
	"fmt"
	"runtime"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const releaseRepository = "s0up4200/roulette"

var checkOnly bool

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update roulette to the latest release",
	Long: `Check GitHub for a newer release and replace the running binary with it.

Development builds cannot be updated in place.`,
	Args: cobra.NoArgs,
	// Updating must work even when the configuration is broken.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().BoolVar(&checkOnly, "check", false, "only report whether an update is available")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	current, err := semver.ParseTolerant(appVersion)
	if err != nil {
		return fmt.Errorf("cannot update a %s build: version is not a release", appVersion)
	}

	fmt.Printf("Current version: %s (built %s)\n", current, appBuilt)

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(releaseRepository))
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s/%s", runtime.GOOS, runtime.GOARCH)
	}

	if latest.LessOrEqual(current.String()) {
		fmt.Println("✓ Already up to date!")
		return nil
	}

	fmt.Printf("New version available: %s\n", latest.Version())
	if checkOnly {
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	if dryRun {
		fmt.Printf("[DRY RUN] Would replace %s with %s\n", exe, latest.AssetName)
		return nil
	}

	fmt.Printf("→ Downloading %s... ", latest.AssetName)
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		fmt.Println("✗ Failed")
		return fmt.Errorf("failed to update binary: %w", err)
	}
	fmt.Println("✓ Done")

	fmt.Printf("✓ Updated to %s\n", latest.Version())
	return nil
}
