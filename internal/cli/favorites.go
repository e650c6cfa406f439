package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/festie/internal/engine"
)

var favCmd = &cobra.Command{
	Use:   "fav <id>",
	Short: "Favorite or unfavorite an artist",
	Long:  `Toggle an artist in your schedule. Running it twice leaves the schedule unchanged.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("%w: invalid artist id %q", engine.ErrValidation, args[0])
		}

		eng, closeStore, err := newEngine()
		if err != nil {
			return err
		}
		defer closeStore()

		result, err := eng.ToggleFavorite(context.Background(), &engine.FavoriteRequest{ID: id})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		name := result.Name
		if name == "" {
			name = fmt.Sprintf("artist %d", result.ID)
		}
		if result.Favorite {
			PrintSuccess(fmt.Sprintf("Added %s to your schedule", name))
		} else {
			PrintSuccess(fmt.Sprintf("Removed %s from your schedule", name))
		}
		return nil
	},
}

var favsCmd = &cobra.Command{
	Use:   "favs",
	Short: "Show your schedule",
	Long:  `List your favorited artists and warn about overlapping sets.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeStore, err := newEngine()
		if err != nil {
			return err
		}
		defer closeStore()

		result, err := eng.Favorites(context.Background())
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSection("My Schedule")
		if len(result.Performances) == 0 {
			PrintEmptyState("No favorites yet. Use 'festie fav <id>' to add one.")
			return nil
		}
		printPerformances(result.Performances)
		fmt.Fprintln(stdout)
		printConflictBanner(result.Conflicts)
		return nil
	},
}

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Check your schedule for overlapping sets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeStore, err := newEngine()
		if err != nil {
			return err
		}
		defer closeStore()

		result, err := eng.Conflicts(context.Background())
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		printConflictBanner(result)
		if len(result.Descriptions) > 1 {
			PrintSubsection("All conflicts:")
			PrintList(result.Descriptions, 2)
		}
		return nil
	},
}

// printConflictBanner shows the primary conflict and its suggestion.
func printConflictBanner(result *engine.ConflictResult) {
	if !result.HasConflicts() {
		PrintSuccess("No schedule conflicts")
		return
	}
	PrintWarning(fmt.Sprintf("Schedule conflict: %s", result.Descriptions[0]))
	PrintInfo("  " + result.Suggestion)
}
