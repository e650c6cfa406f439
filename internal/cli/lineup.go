package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/festie/internal/engine"
)

var lineupSearch string

var lineupCmd = &cobra.Command{
	Use:   "lineup",
	Short: "Browse the festival lineup",
	Long:  `List every performance in the catalog, newest imports first.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeStore, err := newEngine()
		if err != nil {
			return err
		}
		defer closeStore()

		result, err := eng.Lineup(context.Background(), &engine.LineupRequest{Search: lineupSearch})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSection("Lineup")
		if len(result.Performances) == 0 {
			PrintEmptyState(fmt.Sprintf("No artists match %q", lineupSearch))
			return nil
		}
		printPerformances(result.Performances)
		if lineupSearch != "" {
			fmt.Fprintln(stdout)
			PrintEmptyState(fmt.Sprintf("Showing %d of %s", len(result.Performances), PrintCount(result.Total, "artist", "artists")))
		}
		return nil
	},
}

var uploadCmd = &cobra.Command{
	Use:   "upload <image>",
	Short: "Add an artist from an image",
	Long: `Add a placeholder artist to the front of the lineup using the given image
as its artwork. The image is stored inline as a data URL.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeStore, err := newEngine()
		if err != nil {
			return err
		}
		defer closeStore()

		result, err := eng.Upload(context.Background(), &engine.UploadRequest{Path: args[0]})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSuccess(fmt.Sprintf("Added %s (%s)", result.Performance.Name, result.Performance.Genre))
		PrintLabelValue("ID", strconv.FormatInt(result.Performance.ID, 10))
		PrintLabelValue("Lineup", PrintCount(result.CatalogSize, "artist", "artists"))
		return nil
	},
}

func printPerformances(perfs []engine.PerformanceInfo) {
	rows := make([][]string, len(perfs))
	for i, p := range perfs {
		mark := ""
		if p.Favorite {
			mark = favoriteColor.Sprint("♥")
		}
		rows[i] = []string{strconv.FormatInt(p.ID, 10), p.Name, p.Genre, p.Slot, mark}
	}
	PrintTable([]string{"ID", "ARTIST", "GENRE", "TIME", ""}, rows)
}

func init() {
	lineupCmd.Flags().StringVarP(&lineupSearch, "search", "s", "", "Only show artists whose name contains this text")
}
