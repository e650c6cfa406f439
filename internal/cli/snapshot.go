package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/festie/internal/engine"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Back up or restore your lineup and schedule",
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Write a checksummed backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeStore, err := newEngine()
		if err != nil {
			return err
		}
		defer closeStore()

		result, err := eng.SaveSnapshot(context.Background(), &engine.SnapshotRequest{Path: args[0]})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSuccess(fmt.Sprintf("Saved snapshot to %s", result.Path))
		PrintLabelValue("Contents", strings.Join(result.Keys, ", "))
		PrintLabelValue("SHA-256", result.Fingerprint)
		return nil
	},
}

var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Replace your lineup and schedule with a backup",
	Long: `Verify a snapshot's checksum and, if it matches, replace the stored
lineup and favorites with its contents.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeStore, err := newEngine()
		if err != nil {
			return err
		}
		defer closeStore()

		result, err := eng.RestoreSnapshot(context.Background(), &engine.SnapshotRequest{Path: args[0]})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSuccess(fmt.Sprintf("Restored snapshot from %s", result.CreatedAt.Format("2006-01-02 15:04 MST")))
		PrintLabelValue("Lineup", PrintCount(result.Catalog, "artist", "artists"))
		PrintLabelValue("Favorites", PrintCount(result.Favorites, "artist", "artists"))
		return nil
	},
}

func init() {
	snapshotCmd.AddCommand(snapshotSaveCmd)
	snapshotCmd.AddCommand(snapshotRestoreCmd)
}
