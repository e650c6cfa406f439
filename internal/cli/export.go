package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/festie/internal/engine"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export your schedule to a calendar",
}

var exportICSCmd = &cobra.Command{
	Use:   "ics",
	Short: "Write your scheduled favorites as an iCalendar file",
	Long: `Write every favorited artist with an announced set time as a calendar event.
Without --out the calendar is printed to stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeStore, err := newEngine()
		if err != nil {
			return err
		}
		defer closeStore()

		result, err := eng.ExportICS(context.Background(), &engine.ExportRequest{Out: exportOut})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if result.Path == "" {
			_, err := stdout.Write(result.Data)
			return err
		}

		PrintSuccess(fmt.Sprintf("Exported %s to %s", PrintCount(result.Events, "event", "events"), result.Path))
		if len(result.Skipped) > 0 {
			PrintWarning("Skipped (no set time):")
			PrintList(result.Skipped, 1)
		}
		return nil
	},
}

var exportLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Print an add-to-calendar link for your schedule",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeStore, err := newEngine()
		if err != nil {
			return err
		}
		defer closeStore()

		result, err := eng.CalendarLink(context.Background())
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintInfo(result.URL)
		return nil
	},
}

func init() {
	exportICSCmd.Flags().StringVarP(&exportOut, "out", "o", "", "File to write (default: stdout)")
	exportCmd.AddCommand(exportICSCmd)
	exportCmd.AddCommand(exportLinkCmd)
}
