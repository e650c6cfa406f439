package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/festie/internal/engine"
	"github.com/danieljhkim/festie/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import artists from a poster, link or calendar",
	Long: `Run the smart import wizard. Each import goes through scanning, matching
and building stages before the new artists are added to the front of the lineup.`,
}

func newImportCmd(kind, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(kind, args[0])
		},
	}
}

func runImport(kind, target string) error {
	eng, closeStore, err := newEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	observe := func(p importer.Progress) {
		if jsonOutput {
			return
		}
		switch p.Stage {
		case importer.StageComplete, importer.StageFailed:
			return
		}
		PrintSubsection(p.Status)
		PrintEmptyState("  " + p.Detail)
	}

	if !jsonOutput {
		PrintSection("Smart Import")
	}

	result, err := eng.Import(ctx, &engine.ImportRequest{Kind: kind, Target: target}, observe)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(result)
	}

	fmt.Fprintln(stdout)
	PrintSuccess(result.Message)
	names := make([]string, len(result.Added))
	for i, p := range result.Added {
		names[i] = fmt.Sprintf("%s (%s)", p.Name, p.Genre)
	}
	PrintList(names, 1)
	return nil
}

func init() {
	importCmd.AddCommand(newImportCmd(engine.ImportPoster, "poster <image>", "Scan a lineup poster"))
	importCmd.AddCommand(newImportCmd(engine.ImportLink, "link <url>", "Scrape a lineup web page"))
	importCmd.AddCommand(newImportCmd(engine.ImportCalendar, "ics <file>", "Import events from an iCalendar file"))
}
