package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"omac/internal/cli/appctx"
	"omac/internal/csvio"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the collection as CSV",
	Long:  `Writes the full collection as CSV to the given file, or stdout.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runExport),
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(app *appctx.App, cmd *cobra.Command, args []string) error {
	figures, err := app.Store.Figures.List("created", "asc")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := csvio.WriteFigures(out, figures); err != nil {
		return err
	}
	if len(args) == 1 {
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d figures to %s\n", len(figures), args[0])
	}
	return nil
}
