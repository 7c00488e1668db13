package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"omac/internal/cli/appctx"
	"omac/internal/render"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show collection totals",
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runStats),
}

var statsJSON bool

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output as JSON")
}

func runStats(app *appctx.App, cmd *cobra.Command, args []string) error {
	stats, err := app.Store.Figures.Stats()
	if err != nil {
		return err
	}

	if statsJSON {
		r := render.NewRenderer(cmd.OutOrStdout(), render.Options{Format: render.FormatJSON})
		return r.RenderJSON(map[string]interface{}{
			"total_figures": stats.TotalFigures,
			"total_photos":  stats.TotalPhotos,
			"total_spent":   stats.TotalSpent,
			"total_value":   stats.TotalValue,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Figures: %d\n", stats.TotalFigures)
	fmt.Fprintf(out, "Photos:  %d\n", stats.TotalPhotos)
	fmt.Fprintf(out, "Spent:   %.2f\n", stats.TotalSpent)
	fmt.Fprintf(out, "Value:   %.2f\n", stats.TotalValue)
	return nil
}
