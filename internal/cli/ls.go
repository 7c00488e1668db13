package cli

import (
	"github.com/spf13/cobra"

	"omac/internal/cli/appctx"
	"omac/internal/render"
)

var lsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List the collection",
	RunE:    appctx.WithApp(appctx.DefaultOptions(), runLs),
}

var (
	lsSort      string
	lsOrder     string
	lsJSON      bool
	lsPorcelain bool
)

func init() {
	rootCmd.AddCommand(lsCmd)

	lsCmd.Flags().StringVar(&lsSort, "sort", "name", "Sort column (name, series, manufacturer, year, condition, created, updated)")
	lsCmd.Flags().StringVar(&lsOrder, "order", "asc", "Sort order (asc, desc)")
	lsCmd.Flags().BoolVar(&lsJSON, "json", false, "Output as JSON")
	lsCmd.Flags().BoolVar(&lsPorcelain, "porcelain", false, "Machine-readable output")
}

func runLs(app *appctx.App, cmd *cobra.Command, args []string) error {
	figures, err := app.Store.Figures.List(lsSort, lsOrder)
	if err != nil {
		return err
	}

	r := render.NewRenderer(cmd.OutOrStdout(), render.Options{
		Format:    render.FormatTable,
		Porcelain: lsPorcelain,
	})
	if lsJSON || app.Config.Output == "json" {
		return r.RenderJSON(figures)
	}
	headers, rows := figureRows(figures)
	if app.Config.Output == "tsv" {
		return r.RenderTSV(headers, rows)
	}
	return r.RenderTable(headers, rows)
}
