package cli

import (
	"github.com/spf13/cobra"

	"omac/internal/cli/appctx"
	"omac/internal/render"
)

var findCmd = &cobra.Command{
	Use:     "find <term>",
	Aliases: []string{"search"},
	Short:   "Search figures by name, series, wave, or manufacturer",
	Args:    cobra.ExactArgs(1),
	RunE:    appctx.WithApp(appctx.DefaultOptions(), runFind),
}

var (
	findJSON      bool
	findPorcelain bool
)

func init() {
	rootCmd.AddCommand(findCmd)
	findCmd.Flags().BoolVar(&findJSON, "json", false, "Output as JSON")
	findCmd.Flags().BoolVar(&findPorcelain, "porcelain", false, "Machine-readable output")
}

func runFind(app *appctx.App, cmd *cobra.Command, args []string) error {
	figures, err := app.Store.Figures.Search(args[0], "name", "asc")
	if err != nil {
		return err
	}

	r := render.NewRenderer(cmd.OutOrStdout(), render.Options{
		Format:    render.FormatTable,
		Porcelain: findPorcelain,
	})
	if findJSON || app.Config.Output == "json" {
		return r.RenderJSON(figures)
	}
	headers, rows := figureRows(figures)
	if app.Config.Output == "tsv" {
		return r.RenderTSV(headers, rows)
	}
	return r.RenderTable(headers, rows)
}
