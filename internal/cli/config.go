package cli

import (
	"github.com/spf13/cobra"

	"omac/internal/cli/appctx"
	"omac/internal/render"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Prints the resolved configuration after applying environment variables,
.env.local, and ~/.config/omac/config.yaml, including the suggestion
lists used when entering new records.`,
	RunE: appctx.WithApp(appctx.ConfigOnly(), runConfig),
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(app *appctx.App, cmd *cobra.Command, args []string) error {
	r := render.NewRenderer(cmd.OutOrStdout(), render.Options{Format: render.FormatYAML})
	return r.RenderYAML(app.Config)
}
