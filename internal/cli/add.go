package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"omac/internal/cli/appctx"
	"omac/internal/domain"
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a figure to the collection",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runAdd),
}

var addFlags figureFlags

func init() {
	rootCmd.AddCommand(addCmd)
	addFlags.register(addCmd)
}

func runAdd(app *appctx.App, cmd *cobra.Command, args []string) error {
	f := &domain.Figure{Name: args[0]}
	addFlags.apply(cmd, f)

	if err := app.Store.Figures.Create(f); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", f.Name, shortUUID(f.UUID))
	return nil
}
