package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"omac/internal/cli/appctx"
)

var rmCmd = &cobra.Command{
	Use:     "rm <figure>",
	Aliases: []string{"remove"},
	Short:   "Remove a figure and its photos",
	Args:    cobra.ExactArgs(1),
	RunE:    appctx.WithApp(appctx.DefaultOptions(), runRm),
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(app *appctx.App, cmd *cobra.Command, args []string) error {
	f, err := resolveFigure(app, args[0])
	if err != nil {
		return err
	}

	paths, err := app.Store.Figures.Delete(f.UUID)
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := app.Photos.Delete(p); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s (%d photo files)\n", f.Name, len(paths))
	return nil
}
