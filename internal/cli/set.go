package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"omac/internal/cli/appctx"
)

var setCmd = &cobra.Command{
	Use:   "set <figure>",
	Short: "Update a figure's fields",
	Long: `Updates only the fields named by flags. Passing an empty value clears
the field.`,
	Args: cobra.ExactArgs(1),
	RunE: appctx.WithApp(appctx.DefaultOptions(), runSet),
}

var (
	setFlags figureFlags
	setName  string
)

func init() {
	rootCmd.AddCommand(setCmd)
	setFlags.register(setCmd)
	setCmd.Flags().StringVar(&setName, "name", "", "Rename the figure")
}

func runSet(app *appctx.App, cmd *cobra.Command, args []string) error {
	f, err := resolveFigure(app, args[0])
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("name") {
		f.Name = setName
	}
	setFlags.apply(cmd, f)
	f.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	if err := app.Store.Figures.Update(f); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", f.Name, shortUUID(f.UUID))
	return nil
}
