package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"omac/internal/cli/appctx"
	"omac/internal/db"
	"omac/internal/photos"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create or migrate the collection database",
	Long: `Creates the database and photo directory if missing and applies any
pending schema migrations. Safe to re-run.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	// init bootstraps without the usual migration-pending check.
	app, err := appctx.Bootstrap(cmd, appctx.ConfigOnly())
	if err != nil {
		return err
	}
	defer app.Close()

	database, err := db.Open(app.Config.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := photos.New(app.Config.PhotosDir).EnsureDir(); err != nil {
		return err
	}

	applied, _, err := database.MigrationStatus()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s (%d migrations applied)\n",
		app.Config.DBPath, len(applied))
	fmt.Fprintf(cmd.OutOrStdout(), "Photo directory: %s\n", app.Config.PhotosDir)
	return nil
}
