package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"omac/internal/backup"
	"omac/internal/cli/appctx"
)

var backupCmd = &cobra.Command{
	Use:   "backup [file]",
	Short: "Write a full backup archive",
	Long: `Creates a zip archive holding every figure record, photo reference, and
photo file. Without an argument the archive is written to the configured
backup directory under a timestamped name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: appctx.WithApp(appctx.DefaultOptions(), runBackup),
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Replace the collection with a backup archive",
	Long: `Restores a backup archive, replacing the current collection entirely.
To combine a backup with the current collection instead, use
'omac import <file>.zip'.`,
	Args: cobra.ExactArgs(1),
	RunE: appctx.WithApp(appctx.DefaultOptions(), runRestore),
}

var restoreForce bool

func init() {
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)

	restoreCmd.Flags().BoolVarP(&restoreForce, "force", "f", false, "Skip the confirmation prompt")
}

func runBackup(app *appctx.App, cmd *cobra.Command, args []string) error {
	outPath := ""
	if len(args) == 1 {
		outPath = args[0]
	} else {
		name := fmt.Sprintf("omac-backup-%s.zip", time.Now().UTC().Format("20060102-150405"))
		outPath = filepath.Join(app.Config.BackupDir, name)
	}

	manifest, err := backup.Create(app.Store, app.Photos, outPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Backed up %d figures and %d photos to %s\n",
		manifest.FigureCount, manifest.PhotoCount, outPath)
	return nil
}

func runRestore(app *appctx.App, cmd *cobra.Command, args []string) error {
	if !restoreForce {
		stats, err := app.Store.Figures.Stats()
		if err != nil {
			return err
		}
		if stats.TotalFigures > 0 {
			return fmt.Errorf("restore replaces the current collection (%d figures); re-run with --force",
				stats.TotalFigures)
		}
	}

	manifest, err := backup.Restore(args[0], app.Store, app.Photos)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Restored %d figures and %d photos from %s\n",
		manifest.FigureCount, manifest.PhotoCount, args[0])
	return nil
}
