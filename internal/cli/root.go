package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "omac",
	Short: "Local action figure collection manager",
	Long: `omac manages a personal action figure collection on a SQLite backend:
figures, photos, a wishlist, CSV import/export with duplicate-aware
merging, and full backup archives.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to database file (overrides OMAC_DB_PATH)")
	rootCmd.PersistentFlags().String("photos", "", "Path to photo directory (overrides OMAC_PHOTOS_DIR)")
}
