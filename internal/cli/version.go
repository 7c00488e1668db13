package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE:  runVersion,
}

var versionJSON bool

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Output as JSON")
}

func runVersion(cmd *cobra.Command, args []string) error {
	if versionJSON {
		fmt.Fprintf(cmd.OutOrStdout(),
			"{\"version\":%q,\"commit\":%q,\"build_date\":%q}\n",
			Version, GitCommit, BuildDate)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "omac %s (%s, %s)\n", Version, GitCommit, BuildDate)
	return nil
}
