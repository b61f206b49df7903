package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GigaGaiaWorld/codex/internal/version"
)

// VersionCmd displays version and build information.
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version and build information",
	Long: "Display version and build information.\n\n" +
		"Shows the semantic version, git commit hash, build date, and Go " +
		"version of the current pl2cy binary. This information is useful " +
		"for troubleshooting and verifying the installed version.",
	Example: `  # Display version information
  pl2cy version`,
	PreRunE: validateVersion,
	RunE:    runVersion,
}

func validateVersion(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	return nil
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := version.Get()
	fmt.Fprintln(cmd.OutOrStdout(), info.String())
	return nil
}
