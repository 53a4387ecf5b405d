package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zero-os/0-Flash"
)

// VersionCmd represents the version subcommand
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Output the version information",
	Long:  "Outputs the tool version, runtime information, and optionally the commit hash.",
	Run:   outputVersion,
}

// outputVersion prints to the STDOUT,
// the tool version, runtime info, and optionally the commit hash.
func outputVersion(cmd *cobra.Command, _ []string) {
	fmt.Fprint(cmd.OutOrStdout(), zeroflash.VersionInfo())
}
