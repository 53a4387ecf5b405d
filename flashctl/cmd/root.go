package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zero-os/0-Flash/flashctl/cmd/config"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use: "flashctl",
	Long: `flashctl inspects and manipulates flash images,
using the same trim cache and block I/O layer as a FAT filesystem would.

Find more information at github.com/zero-os/0-Flash/flashctl.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}

func init() {
	RootCmd.AddCommand(
		VersionCmd,
		CreateCmd,
		InfoCmd,
		ReadCmd,
		WriteCmd,
		TrimCmd,
		SweepCmd,
		StateCmd,
	)

	RootCmd.PersistentFlags().BoolVarP(
		&config.Verbose, "verbose", "v",
		false, "log available information")
	RootCmd.PersistentFlags().StringVarP(
		&config.ConfigPath, "config", "c",
		"flash.yaml", "path to the disk configuration file")
	RootCmd.PersistentFlags().StringVar(
		&config.ImagePath, "image", "",
		"path to the flash image, overrides the image of the disk configuration")
	RootCmd.PersistentFlags().DurationVar(
		&config.WatchdogTimeout, "watchdog", 0,
		"software watchdog timeout, disabled when 0")
}
