package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var createCmdCfg struct {
	Force bool
}

// CreateCmd represents the create subcommand
var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an erased flash image for the configured geometry",
	RunE:  createFlashImage,
}

func createFlashImage(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return errors.New("too many arguments")
	}

	image, geometry, err := createImage(createCmdCfg.Force)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(),
		"created flash image %s: %d sectors of %d bytes\n",
		image, geometry.SectorCount, geometry.SectorSize)
	return nil
}

func init() {
	CreateCmd.Flags().BoolVarP(
		&createCmdCfg.Force, "force", "f", false,
		"overwrite the flash image when it already exists")
}
