package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// InfoCmd represents the info subcommand
var InfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Output the geometry and configuration of a flash disk",
	RunE:  outputInfo,
}

func outputInfo(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return errors.New("too many arguments")
	}

	fd, err := openDisk(nil)
	if err != nil {
		return err
	}
	defer fd.Close()

	geometry := fd.Geometry()
	cfg := fd.Config()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "status: %s\n", fd.Status())
	fmt.Fprintf(out, "sectors: %d\n", geometry.SectorCount)
	fmt.Fprintf(out, "sector size: %d\n", geometry.SectorSize)
	fmt.Fprintf(out, "erase block size: %d\n", geometry.EraseBlockSize)
	fmt.Fprintf(out, "base address: 0x%08X\n", geometry.BaseAddress)
	fmt.Fprintf(out, "size: %d\n", geometry.Size())
	fmt.Fprintf(out, "conserve level: %s\n", cfg.ConserveLevel)
	if cfg.Sweep.Enabled {
		fmt.Fprintf(out, "background sweep: every %v\n", cfg.Sweep.Interval)
	} else {
		fmt.Fprintf(out, "background sweep: disabled (lazy trim limit %d)\n", cfg.LazyTrimLimit)
	}
	return nil
}
