package cmd

import (
	"errors"
	"fmt"
	"io/ioutil"

	"github.com/spf13/cobra"
	flashcfg "github.com/zero-os/0-Flash/config"
)

var stateCmdCfg struct {
	Dump     string
	Conserve flashcfg.ConserveLevel
}

// StateCmd represents the state subcommand
var StateCmd = &cobra.Command{
	Use:   "state",
	Short: "Output the trim cache state of a flash disk",
	Long: `Output the trim cache state of a flash disk.

Every sector is looked up once, as a read would,
such that the trim cache probes all sectors it knows nothing about.
Sectors are never probed with conserve level none.`,
	RunE: outputState,
}

func outputState(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return errors.New("too many arguments")
	}

	var modify func(cfg *flashcfg.DiskConfig)
	if cmd.Flags().Changed("conserve") {
		modify = func(cfg *flashcfg.DiskConfig) {
			cfg.ConserveLevel = stateCmdCfg.Conserve
		}
	}
	fd, err := openDisk(modify)
	if err != nil {
		return err
	}
	defer fd.Close()

	geometry := fd.Geometry()
	buf := make([]byte, geometry.SectorSize)
	for sector := uint32(0); sector < geometry.SectorCount; sector++ {
		if err = fd.Read(sector, 1, buf); err != nil {
			return err
		}
	}

	if err = printHistogram(cmd.OutOrStdout(), fd); err != nil {
		return err
	}

	if stateCmdCfg.Dump == "" {
		return nil
	}
	snapshot, err := fd.Snapshot()
	if err != nil {
		return err
	}
	if err = ioutil.WriteFile(stateCmdCfg.Dump, snapshot, 0644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "dumped state snapshot to %s\n", stateCmdCfg.Dump)
	return nil
}

func init() {
	stateCmdCfg.Conserve = flashcfg.DefaultConserveLevel

	StateCmd.Flags().StringVar(
		&stateCmdCfg.Dump, "dump", "",
		"export a snapshot of the trim cache to the given path")
	StateCmd.Flags().Var(
		&stateCmdCfg.Conserve, "conserve",
		"override the conserve level of the disk (none, probe or elide)")
}
