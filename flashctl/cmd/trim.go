package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zero-os/0-Flash/disk"
	"github.com/zero-os/0-Flash/log"
)

var trimCmdCfg struct {
	MaxTicks int
}

// TrimCmd represents the trim subcommand
var TrimCmd = &cobra.Command{
	Use:   "trim start end",
	Short: "Discard the sectors [start, end) of a flash disk",
	Long: `Discard the sectors [start, end) of a flash disk.

As the trim cache doesn't outlive this command,
sectors scheduled for erase by the background sweep,
or left pending by the lazy trim limit,
are erased before the command returns.`,
	RunE: trimSectors,
}

func trimSectors(cmd *cobra.Command, args []string) error {
	argn := len(args)
	if argn < 2 {
		return errors.New("not enough arguments")
	}
	if argn > 2 {
		return errors.New("too many arguments")
	}

	start, err := parseSector("start", args[0])
	if err != nil {
		return err
	}
	end, err := parseSector("end", args[1])
	if err != nil {
		return err
	}

	fd, err := openDisk(nil)
	if err != nil {
		return err
	}
	defer fd.Close()

	if err = fd.Trim(start, end); err != nil {
		return err
	}

	if fd.Status() == disk.StatusReady {
		if fd.Config().Sweep.Enabled {
			ticks, err := fd.Converge(trimCmdCfg.MaxTicks)
			if err != nil {
				return err
			}
			log.Debugf("background sweep converged after %d ticks", ticks)
		} else if fd.Config().LazyTrimLimit > 0 {
			rounds, err := fd.Settle(start, end-start)
			if err != nil {
				return err
			}
			log.Debugf("lazy trim settled after %d rounds", rounds)
		}
	}
	if err = fd.Sync(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "trimmed sectors [%d, %d)\n", start, end)
	return nil
}

func init() {
	TrimCmd.Flags().IntVar(
		&trimCmdCfg.MaxTicks, "max-ticks", 1<<20,
		"maximum amount of background sweep ticks to erase the trimmed sectors")
}
