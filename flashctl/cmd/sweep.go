package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	flashcfg "github.com/zero-os/0-Flash/config"
	"github.com/zero-os/0-Flash/statistics"
	"github.com/zero-os/0-Flash/trim"
)

var sweepCmdCfg struct {
	Ticks    int
	Duration time.Duration
}

// SweepCmd represents the sweep subcommand
var SweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the background sweep of a flash disk",
	Long: `Run the background sweep of a flash disk.

By default a single pass over the entire disk is made,
probing every sector of which the state is unknown.
Use --ticks to limit the amount of sweep ticks,
or --duration to run the sweep at its configured interval
for a given amount of time, broadcasting statistics while doing so.`,
	RunE: sweepDisk,
}

func sweepDisk(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return errors.New("too many arguments")
	}
	if sweepCmdCfg.Ticks > 0 && sweepCmdCfg.Duration > 0 {
		return errors.New("--ticks and --duration can't be combined")
	}

	fd, err := openDisk(func(cfg *flashcfg.DiskConfig) {
		cfg.Sweep.Enabled = true
	})
	if err != nil {
		return err
	}
	defer fd.Close()

	if sweepCmdCfg.Duration > 0 {
		logger := statistics.StartLogger(fd.image, fd.Counters())
		defer logger.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), sweepCmdCfg.Duration)
		defer cancel()
		if err = fd.Run(ctx); err != nil {
			return err
		}
	} else {
		ticks := sweepCmdCfg.Ticks
		if ticks <= 0 {
			ticks = int(sweepWords(fd.Geometry().SectorCount))
		}

		var erased, cleaned uint32
		for i := 0; i < ticks; i++ {
			result, err := fd.Poll()
			if err != nil {
				return err
			}
			erased += result.Erased
			cleaned += result.Cleaned
		}
		fmt.Fprintf(cmd.OutOrStdout(),
			"%d ticks: %d sectors erased, %d sectors found erased\n",
			ticks, erased, cleaned)
	}

	return printHistogram(cmd.OutOrStdout(), fd)
}

func sweepWords(sectorCount uint32) uint32 {
	return (sectorCount + trim.SectorsPerWord - 1) / trim.SectorsPerWord
}

func printHistogram(out io.Writer, fd *flashDisk) error {
	histogram, err := fd.Histogram()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "clean: %d\n", histogram.Clean)
	fmt.Fprintf(out, "scheduled: %d\n", histogram.Scheduled)
	fmt.Fprintf(out, "dirty: %d\n", histogram.Dirty)
	fmt.Fprintf(out, "unknown: %d\n", histogram.Unknown)
	return nil
}

func init() {
	SweepCmd.Flags().IntVar(
		&sweepCmdCfg.Ticks, "ticks", 0,
		"amount of sweep ticks, a single pass over the disk when 0")
	SweepCmd.Flags().DurationVar(
		&sweepCmdCfg.Duration, "duration", 0,
		"run the sweep at its configured interval for the given duration")
}
