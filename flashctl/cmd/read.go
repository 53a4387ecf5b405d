package cmd

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zero-os/0-Flash"
)

var readCmdCfg struct {
	Hash bool
}

// ReadCmd represents the read subcommand
var ReadCmd = &cobra.Command{
	Use:   "read sector [count]",
	Short: "Read sectors of a flash disk",
	RunE:  readSectors,
}

func readSectors(cmd *cobra.Command, args []string) error {
	argn := len(args)
	if argn < 1 {
		return errors.New("no sector given")
	}
	if argn > 2 {
		return errors.New("too many arguments")
	}

	sector, err := parseSector("sector", args[0])
	if err != nil {
		return err
	}
	count := uint32(1)
	if argn == 2 {
		if count, err = parseSector("count", args[1]); err != nil {
			return err
		}
	}

	fd, err := openDisk(nil)
	if err != nil {
		return err
	}
	defer fd.Close()

	size := fd.Geometry().SectorSize
	buf := make([]byte, uint64(count)*uint64(size))
	if err = fd.Read(sector, count, buf); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !readCmdCfg.Hash {
		fmt.Fprint(out, hex.Dump(buf))
		return nil
	}

	hasher := zeroflash.NewSectorHasher(size)
	for i := uint32(0); i < count; i++ {
		hash := hasher.HashSector(buf[i*size : (i+1)*size])
		if hash.Equals(hasher.ErasedHash()) {
			fmt.Fprintf(out, "%d: %s (erased)\n", sector+i, hash)
			continue
		}
		fmt.Fprintf(out, "%d: %s\n", sector+i, hash)
	}
	return nil
}

func init() {
	ReadCmd.Flags().BoolVar(
		&readCmdCfg.Hash, "hash", false,
		"output a fingerprint of each sector, rather than its content")
}
