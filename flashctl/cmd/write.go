package cmd

import (
	"errors"
	"fmt"
	"io/ioutil"

	"github.com/spf13/cobra"
	"github.com/zero-os/0-Flash/flash"
)

// WriteCmd represents the write subcommand
var WriteCmd = &cobra.Command{
	Use:   "write sector file",
	Short: "Write the content of a file to sectors of a flash disk",
	Long: `Write the content of a file to sectors of a flash disk,
starting at the given sector.

The last sector is padded with the erased pattern.`,
	RunE: writeSectors,
}

func writeSectors(cmd *cobra.Command, args []string) error {
	argn := len(args)
	if argn < 2 {
		return errors.New("not enough arguments")
	}
	if argn > 2 {
		return errors.New("too many arguments")
	}

	sector, err := parseSector("sector", args[0])
	if err != nil {
		return err
	}
	content, err := ioutil.ReadFile(args[1])
	if err != nil {
		return err
	}
	if len(content) == 0 {
		return errors.New("nothing to write, file is empty")
	}

	fd, err := openDisk(nil)
	if err != nil {
		return err
	}
	defer fd.Close()

	size := int(fd.Geometry().SectorSize)
	count := (len(content) + size - 1) / size
	buf := make([]byte, count*size)
	flash.FillErased(buf[len(content):])
	copy(buf, content)

	if err = fd.Write(sector, uint32(count), buf); err != nil {
		return err
	}
	if err = fd.Sync(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d sectors starting at %d\n", count, sector)
	return nil
}
