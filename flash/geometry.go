package flash

import (
	"github.com/zero-os/0-Flash/errors"
	validator "gopkg.in/validator.v2"
)

// Geometry describes how a flash device is divided into sectors.
// It is immutable and fixed once a disk is initialized.
type Geometry struct {
	// amount of sectors available on the device
	SectorCount uint32 `validate:"min=1"`
	// size of a single sector in bytes,
	// which is also the erase unit of the device
	SectorSize uint32 `validate:"min=4"`
	// physical address of the first sector
	BaseAddress uint32
	// erase block size, in units of sectors
	EraseBlockSize uint32 `validate:"min=1"`
}

// GeometryFromSize creates a geometry covering a device of the given size,
// such that SectorCount = deviceSize / sectorSize.
func GeometryFromSize(deviceSize, sectorSize, baseAddress uint32) (Geometry, error) {
	if sectorSize == 0 {
		return Geometry{}, errors.New("flash: sector size can't be 0")
	}
	geometry := Geometry{
		SectorCount:    deviceSize / sectorSize,
		SectorSize:     sectorSize,
		BaseAddress:    baseAddress,
		EraseBlockSize: 1,
	}
	return geometry, geometry.Validate()
}

// Validate this geometry.
func (g Geometry) Validate() error {
	if err := validator.Validate(g); err != nil {
		return errors.Wrap(err, "flash: invalid geometry")
	}
	if g.SectorSize%4 != 0 {
		return errors.Newf(
			"flash: sector size %d is not a multiple of 4", g.SectorSize)
	}
	if uint64(g.BaseAddress)+g.Size() > 1<<32 {
		return errors.Newf(
			"flash: geometry of %d bytes at 0x%X overflows the address space",
			g.Size(), g.BaseAddress)
	}
	return nil
}

// Size returns the total size of the device in bytes.
func (g Geometry) Size() uint64 {
	return uint64(g.SectorCount) * uint64(g.SectorSize)
}

// Address returns the physical address of the given sector.
func (g Geometry) Address(sector uint32) uint32 {
	return g.BaseAddress + sector*g.SectorSize
}

// Contains returns true if the given range of sectors
// lies within this geometry.
func (g Geometry) Contains(sector, count uint32) bool {
	return uint64(sector)+uint64(count) <= uint64(g.SectorCount)
}
