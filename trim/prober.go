package trim

import (
	"encoding/binary"

	"github.com/zero-os/0-Flash/errors"
	"github.com/zero-os/0-Flash/flash"
	"github.com/zero-os/0-Flash/log"
)

// ErrInvalidChunkSize is returned when a probe chunk size
// isn't a multiple of 4, or doesn't evenly divide the sector size.
var ErrInvalidChunkSize = errors.New("trim: invalid probe chunk size")

// NewProber creates a prober which reads sectors
// of the given device in chunks of chunkSize bytes.
func NewProber(dev flash.Device, geometry flash.Geometry, chunkSize uint32, logger log.Logger) (*Prober, error) {
	if chunkSize == 0 || chunkSize%4 != 0 || geometry.SectorSize%chunkSize != 0 {
		return nil, errors.Wrapf(ErrInvalidChunkSize,
			"%d bytes for sectors of %d bytes", chunkSize, geometry.SectorSize)
	}
	if logger == nil {
		logger = log.NopLogger()
	}

	return &Prober{
		dev:      dev,
		geometry: geometry,
		chunk:    make([]byte, chunkSize),
		logger:   logger,
	}, nil
}

// Prober reads the physical content of a sector,
// to find out whether it is erased.
// Only a single chunk of memory is used, no matter the sector size.
type Prober struct {
	dev      flash.Device
	geometry flash.Geometry
	chunk    []byte
	logger   log.Logger
}

// Probe returns true only if every 32-bit word of the given sector
// equals the erased pattern. It stops reading at the first word that doesn't.
// A failed read is treated as not erased.
func (p *Prober) Probe(sector uint32) bool {
	addr := p.geometry.Address(sector)
	chunkSize := uint32(len(p.chunk))

	for offset := uint32(0); offset < p.geometry.SectorSize; offset += chunkSize {
		err := p.dev.ReadAt(addr+offset, p.chunk)
		if err != nil {
			p.logger.Debugf("probe of sector %d failed, assuming it is dirty: %v", sector, err)
			return false
		}
		for i := uint32(0); i < chunkSize; i += 4 {
			if binary.LittleEndian.Uint32(p.chunk[i:]) != flash.ErasedWord {
				return false
			}
		}
	}

	return true
}
