package flash

import (
	"sync"

	"github.com/zero-os/0-Flash/errors"
)

// NewMemoryDevice creates an in-memory flash device for the given geometry,
// with all of its sectors erased.
func NewMemoryDevice(geometry Geometry) *MemoryDevice {
	dev := &MemoryDevice{
		geometry: geometry,
		memory:   make([]byte, geometry.Size()),
	}
	FillErased(dev.memory)
	return dev
}

// MemoryDevice is a Device implementation backed by a byte slice,
// only meant for dev and test purposes.
// Faults can be injected by setting the Fail* hooks,
// which are consulted with the physical address of each operation.
type MemoryDevice struct {
	geometry Geometry
	memory   []byte
	mux      sync.RWMutex

	FailRead  func(addr uint32) bool
	FailErase func(addr uint32) bool
	FailWrite func(addr uint32) bool
}

// ReadAt implements Device.ReadAt
func (dev *MemoryDevice) ReadAt(addr uint32, buf []byte) error {
	dev.mux.RLock()
	defer dev.mux.RUnlock()

	offset, err := dev.offset(addr, len(buf))
	if err != nil {
		return err
	}
	if dev.FailRead != nil && dev.FailRead(addr) {
		return errors.Wrapf(ErrHardwareIO, "read %d bytes at 0x%X", len(buf), addr)
	}
	copy(buf, dev.memory[offset:])
	return nil
}

// EraseSector implements Device.EraseSector
func (dev *MemoryDevice) EraseSector(addr uint32) error {
	dev.mux.Lock()
	defer dev.mux.Unlock()

	if (addr-dev.geometry.BaseAddress)%dev.geometry.SectorSize != 0 {
		return errors.Wrapf(ErrAddressRange, "erase at unaligned address 0x%X", addr)
	}
	offset, err := dev.offset(addr, int(dev.geometry.SectorSize))
	if err != nil {
		return err
	}
	if dev.FailErase != nil && dev.FailErase(addr) {
		return errors.Wrapf(ErrHardwareIO, "erase sector at 0x%X", addr)
	}
	FillErased(dev.memory[offset : offset+int(dev.geometry.SectorSize)])
	return nil
}

// WriteAt implements Device.WriteAt
func (dev *MemoryDevice) WriteAt(addr uint32, buf []byte) error {
	dev.mux.Lock()
	defer dev.mux.Unlock()

	offset, err := dev.offset(addr, len(buf))
	if err != nil {
		return err
	}
	if dev.FailWrite != nil && dev.FailWrite(addr) {
		return errors.Wrapf(ErrHardwareIO, "write %d bytes at 0x%X", len(buf), addr)
	}
	program(dev.memory[offset:offset+len(buf)], buf)
	return nil
}

// SetRaw overwrites the memory at the given address,
// bypassing the flash programming semantics.
// It is meant to prepare device content in tests.
func (dev *MemoryDevice) SetRaw(addr uint32, content []byte) error {
	dev.mux.Lock()
	defer dev.mux.Unlock()

	offset, err := dev.offset(addr, len(content))
	if err != nil {
		return err
	}
	copy(dev.memory[offset:], content)
	return nil
}

func (dev *MemoryDevice) offset(addr uint32, length int) (int, error) {
	if addr < dev.geometry.BaseAddress {
		return 0, errors.Wrapf(ErrAddressRange, "address 0x%X", addr)
	}
	offset := uint64(addr - dev.geometry.BaseAddress)
	if offset+uint64(length) > uint64(len(dev.memory)) {
		return 0, errors.Wrapf(ErrAddressRange,
			"%d bytes at address 0x%X", length, addr)
	}
	return int(offset), nil
}
