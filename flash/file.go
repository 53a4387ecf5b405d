package flash

import (
	"os"

	"github.com/zero-os/0-Flash/errors"
)

// CreateFileDevice creates (or truncates) a flash image file at the given path,
// sized for the given geometry and fully erased.
func CreateFileDevice(path string, geometry Geometry) (*FileDevice, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't create flash image %s", path)
	}

	blank := make([]byte, geometry.SectorSize)
	FillErased(blank)
	for i := uint32(0); i < geometry.SectorCount; i++ {
		if _, err := file.Write(blank); err != nil {
			file.Close()
			return nil, errors.Wrapf(err, "couldn't erase sector %d of %s", i, path)
		}
	}

	return &FileDevice{file: file, geometry: geometry, blank: blank}, nil
}

// OpenFileDevice opens an existing flash image file at the given path.
// The file has to be at least as big as the given geometry.
func OpenFileDevice(path string, geometry Geometry) (*FileDevice, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't open flash image %s", path)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.Wrapf(err, "couldn't stat flash image %s", path)
	}
	if uint64(info.Size()) < geometry.Size() {
		file.Close()
		return nil, errors.Newf(
			"flash image %s is %d bytes, while its geometry requires %d bytes",
			path, info.Size(), geometry.Size())
	}

	blank := make([]byte, geometry.SectorSize)
	FillErased(blank)
	return &FileDevice{file: file, geometry: geometry, blank: blank}, nil
}

// FileDevice is a Device implementation that is backed
// by a single image file on the filesystem of the host OS.
// The image starts at the BaseAddress of the geometry.
type FileDevice struct {
	file     *os.File
	geometry Geometry
	blank    []byte
}

// ReadAt implements Device.ReadAt
func (dev *FileDevice) ReadAt(addr uint32, buf []byte) error {
	offset, err := dev.offset(addr, len(buf))
	if err != nil {
		return err
	}
	if _, err = dev.file.ReadAt(buf, offset); err != nil {
		return errors.Wrapf(ErrHardwareIO, "read %d bytes at 0x%X: %v", len(buf), addr, err)
	}
	return nil
}

// EraseSector implements Device.EraseSector
func (dev *FileDevice) EraseSector(addr uint32) error {
	if (addr-dev.geometry.BaseAddress)%dev.geometry.SectorSize != 0 {
		return errors.Wrapf(ErrAddressRange, "erase at unaligned address 0x%X", addr)
	}
	offset, err := dev.offset(addr, len(dev.blank))
	if err != nil {
		return err
	}
	if _, err = dev.file.WriteAt(dev.blank, offset); err != nil {
		return errors.Wrapf(ErrHardwareIO, "erase sector at 0x%X: %v", addr, err)
	}
	return nil
}

// WriteAt implements Device.WriteAt
func (dev *FileDevice) WriteAt(addr uint32, buf []byte) error {
	offset, err := dev.offset(addr, len(buf))
	if err != nil {
		return err
	}

	// flash programming can only clear bits
	current := make([]byte, len(buf))
	if _, err = dev.file.ReadAt(current, offset); err != nil {
		return errors.Wrapf(ErrHardwareIO, "write %d bytes at 0x%X: %v", len(buf), addr, err)
	}
	program(current, buf)
	if _, err = dev.file.WriteAt(current, offset); err != nil {
		return errors.Wrapf(ErrHardwareIO, "write %d bytes at 0x%X: %v", len(buf), addr, err)
	}
	return nil
}

// Sync commits the image file to stable storage.
func (dev *FileDevice) Sync() error {
	return dev.file.Sync()
}

// Close the image file.
func (dev *FileDevice) Close() error {
	return dev.file.Close()
}

func (dev *FileDevice) offset(addr uint32, length int) (int64, error) {
	if addr < dev.geometry.BaseAddress {
		return 0, errors.Wrapf(ErrAddressRange, "address 0x%X", addr)
	}
	offset := uint64(addr - dev.geometry.BaseAddress)
	if offset+uint64(length) > dev.geometry.Size() {
		return 0, errors.Wrapf(ErrAddressRange,
			"%d bytes at address 0x%X", length, addr)
	}
	return int64(offset), nil
}
