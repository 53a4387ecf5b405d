package flash

import (
	"github.com/zero-os/0-Flash/errors"
)

const (
	// ErasedByte is the value of each byte of an erased sector.
	ErasedByte = 0xFF
	// ErasedWord is the value of each 32-bit word of an erased sector.
	ErasedWord = 0xFFFFFFFF
)

var (
	// ErrHardwareIO is returned (wrapped) by a Device
	// when a physical read, erase or write primitive failed.
	ErrHardwareIO = errors.New("flash: hardware I/O error")
	// ErrAddressRange is returned (wrapped) by a Device
	// when an operation falls outside of the device.
	ErrAddressRange = errors.New("flash: address out of range")
)

// Device defines the raw primitives of a flash chip.
// Each primitive operates on at most one sector-sized unit.
type Device interface {
	// ReadAt reads len(buf) bytes starting at the given address.
	ReadAt(addr uint32, buf []byte) error
	// EraseSector erases the sector starting at the given address,
	// setting all of its bytes to ErasedByte.
	EraseSector(addr uint32) error
	// WriteAt programs the given bytes starting at the given address.
	// As flash can only clear bits, the resulting content is
	// the bitwise AND of the old content and the given bytes.
	WriteAt(addr uint32, buf []byte) error
}

// IsErased returns true if the given buffer contains only ErasedByte values.
func IsErased(buf []byte) bool {
	for _, b := range buf {
		if b != ErasedByte {
			return false
		}
	}
	return true
}

// FillErased fills the given buffer with ErasedByte values.
func FillErased(buf []byte) {
	for i := range buf {
		buf[i] = ErasedByte
	}
}

// program applies NOR programming semantics,
// only clearing bits of dst which are cleared in src.
func program(dst, src []byte) {
	for i := range src {
		dst[i] &= src[i]
	}
}
