package flash

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zero-os/0-Flash/errors"
	"github.com/zero-os/0-Flash/statistics"
)

var testGeometry = Geometry{
	SectorCount:    8,
	SectorSize:     64,
	BaseAddress:    0x1000,
	EraseBlockSize: 1,
}

func TestMemoryDevice(t *testing.T) {
	testDevice(t, NewMemoryDevice(testGeometry))
}

func TestFileDevice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flash.img")

	dev, err := CreateFileDevice(path, testGeometry)
	require.NoError(t, err)
	testDevice(t, dev)

	// content survives reopening the image
	content := bytes.Repeat([]byte{0x5A}, 8)
	require.NoError(t, dev.WriteAt(testGeometry.Address(7), content))
	require.NoError(t, dev.Sync())
	require.NoError(t, dev.Close())

	dev, err = OpenFileDevice(path, testGeometry)
	require.NoError(t, err)
	defer dev.Close()

	buf := make([]byte, 8)
	require.NoError(t, dev.ReadAt(testGeometry.Address(7), buf))
	assert.Equal(t, content, buf)
}

func TestOpenFileDeviceTooSmall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flash.img")
	dev, err := CreateFileDevice(path, testGeometry)
	require.NoError(t, err)
	require.NoError(t, dev.Close())

	bigger := testGeometry
	bigger.SectorCount *= 2
	_, err = OpenFileDevice(path, bigger)
	assert.Error(t, err)
}

func testDevice(t *testing.T, dev Device) {
	assert := assert.New(t)
	sectorSize := int(testGeometry.SectorSize)
	addr := testGeometry.Address(2)

	// a new device is fully erased
	buf := make([]byte, sectorSize)
	require.NoError(t, dev.ReadAt(addr, buf))
	assert.True(IsErased(buf))

	// programming clears bits
	content := make([]byte, sectorSize)
	for i := range content {
		content[i] = byte(i)
	}
	require.NoError(t, dev.WriteAt(addr, content))
	require.NoError(t, dev.ReadAt(addr, buf))
	assert.Equal(content, buf)

	// programming again can't set bits, the result is the AND of both
	overwrite := bytes.Repeat([]byte{0xF0}, sectorSize)
	require.NoError(t, dev.WriteAt(addr, overwrite))
	require.NoError(t, dev.ReadAt(addr, buf))
	for i := range buf {
		assert.Equal(content[i]&0xF0, buf[i])
	}

	// an erase restores the erased pattern
	require.NoError(t, dev.EraseSector(addr))
	require.NoError(t, dev.ReadAt(addr, buf))
	assert.True(IsErased(buf))

	// neighbouring sectors are untouched
	require.NoError(t, dev.ReadAt(testGeometry.Address(1), buf))
	assert.True(IsErased(buf))

	// out of range operations fail
	err := dev.ReadAt(testGeometry.BaseAddress-1, buf)
	assert.True(errors.Is(err, ErrAddressRange))
	err = dev.ReadAt(testGeometry.Address(testGeometry.SectorCount-1)+1, buf)
	assert.True(errors.Is(err, ErrAddressRange))
	err = dev.EraseSector(addr + 1)
	assert.True(errors.Is(err, ErrAddressRange))
	err = dev.WriteAt(testGeometry.Address(testGeometry.SectorCount), content)
	assert.True(errors.Is(err, ErrAddressRange))
}

func TestMemoryDeviceFaults(t *testing.T) {
	assert := assert.New(t)

	dev := NewMemoryDevice(testGeometry)
	bad := testGeometry.Address(3)
	failBad := func(addr uint32) bool { return addr == bad }
	dev.FailRead, dev.FailErase, dev.FailWrite = failBad, failBad, failBad

	buf := make([]byte, testGeometry.SectorSize)
	assert.True(errors.Is(dev.ReadAt(bad, buf), ErrHardwareIO))
	assert.True(errors.Is(dev.EraseSector(bad), ErrHardwareIO))
	assert.True(errors.Is(dev.WriteAt(bad, buf), ErrHardwareIO))
	assert.Equal(ErrHardwareIO, errors.Cause(dev.ReadAt(bad, buf)))

	assert.NoError(dev.ReadAt(testGeometry.Address(4), buf))
}

func TestMemoryDeviceSetRaw(t *testing.T) {
	dev := NewMemoryDevice(testGeometry)
	addr := testGeometry.Address(5)

	require.NoError(t, dev.WriteAt(addr, []byte{0x00}))
	// SetRaw bypasses the programming semantics
	require.NoError(t, dev.SetRaw(addr, []byte{0xAB}))

	buf := make([]byte, 1)
	require.NoError(t, dev.ReadAt(addr, buf))
	assert.Equal(t, byte(0xAB), buf[0])
}

func TestCountingDevice(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemoryDevice(testGeometry)
	mem.FailWrite = func(uint32) bool { return true }

	counters := new(statistics.Counters)
	dev := NewCountingDevice(mem, counters)
	assert.Equal(counters, dev.Counters())

	buf := make([]byte, testGeometry.SectorSize)
	assert.NoError(dev.ReadAt(testGeometry.Address(0), buf))
	assert.NoError(dev.EraseSector(testGeometry.Address(0)))
	assert.NoError(dev.EraseSector(testGeometry.Address(1)))
	assert.Error(dev.WriteAt(testGeometry.Address(0), buf))

	snapshot := counters.Snapshot()
	assert.Equal(uint64(1), snapshot.Reads)
	assert.Equal(uint64(2), snapshot.Erases)
	assert.Equal(uint64(1), snapshot.Writes)
	assert.Equal(uint64(1), snapshot.Faults)
}

func TestIsErasedAndFill(t *testing.T) {
	buf := make([]byte, 16)
	assert.False(t, IsErased(buf))
	FillErased(buf)
	assert.True(t, IsErased(buf))
	buf[15] = 0xFE
	assert.False(t, IsErased(buf))
	assert.True(t, IsErased(nil))
}
