package flash

import (
	"github.com/zero-os/0-Flash/statistics"
)

// NewCountingDevice wraps the given device,
// recording each physical operation in the given counters.
func NewCountingDevice(dev Device, counters *statistics.Counters) *CountingDevice {
	return &CountingDevice{dev: dev, counters: counters}
}

// CountingDevice is a Device which counts
// the physical operations of the Device it wraps.
type CountingDevice struct {
	dev      Device
	counters *statistics.Counters
}

// ReadAt implements Device.ReadAt
func (dev *CountingDevice) ReadAt(addr uint32, buf []byte) error {
	dev.counters.AddRead()
	return dev.record(dev.dev.ReadAt(addr, buf))
}

// EraseSector implements Device.EraseSector
func (dev *CountingDevice) EraseSector(addr uint32) error {
	dev.counters.AddErase()
	return dev.record(dev.dev.EraseSector(addr))
}

// WriteAt implements Device.WriteAt
func (dev *CountingDevice) WriteAt(addr uint32, buf []byte) error {
	dev.counters.AddWrite()
	return dev.record(dev.dev.WriteAt(addr, buf))
}

// Counters returns the counters this device records into.
func (dev *CountingDevice) Counters() *statistics.Counters {
	return dev.counters
}

func (dev *CountingDevice) record(err error) error {
	if err != nil {
		dev.counters.AddFault()
	}
	return err
}
