package disk

import (
	"context"
	"sync"
	"time"

	"github.com/zero-os/0-Flash/config"
	"github.com/zero-os/0-Flash/errors"
	"github.com/zero-os/0-Flash/flash"
	"github.com/zero-os/0-Flash/log"
	"github.com/zero-os/0-Flash/statistics"
	"github.com/zero-os/0-Flash/trim"
	"github.com/zero-os/0-Flash/watchdog"
)

const (
	// ReadWatchdogThreshold is the amount of sectors
	// a read can transfer before the watchdog has to be stopped.
	ReadWatchdogThreshold = 16
	// WriteWatchdogThreshold is the amount of sectors
	// a write can transfer before the watchdog has to be stopped.
	WriteWatchdogThreshold = 8
)

// Status of a disk.
type Status uint8

// Status options
const (
	StatusNotInitialized Status = iota
	StatusReady
	StatusUncached
)

// String implements Stringer.String
func (status Status) String() string {
	switch status {
	case StatusNotInitialized:
		return "not initialized"
	case StatusReady:
		return "ready"
	case StatusUncached:
		return "uncached"
	default:
		return "invalid"
	}
}

// New creates a disk for the given flash device.
// The disk has to be initialized before it can be used.
// The watchdog and logger are optional.
func New(cfg config.DiskConfig, dev flash.Device, wd watchdog.Watchdog, logger log.Logger) (*Disk, error) {
	if dev == nil {
		return nil, errors.New("disk: no flash device given")
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	geometry, err := cfg.Geometry()
	if err != nil {
		return nil, err
	}
	if wd == nil {
		wd = watchdog.Nop()
	}
	if logger == nil {
		logger = log.New("flashdisk", log.InfoLevel)
	}

	counters := new(statistics.Counters)
	return &Disk{
		cfg:      cfg,
		geometry: geometry,
		raw:      dev,
		dev:      flash.NewCountingDevice(dev, counters),
		wd:       wd,
		logger:   logger,
		counters: counters,
		done:     make(chan struct{}),
	}, nil
}

// Disk is a flash disk, which can be used as the block device of a FAT filesystem.
// Sectors are addressed 0-based, and map one-to-one onto the sectors of the flash device.
type Disk struct {
	mux sync.Mutex

	cfg      config.DiskConfig
	geometry flash.Geometry
	raw      flash.Device
	dev      *flash.CountingDevice
	wd       watchdog.Watchdog
	logger   log.Logger
	counters *statistics.Counters

	status Status
	// nil while not initialized, or when uncached
	cache *trim.Cache

	done      chan struct{}
	closeOnce sync.Once
}

// Initialize allocates the trim cache of this disk.
// Initializing an initialized disk is a no-op.
// When the cache can't be allocated, the disk falls back to uncached operation,
// unless the cache is required, in which case an error is returned.
func (d *Disk) Initialize() error {
	d.mux.Lock()
	defer d.mux.Unlock()

	if d.status != StatusNotInitialized {
		return nil
	}

	cacheCfg, err := trim.CacheConfigFromDiskConfig(d.cfg)
	if err != nil {
		return err
	}
	cache, err := trim.NewCache(cacheCfg, d.dev, d.wd, d.logger, d.counters)
	if err != nil {
		if errors.Cause(err) != trim.ErrAllocation || d.cfg.RequireCache {
			return errors.Wrap(err, "couldn't initialize flash disk")
		}
		d.logger.Errorf("flash disk runs uncached: %v", err)
		d.status = StatusUncached
		return nil
	}

	d.cache = cache
	d.status = StatusReady
	d.logger.Debugf(
		"flash disk initialized: %d sectors of %d bytes, conserve level %s, sweep enabled: %v",
		d.geometry.SectorCount, d.geometry.SectorSize, d.cfg.ConserveLevel, d.cfg.Sweep.Enabled)
	return nil
}

// Status returns the status of this disk.
func (d *Disk) Status() Status {
	d.mux.Lock()
	defer d.mux.Unlock()
	return d.status
}

// Geometry returns the geometry of this disk,
// which defines its sector count, sector size and erase block size.
func (d *Disk) Geometry() flash.Geometry {
	return d.geometry
}

// Config returns the configuration of this disk.
func (d *Disk) Config() config.DiskConfig {
	return d.cfg
}

// Read count sectors starting at the given sector into buf,
// which has to be able to hold all of them.
// Discarded sectors are filled with the erased pattern,
// without reading them from the flash device.
func (d *Disk) Read(sector, count uint32, buf []byte) error {
	d.mux.Lock()
	defer d.mux.Unlock()

	if err := d.checkTransfer(sector, count, buf); err != nil {
		return err
	}

	if count > ReadWatchdogThreshold {
		d.wd.Stop()
		defer d.wd.Restart()
	} else {
		defer d.wd.Feed()
	}

	size := d.geometry.SectorSize
	for i := uint32(0); i < count; i++ {
		current := sector + i
		data := buf[i*size : (i+1)*size]

		if d.cache != nil {
			hit := d.cache.Lookup(current, trim.IntentRead)
			d.counters.AddReadLookup(hit)
			if hit {
				flash.FillErased(data)
				continue
			}
		}

		if err := d.dev.ReadAt(d.geometry.Address(current), data); err != nil {
			return d.transferError(current, count-i, err)
		}
	}

	return nil
}

// Write count sectors starting at the given sector from buf.
// A sector is erased right before it is written,
// unless it is known to be erased already.
func (d *Disk) Write(sector, count uint32, buf []byte) error {
	d.mux.Lock()
	defer d.mux.Unlock()

	if err := d.checkTransfer(sector, count, buf); err != nil {
		return err
	}

	if count > WriteWatchdogThreshold {
		d.wd.Stop()
		defer d.wd.Restart()
	} else {
		defer d.wd.Feed()
	}

	elide := d.cache != nil && d.cfg.ConserveLevel.ElidesErasedWrites()
	size := d.geometry.SectorSize
	for i := uint32(0); i < count; i++ {
		current := sector + i
		addr := d.geometry.Address(current)
		data := buf[i*size : (i+1)*size]

		erase := true
		if d.cache != nil {
			hit := d.cache.Lookup(current, trim.IntentWrite)
			d.counters.AddWriteLookup(hit)
			erase = !hit
		}
		if erase {
			if err := d.dev.EraseSector(addr); err != nil {
				return d.transferError(current, count-i, err)
			}
		}

		// the target sector is erased at this point,
		// so programming the erased pattern would be a no-op
		if elide && flash.IsErased(data) {
			d.counters.AddElidedWrite()
			continue
		}

		if err := d.dev.WriteAt(addr, data); err != nil {
			return d.transferError(current, count-i, err)
		}
	}

	return nil
}

// Discard declares the content of count sectors, starting at the given sector,
// as no longer needed. Depending on the configuration their erase
// is deferred to the background sweep, or performed immediately.
func (d *Disk) Discard(start, count uint32) error {
	d.mux.Lock()
	defer d.mux.Unlock()

	if err := d.checkRange(start, count); err != nil {
		return err
	}
	if count == 0 {
		return nil
	}

	if d.cache == nil {
		return d.eraseUncached(start, count)
	}

	result, err := d.cache.ClearPrep(start, count)
	if err != nil {
		// each sector processed before the failure was either skipped or erased
		processed := result.Erased + result.Skipped
		return d.transferError(start+processed, count-processed, err)
	}
	if result.Pending > 0 {
		d.logger.Debugf(
			"discard of %d sectors starting at %d left %d sectors to be settled lazily",
			count, start, result.Pending)
	}
	return nil
}

// Trim discards the sectors in the range [rangeStart, rangeEnd).
func (d *Disk) Trim(rangeStart, rangeEnd uint32) error {
	if rangeEnd < rangeStart {
		return errors.Wrapf(ErrOutOfRange, "trim range [%d, %d)", rangeStart, rangeEnd)
	}
	return d.Discard(rangeStart, rangeEnd-rangeStart)
}

// Settle discards count sectors starting at the given sector, like Discard,
// but keeps going until none of them is left pending by the lazy trim limit.
// It returns the amount of discard rounds performed.
func (d *Disk) Settle(start, count uint32) (int, error) {
	d.mux.Lock()
	defer d.mux.Unlock()

	if err := d.checkRange(start, count); err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}
	if d.cache == nil {
		return 1, d.eraseUncached(start, count)
	}

	var rounds int
	end := start + count
	for start < end {
		result, err := d.cache.ClearPrep(start, end-start)
		rounds++
		if err != nil {
			processed := result.Erased + result.Skipped
			return rounds, d.transferError(start+processed, end-start-processed, err)
		}
		// pending sectors are always the tail of the range
		start = end - result.Pending
	}
	return rounds, nil
}

// Sync flushes the underlying flash device, if it supports that.
// Writes aren't buffered by the disk itself.
func (d *Disk) Sync() error {
	d.mux.Lock()
	defer d.mux.Unlock()

	if d.status == StatusNotInitialized {
		return ErrNotInitialized
	}
	if syncer, ok := d.raw.(interface{ Sync() error }); ok {
		return syncer.Sync()
	}
	return nil
}

// Poll runs a single tick of the background sweep.
// It can be used to drive the sweep cooperatively, instead of using Run.
func (d *Disk) Poll() (trim.TickResult, error) {
	d.mux.Lock()
	defer d.mux.Unlock()

	if err := d.checkSweep(); err != nil {
		return trim.TickResult{}, err
	}
	return d.cache.Tick(), nil
}

// Run drives the background sweep, ticking at the configured interval,
// until the given context is done or the disk is closed.
func (d *Disk) Run(ctx context.Context) error {
	d.mux.Lock()
	err := d.checkSweep()
	d.mux.Unlock()
	if err != nil {
		return err
	}

	ticker := time.NewTicker(d.cfg.Sweep.Interval)
	defer ticker.Stop()

	d.logger.Debugf("background sweep started, ticking every %v", d.cfg.Sweep.Interval)
	for {
		select {
		case <-ticker.C:
			if _, err = d.Poll(); err != nil {
				return err
			}

		case <-ctx.Done():
			d.logger.Debug("background sweep stopped")
			return nil

		case <-d.done:
			d.logger.Debug("background sweep stopped, as the disk was closed")
			return nil
		}
	}
}

// Converge ticks the background sweep until no scheduled sector remains,
// returning the amount of ticks performed.
// ErrNotConverged is returned if sectors remain scheduled after maxTicks ticks.
func (d *Disk) Converge(maxTicks int) (int, error) {
	var ticks int
	for {
		d.mux.Lock()
		if err := d.checkCache(); err != nil {
			d.mux.Unlock()
			return ticks, err
		}
		pending := d.cache.Pending()
		if pending == 0 {
			d.mux.Unlock()
			return ticks, nil
		}
		if ticks >= maxTicks {
			d.mux.Unlock()
			return ticks, errors.Wrapf(ErrNotConverged,
				"%d sectors still scheduled after %d ticks", pending, ticks)
		}
		d.cache.Tick()
		d.mux.Unlock()
		ticks++
	}
}

// State returns the cached state of the given sector.
func (d *Disk) State(sector uint32) (trim.SectorState, error) {
	d.mux.Lock()
	defer d.mux.Unlock()

	if err := d.checkCache(); err != nil {
		return trim.StateUnknown, err
	}
	if err := d.checkRange(sector, 1); err != nil {
		return trim.StateUnknown, err
	}
	return d.cache.State(sector), nil
}

// Histogram counts the sectors of this disk in each cached state.
func (d *Disk) Histogram() (trim.Histogram, error) {
	d.mux.Lock()
	defer d.mux.Unlock()

	if err := d.checkCache(); err != nil {
		return trim.Histogram{}, err
	}
	return d.cache.Histogram(), nil
}

// Snapshot returns a compressed copy of the trim cache, for diagnostic purposes.
func (d *Disk) Snapshot() ([]byte, error) {
	d.mux.Lock()
	defer d.mux.Unlock()

	if err := d.checkCache(); err != nil {
		return nil, err
	}
	return d.cache.Snapshot()
}

// Counters returns the operation counters of this disk.
func (d *Disk) Counters() *statistics.Counters {
	return d.counters
}

// Close stops the background sweep, if it is running.
// The flash device isn't closed.
func (d *Disk) Close() error {
	d.closeOnce.Do(func() {
		close(d.done)
	})
	return nil
}

func (d *Disk) checkRange(sector, count uint32) error {
	if d.status == StatusNotInitialized {
		return ErrNotInitialized
	}
	if !d.geometry.Contains(sector, count) {
		return errors.Wrapf(ErrOutOfRange,
			"%d sectors starting at %d, while disk has %d sectors",
			count, sector, d.geometry.SectorCount)
	}
	return nil
}

func (d *Disk) checkTransfer(sector, count uint32, buf []byte) error {
	if err := d.checkRange(sector, count); err != nil {
		return err
	}
	if required := uint64(count) * uint64(d.geometry.SectorSize); uint64(len(buf)) < required {
		return errors.Wrapf(ErrBufferSize,
			"%d sectors require %d bytes, while buffer has %d bytes",
			count, required, len(buf))
	}
	return nil
}

func (d *Disk) checkCache() error {
	if d.status == StatusNotInitialized {
		return ErrNotInitialized
	}
	if d.cache == nil {
		return errors.Wrap(ErrSweepDisabled, "disk runs uncached")
	}
	return nil
}

func (d *Disk) checkSweep() error {
	if err := d.checkCache(); err != nil {
		return err
	}
	if !d.cfg.Sweep.Enabled {
		return ErrSweepDisabled
	}
	return nil
}

// eraseUncached erases a range of sectors immediately,
// as no cache is available to know which ones are erased already.
func (d *Disk) eraseUncached(start, count uint32) error {
	if count > trim.WatchdogEraseThreshold {
		d.wd.Stop()
		defer d.wd.Restart()
	} else {
		defer d.wd.Feed()
	}

	for i := uint32(0); i < count; i++ {
		if err := d.dev.EraseSector(d.geometry.Address(start + i)); err != nil {
			return d.transferError(start+i, count-i, err)
		}
	}
	return nil
}

func (d *Disk) transferError(sector, remaining uint32, err error) error {
	d.logger.Errorf("flash operation on sector %d failed: %v", sector, err)
	return &TransferError{
		Remaining: remaining,
		Sector:    sector,
		Err:       err,
	}
}
