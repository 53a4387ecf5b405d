package trim

import (
	"github.com/zero-os/0-Flash/config"
	"github.com/zero-os/0-Flash/errors"
	"github.com/zero-os/0-Flash/flash"
	"github.com/zero-os/0-Flash/log"
	"github.com/zero-os/0-Flash/statistics"
	"github.com/zero-os/0-Flash/watchdog"
)

// WatchdogEraseThreshold is the amount of physical erases
// a single discard can perform before the watchdog has to be stopped.
const WatchdogEraseThreshold = 4

// Intent of a cache lookup.
type Intent uint8

// Intent options
const (
	IntentRead Intent = iota
	IntentTrim
	IntentWrite
)

// String implements Stringer.String
func (intent Intent) String() string {
	switch intent {
	case IntentRead:
		return "read"
	case IntentTrim:
		return "trim"
	case IntentWrite:
		return "write"
	default:
		return "unknown"
	}
}

// CacheConfig is used to create a Cache.
type CacheConfig struct {
	Geometry       flash.Geometry
	ConserveLevel  config.ConserveLevel
	SweepEnabled   bool
	LazyTrimLimit  uint32
	ProbeChunkSize uint32
	MaxCacheBytes  uint64
}

// CacheConfigFromDiskConfig creates a CacheConfig from a DiskConfig.
func CacheConfigFromDiskConfig(cfg config.DiskConfig) (CacheConfig, error) {
	cfg.SetDefaults()
	geometry, err := cfg.Geometry()
	if err != nil {
		return CacheConfig{}, err
	}
	return CacheConfig{
		Geometry:       geometry,
		ConserveLevel:  cfg.ConserveLevel,
		SweepEnabled:   cfg.Sweep.Enabled,
		LazyTrimLimit:  cfg.LazyTrimLimit,
		ProbeChunkSize: cfg.ProbeChunkSize,
		MaxCacheBytes:  cfg.MaxCacheBytes,
	}, nil
}

// NewCache allocates a new trim cache, with all sectors in the Unknown state.
// The cache erases sectors of the given device itself,
// and stops or feeds the given watchdog around that.
// The logger and counters are optional.
func NewCache(cfg CacheConfig, dev flash.Device, wd watchdog.Watchdog, logger log.Logger, counters *statistics.Counters) (*Cache, error) {
	if err := cfg.ConserveLevel.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NopLogger()
	}
	if counters == nil {
		counters = new(statistics.Counters)
	}
	if wd == nil {
		wd = watchdog.Nop()
	}

	prober, err := NewProber(dev, cfg.Geometry, cfg.ProbeChunkSize, logger)
	if err != nil {
		return nil, err
	}
	store, err := NewStateStore(cfg.Geometry.SectorCount, cfg.MaxCacheBytes)
	if err != nil {
		return nil, err
	}

	return &Cache{
		geometry:      cfg.Geometry,
		level:         cfg.ConserveLevel,
		sweepEnabled:  cfg.SweepEnabled,
		lazyTrimLimit: cfg.LazyTrimLimit,
		dev:           dev,
		wd:            wd,
		logger:        logger,
		counters:      counters,
		prober:        prober,
		store:         store,
	}, nil
}

// Cache is the trim/erase state cache of a flash device.
// It is not safe for concurrent use.
type Cache struct {
	geometry      flash.Geometry
	level         config.ConserveLevel
	sweepEnabled  bool
	lazyTrimLimit uint32

	dev      flash.Device
	wd       watchdog.Watchdog
	logger   log.Logger
	counters *statistics.Counters

	prober *Prober
	store  *StateStore
	cursor uint32
}

// Lookup returns true (a hit) if the physical I/O for the given intent
// can be skipped for the given sector, and updates the sector's state:
//
//   - Clean or Scheduled: a read hits (the content was discarded,
//     so the erased pattern is returned); a write hits only if Clean,
//     and leaves the sector Dirty; a trim hits only if Clean.
//   - Dirty: always a miss.
//   - Unknown: the sector is probed (if the conserve level allows it),
//     and hits if it is physically erased. A read or trim intent
//     then marks it Clean, while a miss leaves it Dirty.
//
// A write miss requires the sector to be erased before it is written.
func (c *Cache) Lookup(sector uint32, intent Intent) bool {
	state := c.store.Classify(sector)

	if state.Trimmed() {
		switch intent {
		case IntentWrite:
			c.store.MarkDirty(sector)
			return state.Seen()
		case IntentRead:
			return true
		default:
			return state.Seen()
		}
	}
	if state == StateDirty || !c.level.Probes() {
		return false
	}

	c.store.MarkSeen(sector)
	if !c.probe(sector) {
		return false
	}
	if intent != IntentWrite {
		c.store.MarkClean(sector)
	}
	return true
}

// PrepResult is the outcome of a ClearPrep call.
type PrepResult struct {
	// sectors marked Scheduled, to be erased by the background sweep
	Scheduled uint32
	// sectors physically erased
	Erased uint32
	// sectors probed
	Probed uint32
	// sectors already known or found to be clean, or already scheduled
	Skipped uint32
	// sectors left untouched because the lazy trim limit was reached
	Pending uint32
}

// ClearPrep prepares the given range of sectors for reuse,
// after their content was discarded.
//
// With the background sweep enabled, sectors are only marked Scheduled,
// leaving the physical erase to the sweep. Otherwise sectors are erased
// immediately, up to the lazy trim limit (if any) per call;
// sectors beyond that limit are left as they are,
// to be settled lazily when they are accessed.
func (c *Cache) ClearPrep(start, count uint32) (PrepResult, error) {
	if count == 0 {
		return PrepResult{}, nil
	}
	c.store.check(start + count - 1)

	if c.sweepEnabled {
		return c.schedule(start, count), nil
	}
	return c.eraseNow(start, count)
}

// schedule defers the erase of a range of sectors to the background sweep.
func (c *Cache) schedule(start, count uint32) (result PrepResult) {
	defer c.wd.Feed()

	for sector := start; sector < start+count; sector++ {
		state := c.store.Classify(sector)
		if state.Trimmed() {
			result.Skipped++
			continue
		}
		if state == StateUnknown && c.level.Probes() {
			result.Probed++
			if c.probe(sector) {
				c.store.MarkClean(sector)
				result.Skipped++
				continue
			}
		}
		c.store.MarkScheduled(sector)
		result.Scheduled++
	}

	c.logger.Debugf(
		"scheduled %d sectors starting at %d for erase (%d skipped)",
		result.Scheduled, start, result.Skipped)
	return
}

// eraseNow erases a range of sectors immediately.
func (c *Cache) eraseNow(start, count uint32) (result PrepResult, err error) {
	maxErases := count
	if c.lazyTrimLimit > 0 && c.lazyTrimLimit < maxErases {
		maxErases = c.lazyTrimLimit
	}
	if maxErases > WatchdogEraseThreshold {
		c.wd.Stop()
		defer c.wd.Restart()
	} else {
		defer c.wd.Feed()
	}

	end := start + count
	for sector := start; sector < end; sector++ {
		if c.lazyTrimLimit > 0 && result.Erased >= c.lazyTrimLimit {
			result.Pending = end - sector
			c.logger.Debugf(
				"lazy trim limit of %d erases reached, leaving %d sectors starting at %d",
				c.lazyTrimLimit, result.Pending, sector)
			break
		}

		state := c.store.Classify(sector)
		if state == StateClean {
			result.Skipped++
			continue
		}
		if state == StateUnknown && c.level.Probes() {
			result.Probed++
			c.store.MarkSeen(sector)
			if c.probe(sector) {
				c.store.MarkClean(sector)
				result.Skipped++
				continue
			}
		}

		if err = c.erase(sector); err != nil {
			return
		}
		c.store.MarkClean(sector)
		result.Erased++
	}

	return
}

// TickResult is the outcome of a single background sweep tick.
type TickResult struct {
	// word processed during this tick
	Word uint32
	// scheduled sectors erased
	Erased uint32
	// unknown sectors probed
	Probed uint32
	// unknown sectors found to be erased
	Cleaned uint32
	// erase failures, nil if none
	Err error
}

// Tick performs a single step of the background sweep,
// processing the SectorsPerWord sectors of the word at the cursor:
// Scheduled sectors are erased, and Unknown sectors probed.
// A sector which fails to erase stays Scheduled,
// so it is retried during a later pass.
// The cursor moves to the next word, wrapping after the last one.
func (c *Cache) Tick() (result TickResult) {
	result.Word = c.cursor
	first := c.cursor * SectorsPerWord
	last := first + SectorsPerWord
	if last > c.store.Len() {
		last = c.store.Len()
	}

	var errs errors.ErrorSlice
	for sector := first; sector < last; sector++ {
		switch state := c.store.Classify(sector); {
		case state == StateScheduled:
			if err := c.erase(sector); err != nil {
				c.logger.Errorf("sweep couldn't erase sector %d: %v", sector, err)
				errs.Add(err)
				continue
			}
			c.store.MarkSeen(sector)
			result.Erased++

		case state == StateUnknown && c.level.Probes():
			result.Probed++
			c.store.MarkSeen(sector)
			if c.probe(sector) {
				c.store.MarkClean(sector)
				result.Cleaned++
			}
		}
	}

	c.cursor++
	if c.cursor >= c.store.Words() {
		c.cursor = 0
	}

	c.counters.AddSweepTick(int(result.Erased))
	result.Err = errs.AsError()
	c.wd.Feed()
	return
}

// Cursor returns the word the next Tick will process.
func (c *Cache) Cursor() uint32 {
	return c.cursor
}

// Words returns the amount of words a full sweep pass covers.
func (c *Cache) Words() uint32 {
	return c.store.Words()
}

// Pending returns the amount of sectors still scheduled for erase.
func (c *Cache) Pending() uint32 {
	return c.store.Histogram().Scheduled
}

// State returns the cached state of the given sector.
func (c *Cache) State(sector uint32) SectorState {
	return c.store.Classify(sector)
}

// Histogram counts the sectors in each state.
func (c *Cache) Histogram() Histogram {
	return c.store.Histogram()
}

// Snapshot returns a compressed copy of the cached states.
func (c *Cache) Snapshot() ([]byte, error) {
	return c.store.Snapshot()
}

// Restore the cached states from a snapshot.
// The snapshot has to describe the current physical state of the device,
// restoring a stale snapshot corrupts data.
func (c *Cache) Restore(snapshot []byte) error {
	return c.store.Restore(snapshot)
}

// ConserveLevel returns the conserve level of this cache.
func (c *Cache) ConserveLevel() config.ConserveLevel {
	return c.level
}

// SweepEnabled returns true if discards are deferred to the background sweep.
func (c *Cache) SweepEnabled() bool {
	return c.sweepEnabled
}

func (c *Cache) probe(sector uint32) bool {
	c.counters.AddProbe()
	return c.prober.Probe(sector)
}

func (c *Cache) erase(sector uint32) error {
	err := c.dev.EraseSector(c.geometry.Address(sector))
	if err != nil {
		return errors.Wrapf(err, "erase sector %d", sector)
	}
	return nil
}
