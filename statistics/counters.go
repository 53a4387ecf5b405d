package statistics

import (
	"sync/atomic"
)

// Counters of the operations of a single flash disk.
// The zero value is ready to use, and all methods are safe for concurrent use.
type Counters struct {
	// physical flash operations
	reads  atomic.Uint64
	erases atomic.Uint64
	writes atomic.Uint64
	faults atomic.Uint64

	// trim cache decisions
	probes      atomic.Uint64
	readHits    atomic.Uint64
	readMisses  atomic.Uint64
	writeHits   atomic.Uint64
	writeMisses atomic.Uint64
	elided      atomic.Uint64

	// background sweep
	ticks       atomic.Uint64
	sweepErases atomic.Uint64
}

// Snapshot is a point-in-time copy of Counters.
type Snapshot struct {
	Reads  uint64
	Erases uint64
	Writes uint64
	Faults uint64

	Probes       uint64
	ReadHits     uint64
	ReadMisses   uint64
	WriteHits    uint64
	WriteMisses  uint64
	ElidedWrites uint64

	SweepTicks  uint64
	SweepErases uint64
}

// AddRead records a physical read.
func (c *Counters) AddRead() { c.reads.Add(1) }

// AddErase records a physical erase.
func (c *Counters) AddErase() { c.erases.Add(1) }

// AddWrite records a physical write.
func (c *Counters) AddWrite() { c.writes.Add(1) }

// AddFault records a failed physical operation.
func (c *Counters) AddFault() { c.faults.Add(1) }

// AddProbe records a sector probe.
func (c *Counters) AddProbe() { c.probes.Add(1) }

// AddReadLookup records the outcome of a read lookup.
func (c *Counters) AddReadLookup(hit bool) {
	if hit {
		c.readHits.Add(1)
		return
	}
	c.readMisses.Add(1)
}

// AddWriteLookup records the outcome of a write lookup.
func (c *Counters) AddWriteLookup(hit bool) {
	if hit {
		c.writeHits.Add(1)
		return
	}
	c.writeMisses.Add(1)
}

// AddElidedWrite records a write which was skipped,
// as its content was the erased pattern.
func (c *Counters) AddElidedWrite() { c.elided.Add(1) }

// AddSweepTick records a background sweep tick,
// and the amount of sectors it erased.
func (c *Counters) AddSweepTick(erased int) {
	c.ticks.Add(1)
	c.sweepErases.Add(uint64(erased))
}

// Snapshot returns the current value of all counters.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Reads:        c.reads.Load(),
		Erases:       c.erases.Load(),
		Writes:       c.writes.Load(),
		Faults:       c.faults.Load(),
		Probes:       c.probes.Load(),
		ReadHits:     c.readHits.Load(),
		ReadMisses:   c.readMisses.Load(),
		WriteHits:    c.writeHits.Load(),
		WriteMisses:  c.writeMisses.Load(),
		ElidedWrites: c.elided.Load(),
		SweepTicks:   c.ticks.Load(),
		SweepErases:  c.sweepErases.Load(),
	}
}

// Sub returns the difference between this snapshot and an older one.
func (s Snapshot) Sub(older Snapshot) Snapshot {
	return Snapshot{
		Reads:        s.Reads - older.Reads,
		Erases:       s.Erases - older.Erases,
		Writes:       s.Writes - older.Writes,
		Faults:       s.Faults - older.Faults,
		Probes:       s.Probes - older.Probes,
		ReadHits:     s.ReadHits - older.ReadHits,
		ReadMisses:   s.ReadMisses - older.ReadMisses,
		WriteHits:    s.WriteHits - older.WriteHits,
		WriteMisses:  s.WriteMisses - older.WriteMisses,
		ElidedWrites: s.ElidedWrites - older.ElidedWrites,
		SweepTicks:   s.SweepTicks - older.SweepTicks,
		SweepErases:  s.SweepErases - older.SweepErases,
	}
}

// IsZero returns true if no operation was recorded in this snapshot.
func (s Snapshot) IsZero() bool {
	return s == Snapshot{}
}
