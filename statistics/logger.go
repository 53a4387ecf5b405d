package statistics

import (
	"context"
	"time"

	"github.com/zero-os/0-Flash/log"
)

// Logger defines a flash statistics logger interface
type Logger interface {
	Stop()
}

var (
	// broadcast interval
	interval = 5 * time.Minute
	// func that does the broadcasting
	// is stubbed during testing
	broadcastFunc = broadcastSnapshot
)

// StartLogger starts a background goroutine,
// which broadcasts the operations recorded in the given counters
// since the previous broadcast, at every interval.
func StartLogger(diskID string, counters *Counters) Logger {
	ctx, cancel := context.WithCancel(context.Background())

	go intervalLogger(ctx, diskID, counters, counters.Snapshot(), interval, broadcastFunc)
	log.Infof("Starting flash statistics logger for disk: %s", diskID)

	return &intervalStatsLogger{cancel: cancel}
}

type intervalStatsLogger struct {
	cancel context.CancelFunc
}

// Stop implements Logger.Stop
func (logger *intervalStatsLogger) Stop() {
	logger.cancel()
}

// intervalLogger broadcasts the counter deltas at every interval
// should be run as goroutine
// starting from the given snapshot
func intervalLogger(ctx context.Context, diskID string, counters *Counters, previous Snapshot, interval time.Duration, broadcast func(string, time.Duration, Snapshot)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			current := counters.Snapshot()
			broadcast(diskID, interval, current.Sub(previous))
			previous = current

		case <-ctx.Done():
			log.Debugf("flash statistics logger closed for disk: %s", diskID)
			return
		}
	}
}

// broadcastSnapshot actually broadcasts statistics based on provided deltas
func broadcastSnapshot(diskID string, period time.Duration, delta Snapshot) {
	// no need to log if nothing happened
	if delta.IsZero() {
		log.Debugf("no flash operations, skipped broadcasting for disk: %s", diskID)
		return
	}

	log.Infof(
		"flash.ops@disk.%s: reads=%d erases=%d writes=%d faults=%d per %v",
		diskID, delta.Reads, delta.Erases, delta.Writes, delta.Faults, period)
	log.Infof(
		"flash.cache@disk.%s: probes=%d read_hits=%d read_misses=%d write_hits=%d write_misses=%d elided=%d",
		diskID, delta.Probes, delta.ReadHits, delta.ReadMisses,
		delta.WriteHits, delta.WriteMisses, delta.ElidedWrites)
	log.Infof(
		"flash.sweep@disk.%s: ticks=%d erases=%d",
		diskID, delta.SweepTicks, delta.SweepErases)
}
