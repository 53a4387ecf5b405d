// Package watchdog defines the platform watchdog collaborator of a flash disk,
// which has to be fed regularly, and can be stopped around long operations.
package watchdog

import (
	"sync"
	"time"
)

// Watchdog defines the platform watchdog-timer control primitives.
type Watchdog interface {
	// Feed the watchdog, signaling liveness.
	Feed()
	// Stop the watchdog, suspending its deadline.
	Stop()
	// Restart a stopped watchdog, with a fresh deadline.
	Restart()
}

// Nop returns a Watchdog which does nothing.
func Nop() Watchdog {
	return nopWatchdog{}
}

type nopWatchdog struct{}

func (nopWatchdog) Feed()    {}
func (nopWatchdog) Stop()    {}
func (nopWatchdog) Restart() {}

// NewTimer creates a software watchdog which is running from the start.
// The expire callback is called (on its own goroutine)
// when the watchdog isn't fed within the given timeout while running.
func NewTimer(timeout time.Duration, expire func()) *Timer {
	wd := &Timer{
		timeout: timeout,
		running: true,
	}
	wd.timer = time.AfterFunc(timeout, func() {
		wd.mux.Lock()
		running := wd.running
		if running {
			wd.expired++
		}
		wd.mux.Unlock()
		if running && expire != nil {
			expire()
		}
	})
	return wd
}

// Timer is a software Watchdog implementation.
type Timer struct {
	timeout time.Duration
	timer   *time.Timer
	mux     sync.Mutex
	running bool
	closed  bool
	expired int
}

// Feed implements Watchdog.Feed
func (wd *Timer) Feed() {
	wd.mux.Lock()
	defer wd.mux.Unlock()
	if wd.running {
		wd.timer.Reset(wd.timeout)
	}
}

// Stop implements Watchdog.Stop
func (wd *Timer) Stop() {
	wd.mux.Lock()
	defer wd.mux.Unlock()
	wd.running = false
	wd.timer.Stop()
}

// Restart implements Watchdog.Restart
func (wd *Timer) Restart() {
	wd.mux.Lock()
	defer wd.mux.Unlock()
	if wd.closed {
		return
	}
	wd.running = true
	wd.timer.Reset(wd.timeout)
}

// Expired returns how many times the watchdog expired.
func (wd *Timer) Expired() int {
	wd.mux.Lock()
	defer wd.mux.Unlock()
	return wd.expired
}

// Close stops the watchdog for good.
func (wd *Timer) Close() {
	wd.mux.Lock()
	defer wd.mux.Unlock()
	wd.closed = true
	wd.running = false
	wd.timer.Stop()
}
