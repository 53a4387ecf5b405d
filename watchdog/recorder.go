package watchdog

import "sync"

// Event recorded by a Recorder.
type Event string

// Recorded events.
const (
	EventFeed    Event = "feed"
	EventStop    Event = "stop"
	EventRestart Event = "restart"
)

// Recorder is a Watchdog which records all calls made to it,
// useful to verify the watchdog discipline of an operation.
type Recorder struct {
	mux     sync.Mutex
	events  []Event
	stopped bool
}

// Feed implements Watchdog.Feed
func (r *Recorder) Feed() { r.record(EventFeed) }

// Stop implements Watchdog.Stop
func (r *Recorder) Stop() { r.record(EventStop) }

// Restart implements Watchdog.Restart
func (r *Recorder) Restart() { r.record(EventRestart) }

// Events returns a copy of all recorded events.
func (r *Recorder) Events() []Event {
	r.mux.Lock()
	defer r.mux.Unlock()
	events := make([]Event, len(r.events))
	copy(events, r.events)
	return events
}

// Count returns how many times the given event was recorded.
func (r *Recorder) Count(event Event) int {
	r.mux.Lock()
	defer r.mux.Unlock()
	var n int
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

// Stopped returns true if the watchdog is currently stopped.
func (r *Recorder) Stopped() bool {
	r.mux.Lock()
	defer r.mux.Unlock()
	return r.stopped
}

// Reset clears all recorded events.
func (r *Recorder) Reset() {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.events = nil
}

func (r *Recorder) record(event Event) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.events = append(r.events, event)
	switch event {
	case EventStop:
		r.stopped = true
	case EventRestart:
		r.stopped = false
	}
}
