package watchdog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerExpires(t *testing.T) {
	expired := make(chan struct{}, 1)
	wd := NewTimer(10*time.Millisecond, func() { expired <- struct{}{} })
	defer wd.Close()

	select {
	case <-expired:
	case <-time.After(2 * time.Second):
		t.Fatal("watchdog should have expired")
	}
	assert.Equal(t, 1, wd.Expired())
}

func TestTimerStoppedDoesNotExpire(t *testing.T) {
	wd := NewTimer(20*time.Millisecond, nil)
	defer wd.Close()

	wd.Stop()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 0, wd.Expired())

	wd.Restart()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, wd.Expired())
}

func TestTimerFeed(t *testing.T) {
	wd := NewTimer(200*time.Millisecond, nil)
	defer wd.Close()

	for i := 0; i < 5; i++ {
		time.Sleep(20 * time.Millisecond)
		wd.Feed()
	}
	assert.Equal(t, 0, wd.Expired())
}

func TestTimerClose(t *testing.T) {
	wd := NewTimer(10*time.Millisecond, nil)
	wd.Close()
	wd.Restart()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, 0, wd.Expired())
}

func TestRecorder(t *testing.T) {
	assert := assert.New(t)

	var r Recorder
	var wd Watchdog = &r

	wd.Feed()
	wd.Stop()
	assert.True(r.Stopped())
	wd.Restart()
	assert.False(r.Stopped())
	wd.Feed()

	assert.Equal([]Event{EventFeed, EventStop, EventRestart, EventFeed}, r.Events())
	assert.Equal(2, r.Count(EventFeed))
	assert.Equal(1, r.Count(EventStop))

	r.Reset()
	assert.Empty(r.Events())
}

func TestNop(t *testing.T) {
	wd := Nop()
	wd.Feed()
	wd.Stop()
	wd.Restart()
}
