package trim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zero-os/0-Flash/errors"
)

func TestSectorStateTotality(t *testing.T) {
	store, err := NewStateStore(4, 0)
	require.NoError(t, err)

	// every bit combination maps onto exactly one state
	store.MarkClean(0)
	store.MarkScheduled(1)
	store.MarkDirty(2)

	assert.Equal(t, StateClean, store.Classify(0))
	assert.Equal(t, StateScheduled, store.Classify(1))
	assert.Equal(t, StateDirty, store.Classify(2))
	assert.Equal(t, StateUnknown, store.Classify(3))

	for sector := uint32(0); sector < store.Len(); sector++ {
		state := store.Classify(sector)
		assert.Contains(t,
			[]SectorState{StateClean, StateScheduled, StateDirty, StateUnknown}, state)
	}

	// MarkSeen only touches L1
	store.MarkSeen(1)
	assert.Equal(t, StateClean, store.Classify(1))
	store.MarkSeen(3)
	assert.Equal(t, StateDirty, store.Classify(3))

	assert.Equal(t, Histogram{Clean: 2, Dirty: 2}, store.Histogram())
}

func TestSectorStateString(t *testing.T) {
	assert.Equal(t, "clean", StateClean.String())
	assert.Equal(t, "scheduled", StateScheduled.String())
	assert.Equal(t, "dirty", StateDirty.String())
	assert.Equal(t, "unknown", StateUnknown.String())

	assert.True(t, StateClean.Trimmed())
	assert.True(t, StateClean.Seen())
	assert.True(t, StateScheduled.Trimmed())
	assert.False(t, StateScheduled.Seen())
	assert.False(t, StateDirty.Trimmed())
	assert.True(t, StateDirty.Seen())
}

func TestStateStoreOutOfRange(t *testing.T) {
	store, err := NewStateStore(16, 0)
	require.NoError(t, err)

	assert.NotPanics(t, func() { store.Classify(15) })
	assert.Panics(t, func() { store.Classify(16) })
	assert.Panics(t, func() { store.MarkClean(16) })
	assert.Panics(t, func() { store.MarkDirty(1 << 20) })
}

func TestNewStateStoreAllocation(t *testing.T) {
	_, err := NewStateStore(0, 0)
	assert.Equal(t, ErrAllocation, errors.Cause(err))

	_, err = NewStateStore(1024, StateStoreFootprint(1024)-1)
	assert.Equal(t, ErrAllocation, errors.Cause(err))

	store, err := NewStateStore(1024, StateStoreFootprint(1024))
	require.NoError(t, err)
	assert.Equal(t, uint32(1024), store.Len())
	assert.Equal(t, uint32(64), store.Words())
	assert.Equal(t, Histogram{Unknown: 1024}, store.Histogram())
}

func TestStateStoreWords(t *testing.T) {
	store, err := NewStateStore(17, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), store.Words())
}

func TestStateStoreSnapshot(t *testing.T) {
	store, err := NewStateStore(100, 0)
	require.NoError(t, err)
	store.MarkClean(3)
	store.MarkScheduled(50)
	store.MarkDirty(99)

	snapshot, err := store.Snapshot()
	require.NoError(t, err)

	restored, err := NewStateStore(100, 0)
	require.NoError(t, err)
	require.NoError(t, restored.Restore(snapshot))

	for sector := uint32(0); sector < 100; sector++ {
		assert.Equal(t, store.Classify(sector), restored.Classify(sector), "sector %d", sector)
	}
	assert.Equal(t, store.Histogram(), restored.Histogram())

	// geometry mismatch
	other, err := NewStateStore(101, 0)
	require.NoError(t, err)
	err = other.Restore(snapshot)
	assert.Equal(t, ErrInvalidSnapshot, errors.Cause(err))

	// garbage
	err = restored.Restore([]byte("not a snapshot"))
	assert.Equal(t, ErrInvalidSnapshot, errors.Cause(err))
}
