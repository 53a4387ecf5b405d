package trim

import (
	"bytes"
	"encoding/binary"

	"github.com/golang/snappy"
	"github.com/willf/bitset"
	"github.com/zero-os/0-Flash/errors"
)

// SectorsPerWord is the amount of sectors
// covered by a single word of the state store.
const SectorsPerWord = 16

var (
	// ErrOutOfRange is the cause of the panic raised
	// when a sector outside of the device is used.
	ErrOutOfRange = errors.New("trim: sector out of range")
	// ErrAllocation is returned when the state store can't be allocated.
	ErrAllocation = errors.New("trim: state store allocation failed")
	// ErrInvalidSnapshot is returned when a snapshot can't be restored.
	ErrInvalidSnapshot = errors.New("trim: invalid state snapshot")
)

// SectorState is the cached state of a sector,
// derived from its trimmed (L0) and seen (L1) bits.
type SectorState uint8

// SectorState options
const (
	StateUnknown   SectorState = 0
	StateDirty     SectorState = stateSeen
	StateScheduled SectorState = stateTrimmed
	StateClean     SectorState = stateTrimmed | stateSeen
)

const (
	stateSeen    SectorState = 1 << 0
	stateTrimmed SectorState = 1 << 1
)

// Trimmed returns true for Clean and Scheduled sectors.
func (state SectorState) Trimmed() bool {
	return state&stateTrimmed != 0
}

// Seen returns true for Clean and Dirty sectors.
func (state SectorState) Seen() bool {
	return state&stateSeen != 0
}

// String implements Stringer.String
func (state SectorState) String() string {
	switch state {
	case StateClean:
		return "clean"
	case StateScheduled:
		return "scheduled"
	case StateDirty:
		return "dirty"
	default:
		return "unknown"
	}
}

// Histogram counts the sectors in each state.
type Histogram struct {
	Clean     uint32
	Scheduled uint32
	Dirty     uint32
	Unknown   uint32
}

// StateStoreFootprint returns the amount of bytes
// a state store for the given amount of sectors allocates.
func StateStoreFootprint(sectorCount uint32) uint64 {
	words := (uint64(sectorCount) + 63) / 64
	return 2 * words * 8
}

// NewStateStore allocates a state store for the given amount of sectors,
// with all sectors in the Unknown state.
// ErrAllocation is returned if the store would be empty,
// or would need more than maxBytes (if maxBytes isn't 0).
func NewStateStore(sectorCount uint32, maxBytes uint64) (*StateStore, error) {
	if sectorCount == 0 {
		return nil, errors.Wrap(ErrAllocation, "no sectors")
	}
	if footprint := StateStoreFootprint(sectorCount); maxBytes != 0 && footprint > maxBytes {
		return nil, errors.Wrapf(ErrAllocation,
			"%d sectors require %d bytes, while only %d bytes are allowed",
			sectorCount, footprint, maxBytes)
	}

	return &StateStore{
		count:   sectorCount,
		trimmed: bitset.New(uint(sectorCount)),
		seen:    bitset.New(uint(sectorCount)),
	}, nil
}

// StateStore stores the state of each sector of a flash device,
// using two bit layers. Its size is fixed at creation.
type StateStore struct {
	count   uint32
	trimmed *bitset.BitSet // L0
	seen    *bitset.BitSet // L1
}

// Len returns the amount of sectors in this store.
func (store *StateStore) Len() uint32 {
	return store.count
}

// Words returns the amount of SectorsPerWord-sized words in this store.
func (store *StateStore) Words() uint32 {
	return (store.count + SectorsPerWord - 1) / SectorsPerWord
}

// Classify returns the state of the given sector.
func (store *StateStore) Classify(sector uint32) SectorState {
	store.check(sector)
	var state SectorState
	if store.trimmed.Test(uint(sector)) {
		state |= stateTrimmed
	}
	if store.seen.Test(uint(sector)) {
		state |= stateSeen
	}
	return state
}

// MarkClean marks the given sector as physically erased.
func (store *StateStore) MarkClean(sector uint32) {
	store.check(sector)
	store.trimmed.Set(uint(sector))
	store.seen.Set(uint(sector))
}

// MarkDirty marks the given sector as holding real data.
func (store *StateStore) MarkDirty(sector uint32) {
	store.check(sector)
	store.trimmed.Clear(uint(sector))
	store.seen.Set(uint(sector))
}

// MarkScheduled marks the given sector as discarded,
// but not yet physically erased.
func (store *StateStore) MarkScheduled(sector uint32) {
	store.check(sector)
	store.trimmed.Set(uint(sector))
	store.seen.Clear(uint(sector))
}

// MarkSeen sets the seen bit of the given sector,
// leaving its trimmed bit untouched.
func (store *StateStore) MarkSeen(sector uint32) {
	store.check(sector)
	store.seen.Set(uint(sector))
}

// Histogram counts the sectors in each state.
func (store *StateStore) Histogram() Histogram {
	trimmed := uint32(store.trimmed.Count())
	seen := uint32(store.seen.Count())
	clean := uint32(store.trimmed.IntersectionCardinality(store.seen))
	known := uint32(store.trimmed.UnionCardinality(store.seen))
	return Histogram{
		Clean:     clean,
		Scheduled: trimmed - clean,
		Dirty:     seen - clean,
		Unknown:   store.count - known,
	}
}

// Snapshot returns both layers of the store, snappy compressed.
// It is meant for diagnostic purposes.
func (store *StateStore) Snapshot() ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, store.count); err != nil {
		return nil, err
	}
	for _, layer := range []*bitset.BitSet{store.trimmed, store.seen} {
		data, err := layer.MarshalBinary()
		if err != nil {
			return nil, errors.Wrap(err, "couldn't marshal state layer")
		}
		if err = binary.Write(&buf, binary.LittleEndian, uint32(len(data))); err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	return snappy.Encode(nil, buf.Bytes()), nil
}

// Restore the layers of this store from a snapshot,
// which has to be taken from a store with the same amount of sectors.
func (store *StateStore) Restore(snapshot []byte) error {
	raw, err := snappy.Decode(nil, snapshot)
	if err != nil {
		return errors.Wrapf(ErrInvalidSnapshot, "decompress: %v", err)
	}

	r := bytes.NewReader(raw)
	var count uint32
	if err = binary.Read(r, binary.LittleEndian, &count); err != nil {
		return errors.Wrapf(ErrInvalidSnapshot, "read sector count: %v", err)
	}
	if count != store.count {
		return errors.Wrapf(ErrInvalidSnapshot,
			"snapshot covers %d sectors, while store has %d sectors", count, store.count)
	}

	layers := [2]*bitset.BitSet{new(bitset.BitSet), new(bitset.BitSet)}
	for _, layer := range layers {
		var length uint32
		if err = binary.Read(r, binary.LittleEndian, &length); err != nil {
			return errors.Wrapf(ErrInvalidSnapshot, "read layer length: %v", err)
		}
		if uint64(length) > uint64(r.Len()) {
			return errors.Wrapf(ErrInvalidSnapshot, "truncated layer of %d bytes", length)
		}
		data := make([]byte, length)
		r.Read(data)
		if err = layer.UnmarshalBinary(data); err != nil {
			return errors.Wrapf(ErrInvalidSnapshot, "unmarshal layer: %v", err)
		}
		if layer.Len() != uint(store.count) {
			return errors.Wrapf(ErrInvalidSnapshot,
				"layer covers %d sectors, while store has %d sectors", layer.Len(), store.count)
		}
	}

	store.trimmed, store.seen = layers[0], layers[1]
	return nil
}

func (store *StateStore) check(sector uint32) {
	if sector >= store.count {
		panic(errors.Wrapf(ErrOutOfRange, "sector %d of %d", sector, store.count))
	}
}
