package zeroflash

import (
	"bytes"
	"encoding/hex"
	"hash"

	"github.com/minio/blake2b-simd"
)

const (
	//HashSize is the length of a hash in bytes
	HashSize = 32
)

var (
	//NilHash is a hash with only '0'bytes
	NilHash = NewHash()
)

// SectorHasher fingerprints the content of flash sectors,
// reusing its internal state between sectors.
type SectorHasher struct {
	internal hash.Hash
	erased   Hash
}

// NewSectorHasher creates a hasher for sectors of the given size.
func NewSectorHasher(sectorSize uint32) *SectorHasher {
	erased := bytes.Repeat([]byte{0xFF}, int(sectorSize))
	return &SectorHasher{
		internal: blake2b.New256(),
		erased:   HashBytes(erased),
	}
}

// HashSector takes the content of a sector and returns its fingerprint.
func (h *SectorHasher) HashSector(data []byte) Hash {
	h.internal.Reset()
	h.internal.Write(data)

	hash := NewHash()
	sum := h.internal.Sum(nil)
	copy(hash[:], sum[:HashSize])
	return hash
}

// ErasedHash returns the fingerprint of an erased sector.
func (h *SectorHasher) ErasedHash() Hash {
	return h.erased
}

//Hash is just a bytearray of size HashSize
type Hash []byte

// HashBytes takes a byte slice and returns a hashed version of it.
func HashBytes(data []byte) Hash {
	b := blake2b.Sum256(data)
	return b[:]
}

//NewHash initializes a new empty hash
func NewHash() (hash Hash) {
	hash = make([]byte, HashSize, HashSize)
	return
}

//Equals returns true if two hashes are the same
func (h Hash) Equals(compareTo Hash) bool {
	return bytes.Equal(h, compareTo)
}

// String returns the hex representation of the hash.
func (h Hash) String() string {
	return hex.EncodeToString(h)
}
