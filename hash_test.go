package zeroflash

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashBytes(t *testing.T) {
	data := make([]byte, 435)
	rand.Read(data)
	h := HashBytes(data)
	if assert.NotNil(t, h, "Nil hash returned from the hashfunction") {
		assert.False(t, h.Equals(NilHash), "empty has returned")
	}
}

func TestNilHash(t *testing.T) {
	assert.Len(t, NilHash, HashSize)
	assert.True(t, NewHash().Equals(NilHash))
}

func TestSectorHasher(t *testing.T) {
	hasher := NewSectorHasher(512)

	erased := bytes.Repeat([]byte{0xFF}, 512)
	assert.True(t, hasher.HashSector(erased).Equals(hasher.ErasedHash()))

	data := make([]byte, 512)
	rand.Read(data)
	h := hasher.HashSector(data)
	assert.True(t, h.Equals(HashBytes(data)))
	assert.False(t, h.Equals(hasher.ErasedHash()))

	// the hasher can be reused
	assert.True(t, hasher.HashSector(data).Equals(h))
	assert.Equal(t, h.String(), HashBytes(data).String())
}

func BenchmarkHashSector_4k(b *testing.B) {
	benchmarkHashSector(b, 4*1024)
}

func BenchmarkHashSector_64k(b *testing.B) {
	benchmarkHashSector(b, 64*1024)
}

func benchmarkHashSector(b *testing.B, size uint32) {
	hasher := NewSectorHasher(size)
	in := make([]byte, size)
	b.SetBytes(int64(size))

	var hash, prevHash Hash

	for i := 0; i < b.N; i++ {
		hash = hasher.HashSector(in)
		if prevHash != nil && !prevHash.Equals(hash) {
			b.Fatalf(
				"hash was expected to be %v, while received %v",
				prevHash, hash)
		} else if NilHash.Equals(hash) {
			b.Fatal("nil hash received")
		}
		prevHash = hash
	}
}
