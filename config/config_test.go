package config

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDiskConfigYAML = `
sectorSize: 4096
deviceSize: 4194304
baseAddress: 0x300000
conserveLevel: 2
sweep:
  enabled: true
  interval: 50ms
probeChunkSize: 512
lazyTrimLimit: 32
image: /tmp/flash.img
`

func TestNewDiskConfig(t *testing.T) {
	assert := assert.New(t)

	cfg, err := NewDiskConfig([]byte(validDiskConfigYAML))
	require.NoError(t, err)

	assert.Equal(uint32(4096), cfg.SectorSize)
	assert.Equal(uint32(0x300000), cfg.BaseAddress)
	assert.Equal(ConserveElide, cfg.ConserveLevel)
	assert.True(cfg.Sweep.Enabled)
	assert.Equal(50*time.Millisecond, cfg.Sweep.Interval)
	assert.Equal(uint32(512), cfg.ProbeChunkSize)
	assert.Equal(uint32(32), cfg.LazyTrimLimit)
	assert.Equal("/tmp/flash.img", cfg.Image)

	// defaults
	assert.Equal(uint32(1), cfg.EraseBlockSize)
	assert.Equal(uint64(DefaultMaxCacheBytes), cfg.MaxCacheBytes)
	assert.False(cfg.RequireCache)

	geometry, err := cfg.Geometry()
	require.NoError(t, err)
	assert.Equal(uint32(1024), geometry.SectorCount)
	assert.Equal(uint32(4096), geometry.SectorSize)
	assert.Equal(uint32(0x300000), geometry.BaseAddress)
}

func TestNewDiskConfigDefaults(t *testing.T) {
	assert := assert.New(t)

	cfg, err := NewDiskConfig([]byte("sectorSize: 128\nsectorCount: 16\n"))
	require.NoError(t, err)

	assert.Equal(DefaultConserveLevel, cfg.ConserveLevel)
	assert.True(cfg.Sweep.Enabled)
	assert.Equal(DefaultSweepInterval, cfg.Sweep.Interval)
	// probe chunks can't be bigger than a sector
	assert.Equal(uint32(128), cfg.ProbeChunkSize)
	assert.Equal(uint32(0), cfg.LazyTrimLimit)
}

func TestDefaultProbeChunkSize(t *testing.T) {
	testCases := []struct {
		sectorSize uint32
		chunkSize  uint32
	}{
		{4096, 256},
		{512, 256},
		{384, 128},
		{128, 128},
		{100, 100},
		{260, 52},
		{1028, 4},
	}

	for _, tc := range testCases {
		data := fmt.Sprintf("sectorSize: %d\nsectorCount: 16\n", tc.sectorSize)
		cfg, err := NewDiskConfig([]byte(data))
		if assert.NoError(t, err, data) {
			assert.Equal(t, tc.chunkSize, cfg.ProbeChunkSize, data)
		}
	}

	// configs built in code get the same default
	cfg := DefaultDiskConfig()
	cfg.SectorSize = 384
	cfg.SectorCount = 16
	cfg.SetDefaults()
	assert.Equal(t, uint32(128), cfg.ProbeChunkSize)
	assert.NoError(t, cfg.Validate())

	// an explicit chunk size is never replaced
	cfg.ProbeChunkSize = 32
	cfg.SetDefaults()
	assert.Equal(t, uint32(32), cfg.ProbeChunkSize)
}

func TestNewDiskConfigConserveLevelByName(t *testing.T) {
	cfg, err := NewDiskConfig([]byte("sectorSize: 512\nsectorCount: 8\nconserveLevel: none\n"))
	require.NoError(t, err)
	assert.Equal(t, ConserveNone, cfg.ConserveLevel)
}

func TestInvalidDiskConfigs(t *testing.T) {
	invalid := []string{
		// not YAML
		"sectorSize: [",
		// no sector size
		"sectorCount: 16",
		// no size
		"sectorSize: 4096",
		// both sizes
		"sectorSize: 4096\nsectorCount: 16\ndeviceSize: 65536",
		// device smaller than a sector
		"sectorSize: 4096\ndeviceSize: 1024",
		// sector size not a multiple of 4
		"sectorSize: 4094\nsectorCount: 16",
		// invalid conserve level
		"sectorSize: 4096\nsectorCount: 16\nconserveLevel: 3",
		"sectorSize: 4096\nsectorCount: 16\nconserveLevel: max",
		// probe chunk doesn't divide sector
		"sectorSize: 4096\nsectorCount: 16\nprobeChunkSize: 384",
		// probe chunk not a multiple of 4
		"sectorSize: 4096\nsectorCount: 16\nprobeChunkSize: 2",
		// probe chunk bigger than a sector
		"sectorSize: 512\nsectorCount: 16\nprobeChunkSize: 1024",
		// negative sweep interval
		"sectorSize: 4096\nsectorCount: 16\nsweep:\n  enabled: true\n  interval: -1s",
	}

	for _, data := range invalid {
		_, err := NewDiskConfig([]byte(data))
		assert.Error(t, err, data)
	}
}

func TestDiskConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.yaml")

	cfg, err := NewDiskConfig([]byte(validDiskConfigYAML))
	require.NoError(t, err)
	require.NoError(t, WriteDiskConfigFile(path, cfg))

	read, err := ReadDiskConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, read)

	_, err = ReadDiskConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	assert.Error(t, WriteDiskConfigFile(path, &DiskConfig{}))
}

func TestConserveLevel(t *testing.T) {
	assert := assert.New(t)

	assert.False(ConserveNone.Probes())
	assert.False(ConserveNone.ElidesErasedWrites())
	assert.True(ConserveProbe.Probes())
	assert.False(ConserveProbe.ElidesErasedWrites())
	assert.True(ConserveElide.Probes())
	assert.True(ConserveElide.ElidesErasedWrites())

	assert.Equal("none", ConserveNone.String())
	assert.Equal("probe", ConserveProbe.String())
	assert.Equal("elide", ConserveElide.String())
	assert.Equal("7", ConserveLevel(7).String())
	assert.Error(ConserveLevel(7).Validate())

	var level ConserveLevel
	if assert.NoError(level.Set("ELIDE")) {
		assert.Equal(ConserveElide, level)
	}
	if assert.NoError(level.Set("1")) {
		assert.Equal(ConserveProbe, level)
	}
	assert.Error(level.Set("3"))
	assert.Equal("conserveLevel", level.Type())
}
