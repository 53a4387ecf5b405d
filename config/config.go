package config

import (
	"fmt"
	"time"

	valid "github.com/asaskevich/govalidator"
	"github.com/zero-os/0-Flash/flash"
	"gopkg.in/yaml.v2"
)

const (
	// DefaultProbeChunkSize is the default amount of bytes
	// read at once while probing a sector.
	DefaultProbeChunkSize = 256
	// DefaultSweepInterval is the default interval
	// between two background sweep ticks.
	DefaultSweepInterval = 100 * time.Millisecond
	// DefaultMaxCacheBytes is the default memory limit of the trim cache.
	DefaultMaxCacheBytes = 1 << 20
)

// DiskConfig represents the configuration of a flash disk.
type DiskConfig struct {
	SectorSize     uint32        `yaml:"sectorSize" valid:"required"`
	SectorCount    uint32        `yaml:"sectorCount" valid:"optional"`
	DeviceSize     uint32        `yaml:"deviceSize" valid:"optional"`
	BaseAddress    uint32        `yaml:"baseAddress" valid:"optional"`
	EraseBlockSize uint32        `yaml:"eraseBlockSize" valid:"optional"`
	ConserveLevel  ConserveLevel `yaml:"conserveLevel" valid:"optional"`
	Sweep          SweepConfig   `yaml:"sweep" valid:"optional"`
	// maximum amount of physical erases per discard,
	// only used when the background sweep is disabled, 0 means unlimited
	LazyTrimLimit  uint32 `yaml:"lazyTrimLimit" valid:"optional"`
	ProbeChunkSize uint32 `yaml:"probeChunkSize" valid:"optional"`
	// maximum amount of bytes the trim cache is allowed to allocate
	MaxCacheBytes uint64 `yaml:"maxCacheBytes" valid:"optional"`
	// refuse to initialize the disk without a trim cache,
	// rather than falling back to uncached operation
	RequireCache bool `yaml:"requireCache" valid:"optional"`
	// path to the flash image, only used by tooling
	Image string `yaml:"image" valid:"optional"`
}

// SweepConfig represents the background sweep configuration of a flash disk.
type SweepConfig struct {
	Enabled  bool          `yaml:"enabled" valid:"optional"`
	Interval time.Duration `yaml:"interval" valid:"optional"`
}

// DefaultDiskConfig returns a DiskConfig with all optional
// properties set to their default value,
// except for the probe chunk size, which depends on the sector size
// and is picked by SetDefaults.
func DefaultDiskConfig() DiskConfig {
	return DiskConfig{
		EraseBlockSize: 1,
		ConserveLevel:  DefaultConserveLevel,
		Sweep: SweepConfig{
			Enabled:  true,
			Interval: DefaultSweepInterval,
		},
		MaxCacheBytes:  DefaultMaxCacheBytes,
	}
}

// NewDiskConfig creates a new DiskConfig from byte slice in YAML 1.2 format,
// properties not defined in the data keep their default value.
func NewDiskConfig(data []byte) (*DiskConfig, error) {
	cfg := DefaultDiskConfig()
	err := yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("couldn't parse disk config: %v", err)
	}

	cfg.SetDefaults()
	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ToBytes converts DiskConfig in byte slice in YAML 1.2 format
func (cfg *DiskConfig) ToBytes() ([]byte, error) {
	res, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to turn disk config into bytes: %v", err)
	}

	return res, nil
}

// SetDefaults sets the default value of all optional
// properties which were left at their zero value.
func (cfg *DiskConfig) SetDefaults() {
	if cfg.EraseBlockSize == 0 {
		cfg.EraseBlockSize = 1
	}
	if cfg.ProbeChunkSize == 0 {
		cfg.ProbeChunkSize = defaultProbeChunkSize(cfg.SectorSize)
	}
	if cfg.Sweep.Interval == 0 {
		cfg.Sweep.Interval = DefaultSweepInterval
	}
	if cfg.MaxCacheBytes == 0 {
		cfg.MaxCacheBytes = DefaultMaxCacheBytes
	}
}

// defaultProbeChunkSize returns the biggest chunk size,
// not exceeding DefaultProbeChunkSize, which evenly divides the given sector size.
func defaultProbeChunkSize(sectorSize uint32) uint32 {
	if sectorSize == 0 || sectorSize%4 != 0 {
		return DefaultProbeChunkSize
	}
	chunk := uint32(DefaultProbeChunkSize)
	if sectorSize < chunk {
		chunk = sectorSize
	}
	for sectorSize%chunk != 0 {
		chunk -= 4
	}
	return chunk
}

// Validate this DiskConfig.
func (cfg DiskConfig) Validate() error {
	// check valid tags
	_, err := valid.ValidateStruct(cfg)
	if err != nil {
		return fmt.Errorf("invalid disk config: %v", err)
	}

	if (cfg.SectorCount == 0) == (cfg.DeviceSize == 0) {
		return fmt.Errorf(
			"invalid disk config: exactly one of sectorCount (%d) and deviceSize (%d) is required",
			cfg.SectorCount, cfg.DeviceSize)
	}
	if _, err = cfg.Geometry(); err != nil {
		return fmt.Errorf("invalid disk config: %v", err)
	}
	if err = cfg.ConserveLevel.Validate(); err != nil {
		return fmt.Errorf("invalid disk config: %v", err)
	}
	if cfg.ProbeChunkSize == 0 || cfg.ProbeChunkSize%4 != 0 ||
		cfg.SectorSize%cfg.ProbeChunkSize != 0 {
		return fmt.Errorf(
			"invalid disk config: probeChunkSize %d has to be a multiple of 4 and divide sectorSize %d",
			cfg.ProbeChunkSize, cfg.SectorSize)
	}
	if cfg.Sweep.Enabled && cfg.Sweep.Interval <= 0 {
		return fmt.Errorf(
			"invalid disk config: %v is an invalid sweep interval", cfg.Sweep.Interval)
	}

	return nil
}

// Geometry returns the flash geometry defined by this config.
func (cfg DiskConfig) Geometry() (flash.Geometry, error) {
	eraseBlockSize := cfg.EraseBlockSize
	if eraseBlockSize == 0 {
		eraseBlockSize = 1
	}
	if cfg.SectorCount == 0 {
		geometry, err := flash.GeometryFromSize(cfg.DeviceSize, cfg.SectorSize, cfg.BaseAddress)
		geometry.EraseBlockSize = eraseBlockSize
		return geometry, err
	}

	geometry := flash.Geometry{
		SectorCount:    cfg.SectorCount,
		SectorSize:     cfg.SectorSize,
		BaseAddress:    cfg.BaseAddress,
		EraseBlockSize: eraseBlockSize,
	}
	return geometry, geometry.Validate()
}
