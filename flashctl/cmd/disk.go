package cmd

import (
	"os"
	"path/filepath"
	"strconv"

	zeroflash "github.com/zero-os/0-Flash"
	flashcfg "github.com/zero-os/0-Flash/config"
	"github.com/zero-os/0-Flash/disk"
	"github.com/zero-os/0-Flash/errors"
	"github.com/zero-os/0-Flash/flash"
	"github.com/zero-os/0-Flash/flashctl/cmd/config"
	"github.com/zero-os/0-Flash/log"
	"github.com/zero-os/0-Flash/watchdog"
)

// flashDisk is a disk backed by a flash image file
type flashDisk struct {
	*disk.Disk
	image string
	dev   *flash.FileDevice
	wd    *watchdog.Timer
}

// Close the disk, its watchdog and flash image
func (fd *flashDisk) Close() error {
	fd.Disk.Close()
	if fd.wd != nil {
		fd.wd.Close()
	}
	return fd.dev.Close()
}

// newToolLogger creates the logger used for the diagnostics of flashctl itself
var newToolLogger = func(level log.Level) log.Logger {
	return log.New("flashctl", level)
}

func setLogLevel() log.Level {
	logLevel := log.InfoLevel
	if config.Verbose {
		logLevel = log.DebugLevel
	}
	log.SetLevel(logLevel)
	if config.Verbose {
		zeroflash.LogVersion(newToolLogger(logLevel))
	}
	return logLevel
}

// readDiskConfig reads the disk config file,
// and resolves the path of its flash image.
func readDiskConfig() (*flashcfg.DiskConfig, string, error) {
	cfg, err := flashcfg.ReadDiskConfigFile(config.ConfigPath)
	if err != nil {
		return nil, "", err
	}

	image := config.ImagePath
	if image == "" {
		image = cfg.Image
	}
	if image == "" {
		return nil, "", errors.Newf("no flash image defined in %s", config.ConfigPath)
	}
	if !filepath.IsAbs(image) && config.ImagePath == "" {
		image = filepath.Join(filepath.Dir(config.ConfigPath), image)
	}

	return cfg, image, nil
}

// openDisk opens the configured flash image as an initialized disk
func openDisk(modify func(cfg *flashcfg.DiskConfig)) (*flashDisk, error) {
	logLevel := setLogLevel()

	cfg, image, err := readDiskConfig()
	if err != nil {
		return nil, err
	}
	if modify != nil {
		modify(cfg)
		if err = cfg.Validate(); err != nil {
			return nil, err
		}
	}

	geometry, err := cfg.Geometry()
	if err != nil {
		return nil, err
	}
	dev, err := flash.OpenFileDevice(image, geometry)
	if err != nil {
		return nil, err
	}

	fd := &flashDisk{image: image, dev: dev}
	var wd watchdog.Watchdog
	if config.WatchdogTimeout > 0 {
		fd.wd = watchdog.NewTimer(config.WatchdogTimeout, func() {
			log.Errorf("watchdog expired after %v", config.WatchdogTimeout)
		})
		wd = fd.wd
	}

	fd.Disk, err = disk.New(*cfg, dev, wd, log.New("flashctl", logLevel))
	if err != nil {
		dev.Close()
		return nil, err
	}
	if err = fd.Initialize(); err != nil {
		fd.Close()
		return nil, err
	}

	log.Debugf("opened flash image %s (%s)", image, fd.Status())
	return fd, nil
}

// createImage creates an erased flash image for the configured geometry
func createImage(force bool) (string, flash.Geometry, error) {
	setLogLevel()

	cfg, image, err := readDiskConfig()
	if err != nil {
		return "", flash.Geometry{}, err
	}
	geometry, err := cfg.Geometry()
	if err != nil {
		return "", flash.Geometry{}, err
	}

	if _, err = os.Stat(image); err == nil && !force {
		return "", flash.Geometry{}, errors.Newf(
			"flash image %s already exists, use --force to overwrite it", image)
	}

	dev, err := flash.CreateFileDevice(image, geometry)
	if err != nil {
		return "", flash.Geometry{}, err
	}
	return image, geometry, dev.Close()
}

func parseSector(name, str string) (uint32, error) {
	sector, err := strconv.ParseUint(str, 0, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s %q", name, str)
	}
	return uint32(sector), nil
}
