package config

import (
	"fmt"
	"io/ioutil"

	"github.com/zero-os/0-Flash/log"
)

// ReadDiskConfigFile returns a DiskConfig from a YAML file
func ReadDiskConfigFile(path string) (*DiskConfig, error) {
	log.Debugf("reading disk config from %s", path)

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't read disk config file %s: %v", path, err)
	}

	cfg, err := NewDiskConfig(data)
	if err != nil {
		return nil, fmt.Errorf("couldn't load disk config file %s: %v", path, err)
	}

	return cfg, nil
}

// WriteDiskConfigFile writes the given DiskConfig as a YAML file
func WriteDiskConfigFile(path string, cfg *DiskConfig) error {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := cfg.ToBytes()
	if err != nil {
		return err
	}

	err = ioutil.WriteFile(path, data, 0644)
	if err != nil {
		return fmt.Errorf("couldn't write disk config file %s: %v", path, err)
	}

	return nil
}
