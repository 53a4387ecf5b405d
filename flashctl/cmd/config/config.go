// Package config contains the global flags of flashctl.
package config

import "time"

var (
	// Verbose defines if all available information should be logged
	Verbose bool
	// ConfigPath defines the path to the disk configuration file
	ConfigPath string
	// ImagePath overrides the flash image path of the disk configuration
	ImagePath string
	// WatchdogTimeout enables a software watchdog, when bigger than 0
	WatchdogTimeout time.Duration
)
