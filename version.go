package zeroflash

import (
	"bytes"
	"fmt"
	"runtime"
	"strings"

	"github.com/zero-os/0-Flash/log"
)

var (
	// CurrentVersion represents the current global
	// version of the zeroflash modules
	CurrentVersion = NewVersion(0, 1, 0, versionLabel("alpha"))
	// CommitHash represents the Git commit hash at built time
	CommitHash string
	// BuildDate represents the date when this tool suite was built
	BuildDate string
)

// VersionInfo returns the current version, build and runtime information,
// one per line.
func VersionInfo() string {
	version := "Version: " + CurrentVersion.String()

	// Build (Git) Commit Hash
	if CommitHash != "" {
		version += "\nBuild: " + CommitHash
		if BuildDate != "" {
			version += " " + BuildDate
		}
	}

	return fmt.Sprintf("%s\nRuntime: %s %s\n",
		version,
		runtime.Version(), // Go Version
		runtime.GOOS,      // OS Name
	)
}

// LogVersion logs the version, build and runtime information
// at debug level, one record per line.
func LogVersion(logger log.Logger) {
	for _, line := range strings.Split(strings.TrimSpace(VersionInfo()), "\n") {
		logger.Debug(line)
	}
}

// NewVersion creates a new version
func NewVersion(major, minor, patch uint8, label *VersionLabel) Version {
	number := (VersionNumber(major) << 16) |
		(VersionNumber(minor) << 8) |
		VersionNumber(patch)
	return Version{
		Number: number,
		Label:  label,
	}
}

type (
	// Version defines the version information of the zeroflash modules.
	Version struct {
		Number VersionNumber
		Label  *VersionLabel
	}

	// VersionNumber defines the semantic version number.
	VersionNumber uint32

	// VersionLabel defines an optional version extension.
	VersionLabel [8]byte
)

// String returns the string version
// of this Version.
func (v Version) String() string {
	str := fmt.Sprintf("%d.%d.%d",
		(v.Number>>16)&0xFF, // major
		(v.Number>>8)&0xFF,  // minor
		v.Number&0xFF,       // patch
	)

	if v.Label == nil {
		return str
	}

	label := bytes.Trim(v.Label[:], "\x00")
	return str + "-" + string(label)
}

func versionLabel(str string) *VersionLabel {
	var label VersionLabel
	copy(label[:], str[:])
	return &label
}
