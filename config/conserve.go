package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ConserveLevel defines how aggressively a flash disk
// avoids physical flash operations.
type ConserveLevel uint8

// ConserveLevel options
const (
	// ConserveNone never probes sectors of unknown state,
	// treating them as if they hold real data.
	ConserveNone ConserveLevel = iota
	// ConserveProbe probes sectors of unknown state,
	// to learn whether they are physically erased already.
	ConserveProbe
	// ConserveElide probes sectors of unknown state,
	// and skips the physical write of sectors whose content
	// is the erased pattern.
	ConserveElide
)

// DefaultConserveLevel is the conserve level used when none is configured.
const DefaultConserveLevel = ConserveProbe

// Probes returns true if this level probes sectors of unknown state.
func (level ConserveLevel) Probes() bool {
	return level >= ConserveProbe
}

// ElidesErasedWrites returns true if this level skips
// writing content which is the erased pattern.
func (level ConserveLevel) ElidesErasedWrites() bool {
	return level >= ConserveElide
}

// Validate this conserve level.
func (level ConserveLevel) Validate() error {
	if level > ConserveElide {
		return fmt.Errorf("%d is an invalid conserve level", uint8(level))
	}
	return nil
}

// String implements Stringer.String
func (level ConserveLevel) String() string {
	switch level {
	case ConserveNone:
		return "none"
	case ConserveProbe:
		return "probe"
	case ConserveElide:
		return "elide"
	default:
		return strconv.Itoa(int(level))
	}
}

// Set implements pflag.Value.Set,
// accepting either the name or the number of a level.
func (level *ConserveLevel) Set(str string) error {
	switch strings.ToLower(str) {
	case "none", "0":
		*level = ConserveNone
	case "probe", "1":
		*level = ConserveProbe
	case "elide", "2":
		*level = ConserveElide
	default:
		return fmt.Errorf("%q is an invalid conserve level", str)
	}
	return nil
}

// Type implements pflag.Value.Type
func (level *ConserveLevel) Type() string {
	return "conserveLevel"
}

// MarshalYAML implements yaml.Marshaler.MarshalYAML
func (level ConserveLevel) MarshalYAML() (interface{}, error) {
	return uint8(level), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.UnmarshalYAML
func (level *ConserveLevel) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var str string
	if err := unmarshal(&str); err != nil {
		return err
	}
	return level.Set(str)
}
