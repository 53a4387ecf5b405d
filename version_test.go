package zeroflash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zero-os/0-Flash/log"
)

func TestVersionString(t *testing.T) {
	testCases := []struct {
		version  Version
		expected string
	}{
		{NewVersion(0, 0, 0, nil), "0.0.0"},
		{NewVersion(0, 0, 1, nil), "0.0.1"},
		{NewVersion(0, 1, 0, versionLabel("alpha")), "0.1.0-alpha"},
		{NewVersion(1, 2, 3, versionLabel("rc-1")), "1.2.3-rc-1"},
		{NewVersion(4, 2, 0, nil), "4.2.0"},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.expected, testCase.version.String())
	}
}

func TestVersionInfo(t *testing.T) {
	defer func(hash, date string) {
		CommitHash, BuildDate = hash, date
	}(CommitHash, BuildDate)

	CommitHash, BuildDate = "", ""
	assert.Contains(t, VersionInfo(), "Version: "+CurrentVersion.String()+"\n")
	assert.NotContains(t, VersionInfo(), "Build:")

	CommitHash, BuildDate = "abcdef", "2017-08-01"
	assert.Contains(t, VersionInfo(), "Build: abcdef 2017-08-01\n")
}

func TestLogVersion(t *testing.T) {
	defer func(hash, date string) {
		CommitHash, BuildDate = hash, date
	}(CommitHash, BuildDate)
	CommitHash, BuildDate = "abcdef", ""

	var lines []string
	logger := log.New("test", log.DebugLevel, log.FuncHandler(func(r *log.Record) error {
		assert.Equal(t, log.DebugLevel, r.Lvl)
		lines = append(lines, r.Msg)
		return nil
	}))
	LogVersion(logger)

	require.Len(t, lines, 3)
	assert.Equal(t, "Version: "+CurrentVersion.String(), lines[0])
	assert.Equal(t, "Build: abcdef", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "Runtime: "))
}
