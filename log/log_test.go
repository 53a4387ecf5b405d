package log

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordCollector struct {
	mux     sync.Mutex
	records []Record
}

func (c *recordCollector) handler() Handler {
	return FuncHandler(func(r *Record) error {
		c.mux.Lock()
		c.records = append(c.records, *r)
		c.mux.Unlock()
		return nil
	})
}

func TestLoggerLevelFilter(t *testing.T) {
	assert := assert.New(t)

	var collector recordCollector
	logger := New("test", InfoLevel, collector.handler())

	logger.Debug("not logged")
	logger.Infof("sector %d", 1)
	logger.Errorf("sector %d failed", 2)

	require.Len(t, collector.records, 2)
	assert.Equal("sector 1", collector.records[0].Msg)
	assert.Equal(InfoLevel, collector.records[0].Lvl)
	assert.Equal("sector 2 failed", collector.records[1].Msg)
	assert.Equal(ErrorLevel, collector.records[1].Lvl)

	// module and caller are attached as context
	assert.Contains(collector.records[0].Ctx, "module")
	assert.Contains(collector.records[0].Ctx, "caller")
}

func TestStdLoggerLevel(t *testing.T) {
	defer SetLevel(GetLevel())
	defer SetHandlers()

	var collector recordCollector
	SetHandlers(collector.handler())
	SetLevel(ErrorLevel)
	assert.Equal(t, ErrorLevel, GetLevel())

	Info("dropped")
	Error("kept")

	require.Len(t, collector.records, 1)
	assert.Equal(t, "kept", collector.records[0].Msg)
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	// none of these should panic or exit
	logger.Debug("a")
	logger.Infof("%d", 1)
	logger.Error("b")
	logger.Fatalf("%s", "c")
}

func TestLevelFromString(t *testing.T) {
	cases := map[string]Level{
		"debug": DebugLevel,
		"info":  InfoLevel,
		"error": ErrorLevel,
		"fatal": FatalLevel,
		"crit":  FatalLevel,
	}
	for name, expected := range cases {
		level, err := LevelFromString(name)
		if assert.NoError(t, err, name) {
			assert.Equal(t, expected, level, name)
		}
	}

	_, err := LevelFromString("verbose")
	assert.Error(t, err)
}
