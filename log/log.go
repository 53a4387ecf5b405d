package log

import (
	"fmt"
	"os"
	"sync"

	log "github.com/inconshreveable/log15"
)

// Level of a log record, records below the level of a logger are dropped.
type Level = log.Lvl

const (
	// DebugLevel logs every lookup, probe and erase decision.
	DebugLevel = log.LvlDebug
	// InfoLevel logs disk lifecycle events and statistics.
	InfoLevel = log.LvlInfo
	// ErrorLevel only logs failed flash operations.
	ErrorLevel = log.LvlError
	// FatalLevel logs and then exits the process.
	FatalLevel = log.LvlCrit
)

// Record is a single log entry, as passed to a Handler.
type Record = log.Record

var (
	stdMux      sync.Mutex
	stdLevel    = InfoLevel
	stdHandlers []Handler
	std         = newModuleLogger("global", stdLevel, 1, nil)
)

// SetLevel sets the minimum level of the records logged by the package-level functions.
func SetLevel(level Level) {
	stdMux.Lock()
	defer stdMux.Unlock()
	stdLevel = level
	std.internal.SetHandler(newLoggerHandler(stdLevel, 1, stdHandlers))
}

// GetLevel returns the level set using SetLevel, InfoLevel by default.
func GetLevel() Level {
	stdMux.Lock()
	defer stdMux.Unlock()
	return stdLevel
}

// SetHandlers replaces the handlers of the package-level functions,
// calling it without handlers restores logging to stderr.
func SetHandlers(handlers ...Handler) {
	stdMux.Lock()
	defer stdMux.Unlock()
	stdHandlers = handlers
	std.internal.SetHandler(newLoggerHandler(stdLevel, 1, stdHandlers))
}

// Debug logs using the package-level logger.
func Debug(args ...interface{}) {
	std.Debug(args...)
}

// Debugf logs using the package-level logger.
func Debugf(format string, args ...interface{}) {
	std.Debugf(format, args...)
}

// Info logs using the package-level logger.
func Info(args ...interface{}) {
	std.Info(args...)
}

// Infof logs using the package-level logger.
func Infof(format string, args ...interface{}) {
	std.Infof(format, args...)
}

// Error logs using the package-level logger.
func Error(args ...interface{}) {
	std.Error(args...)
}

// Errorf logs using the package-level logger.
func Errorf(format string, args ...interface{}) {
	std.Errorf(format, args...)
}

// Fatal logs using the package-level logger.
func Fatal(args ...interface{}) {
	std.Fatal(args...)
}

// Fatalf logs using the package-level logger.
func Fatalf(format string, args ...interface{}) {
	std.Fatalf(format, args...)
}

// New creates a Logger for a single component, such as a disk or its trim cache.
// Its records are tagged with the given module name,
// and written to stderr if no handlers are given.
func New(module string, level Level, handlers ...Handler) Logger {
	return newModuleLogger(module, level, 0, handlers)
}

// NopLogger returns a Logger which drops every record.
// Its Fatal methods don't exit.
func NopLogger() Logger {
	return new(nopLogger)
}

// Logger is used by the flash disk components to report what they do.
type Logger interface {
	// per sector decisions of the trim cache and sweep
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	// disk lifecycle and statistics
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	// failed reads, erases and writes
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	// only used by tools, exits the process
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
}

func newModuleLogger(module string, level Level, extraStackDepth int, handlers []Handler) *moduleLogger {
	logger := log.New("module", module)
	logger.SetHandler(newLoggerHandler(level, extraStackDepth, handlers))
	return &moduleLogger{logger}
}

// moduleLogger formats its arguments and hands them to log15.
type moduleLogger struct {
	internal log.Logger
}

func (logger *moduleLogger) Debug(args ...interface{}) {
	logger.internal.Debug(fmt.Sprint(args...))
}

func (logger *moduleLogger) Debugf(format string, args ...interface{}) {
	logger.internal.Debug(fmt.Sprintf(format, args...))
}

func (logger *moduleLogger) Info(args ...interface{}) {
	logger.internal.Info(fmt.Sprint(args...))
}

func (logger *moduleLogger) Infof(format string, args ...interface{}) {
	logger.internal.Info(fmt.Sprintf(format, args...))
}

func (logger *moduleLogger) Error(args ...interface{}) {
	logger.internal.Error(fmt.Sprint(args...))
}

func (logger *moduleLogger) Errorf(format string, args ...interface{}) {
	logger.internal.Error(fmt.Sprintf(format, args...))
}

func (logger *moduleLogger) Fatal(args ...interface{}) {
	logger.internal.Crit(fmt.Sprint(args...))
	os.Exit(1)
}

func (logger *moduleLogger) Fatalf(format string, args ...interface{}) {
	logger.internal.Crit(fmt.Sprintf(format, args...))
	os.Exit(1)
}

type nopLogger struct{}

func (logger *nopLogger) Debug(args ...interface{})                 {}
func (logger *nopLogger) Debugf(format string, args ...interface{}) {}
func (logger *nopLogger) Info(args ...interface{})                  {}
func (logger *nopLogger) Infof(format string, args ...interface{})  {}
func (logger *nopLogger) Error(args ...interface{})                 {}
func (logger *nopLogger) Errorf(format string, args ...interface{}) {}
func (logger *nopLogger) Fatal(args ...interface{})                 {}
func (logger *nopLogger) Fatalf(format string, args ...interface{}) {}
