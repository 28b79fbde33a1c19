// Package debug provides conditional debug logging for stitch.
//
// Debug logging is enabled by setting the STITCH_DEBUG environment variable:
//
//	STITCH_DEBUG=1 stitch
//
// The terminal belongs to the TUI, so messages go to STITCH_DEBUG_FILE
// (default stitch-debug.log) as JSON lines. When disabled (default), every
// function here is a no-op and Logger returns a no-op *zap.Logger.
//
// Usage:
//
//	debug.Log("rendering %d steps", n)
//	defer debug.LogEnterExit("export")()
//	session := tutorial.NewSession(steps, engine, tutorial.WithLogger(debug.Logger()))
package debug

import (
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// EnvDebug turns debug logging on when non-empty.
	EnvDebug = "STITCH_DEBUG"
	// EnvDebugFile overrides the log destination.
	EnvDebugFile = "STITCH_DEBUG_FILE"
	// DefaultFile is the log destination when EnvDebugFile is unset.
	DefaultFile = "stitch-debug.log"
)

var (
	mu      sync.RWMutex
	enabled bool
	logger  = zap.NewNop()
	sugar   = logger.Sugar()
)

func init() {
	if os.Getenv(EnvDebug) != "" {
		SetEnabled(true)
	}
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetEnabled allows programmatic control of debug logging. Enabling builds
// the file logger on first use; if that fails, logging stays off.
func SetEnabled(e bool) {
	mu.Lock()
	defer mu.Unlock()
	if !e {
		enabled = false
		return
	}
	if !enabled {
		l, err := build(destination())
		if err != nil {
			fmt.Fprintf(os.Stderr, "stitch: debug logging disabled: %v\n", err)
			return
		}
		_ = logger.Sync()
		logger = l
		sugar = l.Sugar()
	}
	enabled = true
}

// SetLogger installs l as the debug logger and enables logging. Tests use
// it with zaptest/observer cores.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
	sugar = l.Sugar()
	enabled = true
}

// Logger returns the structured logger for injection into sessions and
// engines. It is a no-op logger while debugging is disabled.
func Logger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if !enabled {
		return zap.NewNop()
	}
	return logger
}

// Sync flushes buffered log entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = logger.Sync()
}

func destination() string {
	if p := os.Getenv(EnvDebugFile); p != "" {
		return p
	}
	return DefaultFile
}

func build(path string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.Sampling = nil
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

func current() (*zap.SugaredLogger, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return sugar, enabled
}

// Log writes a debug message if debug logging is enabled.
// Uses printf-style formatting.
func Log(format string, args ...any) {
	if s, ok := current(); ok {
		s.Debugf(format, args...)
	}
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	if s, ok := current(); ok {
		s.Debugw("timing", "name", name, "elapsed", d)
	}
}

// LogIf writes a debug message only if the condition is true.
func LogIf(cond bool, format string, args ...any) {
	if !cond {
		return
	}
	Log(format, args...)
}

// LogEnterExit logs function entry and exit with timing.
//
//	defer debug.LogEnterExit("export")()
func LogEnterExit(name string) func() {
	s, ok := current()
	if !ok {
		return func() {}
	}
	s.Debugf("-> %s", name)
	start := time.Now()
	return func() {
		s.Debugw("<- "+name, "elapsed", time.Since(start))
	}
}
