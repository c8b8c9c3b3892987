// Package logging holds the process-wide zap logger. The scraper is an
// operator-facing maintenance tool, so the default output is the console
// encoder; --verbose lowers the level to debug.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.Mutex
	logger = zap.NewNop()
)

// Init replaces the package logger. Safe to call once at process start.
func Init(verbose bool) error {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true
	built, err := cfg.Build()
	if err != nil {
		return err
	}
	mu.Lock()
	logger = built
	mu.Unlock()
	return nil
}

// L returns the current logger.
func L() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// Sync flushes buffered log entries. Errors are ignored; stderr syncing
// fails on some platforms and there is nothing actionable about it.
func Sync() {
	_ = L().Sync()
}
