// Package logging provides categorized zap loggers for versegen.
// Until Initialize is called every category logger is a no-op, so packages
// can log unconditionally and tests stay quiet.
package logging

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names a subsystem; it becomes the zap logger name.
type Category string

const (
	CategoryBoot      Category = "boot"      // startup, config
	CategoryStore     Category = "store"     // commentary store
	CategoryReference Category = "reference" // read-only reference databases
	CategoryLLM       Category = "llm"       // generation backends
	CategoryBatch     Category = "batch"     // generation driver loop
)

var (
	root   = zap.NewNop()
	rootMu sync.RWMutex
)

// Options mirrors config.LoggingConfig to avoid an import cycle.
type Options struct {
	Level   string // debug, info, warn, error
	Format  string // json, text
	Verbose bool   // forces debug
}

// New builds a zap logger the same way for every command.
func New(opts Options) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if strings.EqualFold(opts.Format, "text") {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
	}
	cfg.OutputPaths = []string{"stdout"}

	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func parseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// Initialize installs l as the root logger. Passing nil restores the no-op logger.
func Initialize(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	rootMu.Lock()
	root = l
	rootMu.Unlock()
}

// L returns the root logger.
func L() *zap.Logger {
	rootMu.RLock()
	defer rootMu.RUnlock()
	return root
}

// Get returns the logger for a category.
func Get(category Category) *zap.Logger {
	return L().Named(string(category))
}

// Sync flushes the root logger. Errors from syncing stdout are ignored.
func Sync() {
	_ = L().Sync()
}
