// Package logging builds the zap loggers used across nqcblocks.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	// Level is a zap level name: debug, info, warn, error
	Level string
	// Development selects the human-friendly console encoder
	Development bool
}

// New creates a logger writing to stderr.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}

	cfg := zap.NewProductionConfig()
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// NewOrNop is New, falling back to a no-op logger when construction fails.
func NewOrNop(opts Options) *zap.Logger {
	logger, err := New(opts)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
