// Package logging builds the zap logger from config. Output goes to stderr so
// the TUI and machine-readable command output own stdout.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"uecmd/internal/config"
)

// New constructs a logger per the logging config. Debug mode switches to the
// development encoder; otherwise the level string picks the threshold.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	if cfg.Debug {
		zc = zap.NewDevelopmentConfig()
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		return zc.Build()
	}

	switch cfg.Level {
	case "debug":
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case "warn", "warning":
		zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		zc.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		zc.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	return zc.Build()
}

// Nop returns a discard-everything logger for tests and quiet paths.
func Nop() *zap.Logger { return zap.NewNop() }
