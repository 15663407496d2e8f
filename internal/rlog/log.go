// Package rlog provides the structured logger shared by every ripd
// component, wrapping go.uber.org/zap the way other daemons in this
// codebase's lineage wire up verbosity flags to a zap.Logger.
package rlog

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a *zap.Logger at the given level. verbosity follows the
// common CLI convention of repeated -v flags: 0 keeps the given level,
// 1 or more lowers it to debug (zap has no finer grain below debug).
func New(level string, verbosity int) (*zap.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbosity > 0 && lvl > zapcore.DebugLevel {
		lvl = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func parseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("rlog: invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// Nop returns a logger that discards everything, used by components and
// tests that don't care about log output.
func Nop() *zap.Logger {
	return zap.NewNop()
}
