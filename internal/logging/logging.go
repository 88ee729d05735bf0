// Package logging builds the zap logger used as the diagnostic channel.
package logging

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "warn"

// ParseLevel parses a level name such as "debug" or "warn".
// An empty string selects DefaultLevel.
func ParseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		s = DefaultLevel
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return lvl, fmt.Errorf("invalid log level: %s", s)
	}
	return lvl, nil
}

// New returns a console logger writing to w at the given level.
// debug forces DebugLevel regardless of level.
func New(w io.Writer, level zapcore.Level, debug bool) *zap.Logger {
	if debug {
		level = zapcore.DebugLevel
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(core)
}
