// Package logging builds the zap logger used for poshell's internal
// diagnostics (fd-leak sweeps, background-child bookkeeping, fork-failure
// detail). It is deliberately separate from the spec-mandated user-visible
// protocol text (parse errors and child exec failures on os.Stderr,
// background-pid announcements on os.Stdout), which always goes through
// fmt directly.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap.Logger at the given level ("debug", "info", "warn",
// "error", or any other level name zap recognizes; an unrecognized name
// falls back to "info"). Output is a compact
// console encoding so it reads well interleaved with a terminal session.
func New(level string) *zap.Logger {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = "" // the shell's own diagnostics don't need timestamps

	log, err := cfg.Build()
	if err != nil {
		// A logger build failure does not abort shell startup: fall back to
		// a no-op logger rather than failing over a logging misconfiguration.
		fmt.Println("poshell: logging: falling back to a no-op logger:", err)
		return zap.NewNop()
	}
	return log
}
