// Package observability wires up structured logging for the CLI binary.
// Library code (pkg/*) never reaches into CLILogger directly; it takes a
// *zap.Logger constructor argument instead. CLILogger exists purely as a
// convenience for internal/cmd, which has no natural place to thread a
// logger through cobra's command tree.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CLILogger is the process-wide logger used by internal/cmd. It is a
// no-op logger until Init is called.
var CLILogger = zap.NewNop()

// Init builds and installs CLILogger from a level name ("debug", "info",
// "warn", "error") and a format ("console" or "json").
func Init(level, format string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("observability: parse log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("observability: build logger: %w", err)
	}

	CLILogger = logger
	return nil
}

// Sync flushes any buffered log entries. Errors from syncing a console
// stream are expected on some platforms and are intentionally ignored.
func Sync() {
	_ = CLILogger.Sync()
}
