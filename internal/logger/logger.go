// Package logger provides logging utilities for git-mcp using the bullets library.
//
// The MCP server speaks JSON-RPC on stdout, so callers hand these loggers
// stderr.
//
// Usage:
//
//	log := logger.NewLoggerTo(os.Stderr, "debug")
//	log.Debug("Starting operation")
//
//	silentLog := logger.NoLogger() // Suppresses all output
package logger

import (
	"io"

	"github.com/sgaunet/bullets"
)

// ParseLevel maps a level name to a bullets level, defaulting to info.
func ParseLevel(logLevel string) bullets.Level {
	switch logLevel {
	case "debug":
		return bullets.DebugLevel
	case "warn":
		return bullets.WarnLevel
	case "error":
		return bullets.ErrorLevel
	default:
		return bullets.InfoLevel
	}
}

// NewLoggerTo creates a logger writing to w.
func NewLoggerTo(w io.Writer, logLevel string) *bullets.Logger {
	logger := bullets.New(w)
	logger.SetLevel(ParseLevel(logLevel))
	return logger
}

// NoLogger creates a logger that suppresses all output by setting the level to Fatal.
// Useful for tests and silent operation.
func NoLogger() *bullets.Logger {
	logger := bullets.New(io.Discard)
	logger.SetLevel(bullets.FatalLevel)
	return logger
}
