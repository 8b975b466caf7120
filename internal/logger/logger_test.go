package logger_test

import (
	"bytes"
	"testing"

	"github.com/sgaunet/bullets"
	"github.com/sgaunet/git-mcp/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestNoLogger(t *testing.T) {
	log := logger.NoLogger()

	assert.NotNil(t, log)
	assert.NotPanics(t, func() {
		log.Debug("debug")
		log.Info("info")
		log.Warn("warn")
		log.Error("error")
	})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]bullets.Level{
		"debug":   bullets.DebugLevel,
		"info":    bullets.InfoLevel,
		"warn":    bullets.WarnLevel,
		"error":   bullets.ErrorLevel,
		"":        bullets.InfoLevel,
		"verbose": bullets.InfoLevel,
	}
	for name, want := range tests {
		assert.Equal(t, want, logger.ParseLevel(name), "level %q", name)
	}
}

func TestNewLoggerTo_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewLoggerTo(&buf, "warn")

	log.Info("listing projects")
	log.Warn("assignee not found")

	assert.NotContains(t, buf.String(), "listing projects")
	assert.Contains(t, buf.String(), "assignee not found")
}
