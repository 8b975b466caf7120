package timeutil_test

import (
	"testing"
	"time"

	"github.com/sgaunet/git-mcp/internal/timeutil"
	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{name: "zero", duration: 0, expected: "0ms"},
		{name: "sub-second", duration: 250 * time.Millisecond, expected: "250ms"},
		{name: "one second backoff", duration: time.Second, expected: "1s"},
		{name: "rounds to seconds", duration: 1500 * time.Millisecond, expected: "2s"},
		{name: "boundary 59 seconds", duration: 59 * time.Second, expected: "59s"},
		{name: "boundary 60 seconds", duration: time.Minute, expected: "1m 0s"},
		{name: "minutes and seconds", duration: time.Minute + 23*time.Second, expected: "1m 23s"},
		{name: "hours", duration: 2*time.Hour + 15*time.Minute, expected: "2h 15m"},
		{name: "negative", duration: -5 * time.Second, expected: "-5s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, timeutil.FormatDuration(tt.duration))
		})
	}
}
