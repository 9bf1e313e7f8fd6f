package log_test

import (
	"bytes"
	"strings"
	"testing"

	"bennypowers.dev/padls/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, level log.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	original := log.GetLevel()
	log.SetOutput(&buf)
	log.SetLevel(level)
	t.Cleanup(func() {
		log.SetOutput(nil)
		log.SetLevel(original)
	})
	return &buf
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level   log.Level
		present []string
		absent  []string
	}{
		{
			level:   log.LevelDebug,
			present: []string{"debug message", "info message", "warn message", "error message"},
		},
		{
			level:   log.LevelInfo,
			present: []string{"info message", "warn message", "error message"},
			absent:  []string{"debug message"},
		},
		{
			level:   log.LevelError,
			present: []string{"error message"},
			absent:  []string{"debug message", "info message", "warn message"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			buf := capture(t, tt.level)

			log.Debug("debug message")
			log.Info("info message")
			log.Warn("warn message")
			log.Error("error message")

			output := buf.String()
			for _, s := range tt.present {
				assert.Contains(t, output, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, output, s)
			}
		})
	}
}

func TestLogFormat(t *testing.T) {
	buf := capture(t, log.LevelDebug)

	log.Info("Publishing diagnostics for: %s", "file:///calc.pad")
	log.Warn("trailing newline is not doubled\n")
	log.Debug("debug")
	log.Error("error")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "[PADLS] INFO: Publishing diagnostics for: file:///calc.pad", lines[0])
	assert.Equal(t, "[PADLS] WARN: trailing newline is not doubled", lines[1])
	assert.Equal(t, "[PADLS] DEBUG: debug", lines[2])
	assert.Equal(t, "[PADLS] ERROR: error", lines[3])
}

func TestEnabled(t *testing.T) {
	capture(t, log.LevelWarn)
	assert.False(t, log.Enabled(log.LevelInfo))
	assert.True(t, log.Enabled(log.LevelError))

	log.SetOutput(nil)
	assert.False(t, log.Enabled(log.LevelError))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    log.Level
		wantErr bool
	}{
		{input: "debug", want: log.LevelDebug},
		{input: "DEBUG", want: log.LevelDebug},
		{input: "info", want: log.LevelInfo},
		{input: "", want: log.LevelInfo},
		{input: " warning ", want: log.LevelWarn},
		{input: "error", want: log.LevelError},
		{input: "loud", want: log.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := log.ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
