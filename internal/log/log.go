// Package log is the server's leveled stderr logger. Stdout carries the
// JSON-RPC stream, so nothing here ever writes to it.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Level represents the severity of a log message
type Level int

const (
	// LevelDebug is for verbose debugging information
	LevelDebug Level = iota
	// LevelInfo is for important operational events
	LevelInfo
	// LevelWarn is for warnings that don't prevent operation
	LevelWarn
	// LevelError is for errors that may affect functionality
	LevelError
)

var levelNames = [...]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel maps a case-insensitive level name to a Level
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug", "trace", "verbose":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", name)
}

const prefix = "[PADLS]"

var (
	mu       sync.Mutex
	output   io.Writer = os.Stderr
	minLevel           = LevelInfo
)

// SetOutput sets the output destination (primarily for testing).
// A nil writer silences the logger.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetLevel sets the minimum log level to display
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = level
}

// GetLevel returns the current minimum log level
func GetLevel() Level {
	mu.Lock()
	defer mu.Unlock()
	return minLevel
}

// Enabled reports whether messages at level would be written
func Enabled(level Level) bool {
	mu.Lock()
	defer mu.Unlock()
	return output != nil && level >= minLevel
}

// Debug logs a debug message
func Debug(format string, args ...any) {
	write(LevelDebug, format, args...)
}

// Info logs an info message
func Info(format string, args ...any) {
	write(LevelInfo, format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...any) {
	write(LevelWarn, format, args...)
}

// Error logs an error message
func Error(format string, args ...any) {
	write(LevelError, format, args...)
}

func write(level Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if level < minLevel || output == nil {
		return
	}

	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	fmt.Fprintf(output, "%s %s: %s\n", prefix, level, msg)
}
