// Package logger provides a small leveled logger for the application.
// It supports three levels: off (no output), normal (info/warn/error),
// and verbose (includes debug). Loggers are safe for concurrent use, and
// named children share their parent's level.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level controls the verbosity of the logger.
type Level int

const (
	// LevelOff disables all log output.
	LevelOff Level = iota
	// LevelNormal enables info, warn, and error output.
	LevelNormal
	// LevelVerbose enables all output including debug.
	LevelVerbose
)

// ParseLevel maps "off", "normal" or "verbose" (and a few aliases) to a Level.
// Unknown names fall back to LevelNormal.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "quiet", "none":
		return LevelOff
	case "verbose", "debug":
		return LevelVerbose
	default:
		return LevelNormal
	}
}

// sink is the state shared between a logger and its named children.
type sink struct {
	mu    sync.RWMutex
	level Level
	out   *log.Logger
}

// Logger is a leveled logger. All methods are safe for concurrent use.
type Logger struct {
	sink   *sink
	prefix string
}

// New creates a logger with the given level, writing to the given output.
// If out is nil, os.Stderr is used.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}
	return &Logger{sink: &sink{
		level: level,
		out:   log.New(out, "", log.Ltime),
	}}
}

// Named returns a child logger whose lines are tagged with the component name.
func (l *Logger) Named(component string) *Logger {
	prefix := component + ": "
	if l.prefix != "" {
		prefix = l.prefix + prefix
	}
	return &Logger{sink: l.sink, prefix: prefix}
}

// SetLevel changes the log level at runtime, for this logger and every child.
func (l *Logger) SetLevel(level Level) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.level = level
}

// GetLevel returns the current log level.
func (l *Logger) GetLevel() Level {
	l.sink.mu.RLock()
	defer l.sink.mu.RUnlock()
	return l.sink.level
}

// Debug logs a message at debug level (only visible in verbose mode).
func (l *Logger) Debug(format string, args ...any) { l.emit(LevelVerbose, "[DBG] ", format, args) }

// Info logs a message at info level.
func (l *Logger) Info(format string, args ...any) { l.emit(LevelNormal, "[INF] ", format, args) }

// Warn logs a message at warn level.
func (l *Logger) Warn(format string, args ...any) { l.emit(LevelNormal, "[WRN] ", format, args) }

// Error logs a message at error level.
func (l *Logger) Error(format string, args ...any) { l.emit(LevelNormal, "[ERR] ", format, args) }

func (l *Logger) emit(min Level, tag, format string, args []any) {
	l.sink.mu.RLock()
	defer l.sink.mu.RUnlock()
	if l.sink.level < min {
		return
	}
	l.sink.out.Output(3, tag+l.prefix+fmt.Sprintf(format, args...))
}
