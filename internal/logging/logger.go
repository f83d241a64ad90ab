package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// LevelEnv overrides the log level when set (debug, info, warn, error).
const LevelEnv = "VECTOR_AWS_SECRETS_LOG_LEVEL"

// Logger provides structured logging with redaction support.
//
// Output always goes to stderr (or the writer given to NewWithWriter):
// stdout carries the exec protocol and must never see log lines.
type Logger struct {
	slog *slog.Logger
}

// New creates a new logger instance writing to stderr.
func New(debug, noColor bool) *Logger {
	return NewWithWriter(os.Stderr, debug, noColor)
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(w io.Writer, debug, noColor bool) *Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return NewWithLevel(w, level, noColor)
}

// NewWithLevel creates a logger writing to w at the given level. The
// LevelEnv variable, when set to a valid level, takes precedence.
func NewWithLevel(w io.Writer, level slog.Level, noColor bool) *Logger {
	if levelStr := os.Getenv(LevelEnv); levelStr != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(levelStr)); err == nil {
			level = l
		}
	}
	return &Logger{
		slog: slog.New(tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			NoColor:    noColor,
		})),
	}
}

// ParseLevel parses a level name, defaulting to info for empty input.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// With returns a logger that adds the given key/value attributes to every record.
func (l *Logger) With(args ...interface{}) *Logger {
	return &Logger{slog: l.slog.With(args...)}
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(slog.LevelInfo, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(slog.LevelWarn, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(slog.LevelError, format, args...)
}

// Debug logs a debug message if debug mode is enabled
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(slog.LevelDebug, format, args...)
}

func (l *Logger) log(level slog.Level, format string, args ...interface{}) {
	ctx := context.Background()
	if !l.slog.Enabled(ctx, level) {
		return
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	l.slog.Log(ctx, level, msg)
}

// Secret represents a value that should be redacted in logs
type Secret string

// String implements the Stringer interface, always returning a redacted value
func (s Secret) String() string {
	return "[REDACTED]"
}

// GoString implements the GoStringer interface for %#v formatting
func (s Secret) GoString() string {
	return "[REDACTED]"
}

// LogValue implements slog.LogValuer so structured attributes are redacted too.
func (s Secret) LogValue() slog.Value {
	return slog.StringValue("[REDACTED]")
}
