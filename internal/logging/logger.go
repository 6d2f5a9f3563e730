// =============================================================================
// MailPrep - Logging
// =============================================================================
//
// Logger is the leveled, printf-style logging interface used across the
// application. The default implementation writes through log/slog's text
// handler so every line carries a timestamp and level.
//
// LEVELS:
//   "debug", "info", "warn", "error" (case-insensitive). Unknown values fall
//   back to "info".
//
// =============================================================================

package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Logger is an interface for logging.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// Levels accepted by ParseLevel.
var Levels = []string{"debug", "info", "warn", "error"}

// ParseLevel converts a level name into a slog level.
func ParseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// =============================================================================
// SLOG LOGGER
// =============================================================================

type slogLogger struct {
	inner *slog.Logger
}

// New creates a logger writing to w at the given level.
func New(w io.Writer, level string) Logger {
	lvl, _ := ParseLevel(level)
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	return &slogLogger{inner: slog.New(handler)}
}

func (l *slogLogger) log(level slog.Level, msg string, args []interface{}) {
	ctx := context.Background()
	if !l.inner.Enabled(ctx, level) {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	l.inner.Log(ctx, level, msg)
}

func (l *slogLogger) Debug(msg string, args ...interface{}) {
	l.log(slog.LevelDebug, msg, args)
}

func (l *slogLogger) Info(msg string, args ...interface{}) {
	l.log(slog.LevelInfo, msg, args)
}

func (l *slogLogger) Warn(msg string, args ...interface{}) {
	l.log(slog.LevelWarn, msg, args)
}

func (l *slogLogger) Error(msg string, args ...interface{}) {
	l.log(slog.LevelError, msg, args)
}

// =============================================================================
// NOP LOGGER
// =============================================================================

type nopLogger struct{}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// =============================================================================
// CALL TRACING
// =============================================================================

// LogCall debug-logs a call with the Go-syntax representation of its
// arguments: Calling SetProperty("Customer", "UW").
func LogCall(log Logger, name string, args ...interface{}) {
	reprs := make([]string, len(args))
	for i, arg := range args {
		reprs[i] = fmt.Sprintf("%#v", arg)
	}
	log.Debug("Calling %s(%s)", name, strings.Join(reprs, ", "))
}
