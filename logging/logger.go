// Package logging wraps log/slog with the field names used across wordvec.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Logger wraps slog.Logger with wordvec-specific helpers.
type Logger struct {
	*slog.Logger
}

// New creates a Logger with the given handler. A nil handler logs text to
// stderr at info level.
func New(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewText creates a Logger that writes human-readable text logs to w.
func NewText(w io.Writer, level slog.Level) *Logger {
	return New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewJSON creates a Logger that writes JSON logs to w.
func NewJSON(w io.Writer, level slog.Level) *Logger {
	return New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Noop returns a Logger that discards everything.
func Noop() *Logger {
	return New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(1000)}))
}

// Build creates a Logger from a format ("text" or "json") and level name.
func Build(w io.Writer, format, level string) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(format) {
	case "", "text":
		return NewText(w, lvl), nil
	case "json":
		return NewJSON(w, lvl), nil
	default:
		return nil, fmt.Errorf("logging: unsupported format %q", format)
	}
}

// ParseLevel maps debug/info/warn/error (case-insensitive) to a slog level;
// an empty string means info.
func ParseLevel(level string) (slog.Level, error) {
	if strings.TrimSpace(level) == "" {
		return slog.LevelInfo, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("logging: invalid level %q: %w", level, err)
	}
	return lvl, nil
}

// With returns a Logger carrying the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// LogLoad logs the one-time vector model load.
func (l *Logger) LogLoad(ctx context.Context, words, dimension int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "model load failed", "elapsed", elapsed, "error", err)
		return
	}
	l.InfoContext(ctx, "model loaded", "words", words, "dimension", dimension, "elapsed", elapsed)
}

// LogQuery logs a caller-facing operation. Expected domain errors (unknown
// words) are logged at debug level with the rest; callers pass unexpected
// failures with unexpected=true.
func (l *Logger) LogQuery(ctx context.Context, op string, elapsed time.Duration, err error, unexpected bool, args ...any) {
	args = append(args, "op", op, "elapsed", elapsed)
	switch {
	case err != nil && unexpected:
		l.ErrorContext(ctx, "query failed", append(args, "error", err)...)
	case err != nil:
		l.DebugContext(ctx, "query rejected", append(args, "reason", err.Error())...)
	default:
		l.DebugContext(ctx, "query completed", args...)
	}
}
