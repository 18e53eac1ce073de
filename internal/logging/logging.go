// Package logging provides waypoint's two-level logger.
//
// Notice messages matter to the user: they go to the log file when one is
// configured and to stderr otherwise. Debug messages only ever reach the
// log file. Write failures are swallowed; logging never fails a command.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Logger implements the engine's logging collaborator.
type Logger struct {
	l      *slog.Logger
	closer io.Closer
}

// New opens path for appending and logs there at debug level. With an
// empty path, or if the file cannot be opened, notices go to fallback
// and debug output is dropped.
func New(path string, fallback io.Writer) *Logger {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err == nil {
				return &Logger{l: newSlog(f, slog.LevelDebug), closer: f}
			}
		}
	}
	if fallback == nil {
		fallback = os.Stderr
	}
	return &Logger{l: newSlog(fallback, slog.LevelWarn)}
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return &Logger{l: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func newSlog(w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("app", "waypoint")
}

// Notice logs something the user should see.
func (l *Logger) Notice(msg string, args ...any) {
	l.l.Log(context.Background(), slog.LevelWarn, msg, args...)
}

// Debug logs to the log file only.
func (l *Logger) Debug(msg string, args ...any) {
	l.l.Log(context.Background(), slog.LevelDebug, msg, args...)
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
