// Package logging configures the daemon's structured logging. It wraps
// Go's log/slog package to provide JSON-formatted logs suitable for
// journald capture and post-hoc analysis.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// New creates a JSON slog logger at the given level. Logs go to stderr;
// when logFile is non-empty they are duplicated into that file. The
// returned close function releases the file and is a no-op otherwise.
func New(level, logFile string) (*slog.Logger, func() error, error) {
	writer := io.Writer(os.Stderr)
	closeFn := func() error { return nil }

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		writer = io.MultiWriter(os.Stderr, file)
		closeFn = func() error {
			if err := file.Sync(); err != nil {
				file.Close()
				return fmt.Errorf("syncing log file: %w", err)
			}
			return file.Close()
		}
	}

	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return slog.New(handler), closeFn, nil
}

// ParseLevel converts a string log level to slog.Level.
// Defaults to info if the level string is not recognized.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Nop returns a logger that discards all output. Useful in tests.
func Nop() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
