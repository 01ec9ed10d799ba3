// Package logging configures the process-wide slog logger.
//
// Interactive sessions own the terminal, so they log JSON to a file under the
// config directory. One-shot commands log text to stderr.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/diogo/promptdeck/internal/config"
)

// LogFileName is the file used by interactive sessions
const LogFileName = "promptdeck.log"

// Level returns Debug when verbose, Warn otherwise
func Level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// New creates a logger writing to w
func New(w io.Writer, verbose, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: Level(verbose)}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SetupCLI installs a text logger on stderr as the default
func SetupCLI(verbose bool) *slog.Logger {
	logger := New(os.Stderr, verbose, false)
	slog.SetDefault(logger)
	return logger
}

// DefaultLogPath returns ~/.promptdeck/promptdeck.log
func DefaultLogPath() (string, error) {
	dir, err := config.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, LogFileName), nil
}

// SetupFile installs a JSON logger appending to path as the default.
// Interactive sessions log at Info unless verbose. The returned func closes
// the file.
func SetupFile(path string, verbose bool) (*slog.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	return logger, f.Close, nil
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
