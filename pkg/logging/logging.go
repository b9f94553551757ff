// Package logging builds the zerolog loggers used by shopfront.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "15:04:05.000"

// ParseLevel converts a level name into a zerolog level.
// An empty name means info.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	if name == "warning" {
		name = "warn"
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// NewConsole returns a human readable logger writing to w.
func NewConsole(w io.Writer, level zerolog.Level) zerolog.Logger {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: consoleTimeFormat, NoColor: true}
	return zerolog.New(cw).Level(level).With().Timestamp().Logger()
}

// Open returns a logger for the given level and destination. With a file
// path the logger writes JSON lines to that file; otherwise it writes to
// stderr in console format. The returned closer releases the file.
func Open(levelName, path string) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLevel(levelName)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	if path == "" {
		return NewConsole(os.Stderr, level), nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	// #nosec G304 - log path comes from the user's own configuration
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return zerolog.New(f).Level(level).With().Timestamp().Logger(), f, nil
}

// nopCloser is returned when there is no file to release.
type nopCloser struct{}

func (nopCloser) Close() error { return nil }
