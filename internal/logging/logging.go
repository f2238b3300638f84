// Package logging sets up the zerolog file logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "info"

// ParseLevel parses a level name, treating empty as DefaultLevel.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		name = DefaultLevel
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// New returns a logger writing JSON lines to w at the given level.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// OpenFile opens (appending) the log file at path and returns a logger on it.
// The terminal belongs to the UI, so nothing is written to stdout or stderr.
func OpenFile(path string, level zerolog.Level) (zerolog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano
	return New(file, level), file, nil
}
