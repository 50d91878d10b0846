// Package logging builds the zerolog logger shared by coursedeck's
// packages. The terminal belongs to the UI, so logs normally go to a file.
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

// Stderr as a path logs to stderr in console format.
const Stderr = "-"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger writing to path at level. An empty path disables
// logging. The returned closer releases the log file.
func New(path, level string) (zerolog.Logger, io.Closer, error) {
	lvl := zerolog.InfoLevel
	if trimmed := strings.TrimSpace(level); trimmed != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(trimmed))
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("parse log level: %w", err)
		}
		lvl = parsed
	}

	zerolog.TimeFieldFormat = time.RFC3339

	switch path = strings.TrimSpace(path); path {
	case "":
		return zerolog.Nop(), nopCloser{}, nil
	case Stderr:
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			With().Timestamp().Logger().Level(lvl)
		return logger, nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("open log file: %w", err)
	}
	logger := zerolog.New(file).With().Timestamp().Logger().Level(lvl)
	return logger, file, nil
}
