// Package logging builds the zerolog loggers used across mazebatch.
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLevel is used when no level or an unparseable level is configured.
const DefaultLevel = zerolog.InfoLevel

// ParseLevel converts a configured level name to a zerolog level. Unknown
// or empty names fall back to DefaultLevel.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return DefaultLevel
	}
	return lvl
}

// CheckLevel reports an error for a level name zerolog does not know.
// An empty name is accepted and means DefaultLevel.
func CheckLevel(level string) error {
	_, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	return err
}

// New creates a human-readable console logger writing to w.
// A nil writer logs to stderr. Colors are only used on stderr.
func New(level string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	console := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    w != io.Writer(os.Stderr),
	}
	return zerolog.New(console).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// Component returns a child logger tagged with a component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

// FromContext returns the logger stored in ctx. Without one, a disabled
// logger is returned so callers never need a nil check.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
