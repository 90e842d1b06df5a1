// Package logging builds the zerolog loggers handed to the solver
// components.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Options controls logger construction.
type Options struct {
	// Level is a zerolog level name ("debug", "info", ...); unknown or
	// empty values mean info.
	Level string
	// Format is "json" (default) or "console".
	Format string
	// Writer overrides the output; nil means stderr.
	Writer io.Writer
}

// New creates a configured logger.
func New(opts Options) zerolog.Logger {
	var w io.Writer = os.Stderr
	if opts.Writer != nil {
		w = opts.Writer
	}
	if opts.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
