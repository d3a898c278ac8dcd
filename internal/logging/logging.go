// Package logging builds the zerolog loggers used by the reiter CLI.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Format selects how log lines are rendered.
type Format uint8

const (
	// ConsoleFormat renders human-readable lines.
	ConsoleFormat Format = iota
	// JSONFormat renders one JSON object per line.
	JSONFormat
)

// Options for New.
type Options struct {
	// Level is the minimum level written. Default: warn.
	Level zerolog.Level
	// Format defaults to ConsoleFormat.
	Format Format
	// Out receives log lines; nil disables logging.
	Out io.Writer
}

// ParseLevel parses a level name such as "debug" or "warn".
// An empty string yields warn.
func ParseLevel(level string) (zerolog.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zerolog.WarnLevel, nil
	}

	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	return parsed, nil
}

// ParseFormat parses "console" or "json". An empty string yields console.
func ParseFormat(format string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "console":
		return ConsoleFormat, nil
	case "json":
		return JSONFormat, nil
	default:
		return ConsoleFormat, fmt.Errorf("invalid log format %q (want console or json)", format)
	}
}

// New returns a root logger configured by opts.
func New(opts Options) zerolog.Logger {
	if opts.Out == nil {
		return zerolog.Nop()
	}

	var w io.Writer = opts.Out
	if opts.Format == ConsoleFormat {
		w = newConsoleWriter(opts.Out)
	}

	return zerolog.New(w).Level(opts.Level).With().Timestamp().Logger()
}

// Component returns a sub-logger tagged with the component name.
func Component(root zerolog.Logger, name string) zerolog.Logger {
	return root.With().Str("component", name).Logger()
}

func newConsoleWriter(out io.Writer) zerolog.ConsoleWriter {
	cw := zerolog.ConsoleWriter{Out: out, NoColor: true, TimeFormat: time.RFC3339}

	cw.FormatLevel = func(i any) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}

	return cw
}
