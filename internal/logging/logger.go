// Package logging builds the zerolog logger used for diagnostics. Notices
// meant for the user go through the report package instead.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration options
type Config struct {
	// Level is the minimum log level to output
	Level string

	// Format is the output format (auto, console, json)
	Format string

	// Output is where to write logs (stderr, stdout, discard, or a file path)
	Output string

	// NoColor disables color output in console mode
	NoColor bool

	// MaxSizeMB caps a log file before it is rotated
	MaxSizeMB int

	// MaxBackups is the number of rotated log files kept
	MaxBackups int
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() Config {
	return Config{
		Level:      "warn",
		Format:     "auto",
		Output:     "stderr",
		NoColor:    os.Getenv("NO_COLOR") != "",
		MaxSizeMB:  10,
		MaxBackups: 3,
	}
}

// New creates a logger from cfg. File outputs rotate through lumberjack.
func New(cfg Config) zerolog.Logger {
	level := ParseLevel(cfg.Level)

	return zerolog.New(writer(cfg)).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Nop returns a disabled logger.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

func writer(cfg Config) io.Writer {
	var output io.Writer
	isFile := false

	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		output = os.Stderr
	case "stdout":
		output = os.Stdout
	case "discard", "none":
		return io.Discard
	default:
		output = &lumberjack.Logger{
			Filename:   cfg.Output,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		isFile = true
	}

	format := strings.ToLower(cfg.Format)
	if format == "" || format == "auto" {
		format = "json"
		if !isFile && isTerminal(output) {
			format = "console"
		}
	}

	if format == "console" || format == "pretty" {
		return zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.Kitchen,
			NoColor:    cfg.NoColor || isFile,
		}
	}
	return output
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// ParseLevel parses a log level string, falling back to warn.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "warning":
		return zerolog.WarnLevel
	case "disabled", "none", "off":
		return zerolog.Disabled
	}

	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		return zerolog.WarnLevel
	}
	return l
}
