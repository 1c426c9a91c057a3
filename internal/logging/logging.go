// Package logging provides leveled console logging with charmbracelet/log.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/jcal-go/internal/config"
)

// Prefix is printed in front of every log line.
const Prefix = "jcal"

// Options holds configuration for console logging.
type Options struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	ReportCaller    bool
	Prefix          string
}

// DefaultOptions returns default options for console logging.
func DefaultOptions() Options {
	return Options{
		Level:           log.WarnLevel,
		Formatter:       log.TextFormatter,
		ReportTimestamp: false,
		ReportCaller:    false,
		Prefix:          Prefix,
	}
}

// New creates a logger writing to w. A nil w means stderr.
func New(w io.Writer, opts Options) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		ReportCaller:    opts.ReportCaller,
		Prefix:          opts.Prefix,
	})
}

// FromConfig creates the process logger from loaded configuration.
func FromConfig(w io.Writer, cfg *config.Config) *log.Logger {
	opts := DefaultOptions()
	if cfg != nil {
		opts.Level = ParseLevel(cfg.LogLevel)
		opts.Formatter = ParseFormatter(cfg.LogFormat)
		opts.ReportTimestamp = cfg.LogTimestamps
		opts.ReportCaller = cfg.LogCaller
	}
	return New(w, opts)
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return New(io.Discard, DefaultOptions())
}

// NewTest creates a logger for tests: debug level, plain text, no
// timestamps, so output is easy to assert on.
func NewTest(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:     log.DebugLevel,
		Formatter: log.TextFormatter,
	})
}

// ParseLevel parses a string log level to a charmbracelet/log Level.
// Unknown values fall back to warn.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.WarnLevel
	}
}

// ParseFormatter parses a string formatter name to a charmbracelet/log Formatter.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// ValidLevel reports whether level names a known log level.
func ValidLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "info", "warn", "warning", "error", "fatal":
		return true
	}
	return false
}

// ValidFormat reports whether format names a known formatter.
func ValidFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text", "json", "logfmt":
		return true
	}
	return false
}
