package config

import (
	"flag"
)

// flagToSource maps global flag names to config keys.
var flagToSource = map[string]string{
	"file":           "schedule_file",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
	"no-color":       "no_color",
}

// parseFlags defines the global flags on fs, parses args, and applies
// only the flags that were set.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("jcal", flag.ContinueOnError)
	}

	scheduleFile := fs.String("file", cfg.ScheduleFile, "Path to schedule file")
	fs.StringVar(scheduleFile, "f", cfg.ScheduleFile, "Path to schedule file (shorthand)")
	logLevel := fs.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	logTimestamps := fs.Bool("log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	logCaller := fs.Bool("log-caller", cfg.LogCaller, "Show caller location in logs")
	noColor := fs.Bool("no-color", cfg.NoColor, "Disable colored output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		name := f.Name
		if name == "f" {
			name = "file"
		}
		field, ok := flagToSource[name]
		if !ok {
			return
		}
		sources[field] = SourceFlag

		switch field {
		case "schedule_file":
			cfg.ScheduleFile = *scheduleFile
		case "log_level":
			cfg.LogLevel = *logLevel
		case "log_format":
			cfg.LogFormat = *logFormat
		case "log_timestamps":
			cfg.LogTimestamps = *logTimestamps
		case "log_caller":
			cfg.LogCaller = *logCaller
		case "no_color":
			cfg.NoColor = *noColor
		}
	})

	return nil
}
