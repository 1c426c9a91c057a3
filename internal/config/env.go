package config

import (
	"os"
	"strings"
)

// loadFromEnv overrides config from environment variables and records
// each override in sources.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	setEnv := func(field string) {
		sources[field] = SourceEnv
	}

	if v := os.Getenv("JCAL_FILE"); v != "" {
		cfg.ScheduleFile = v
		setEnv("schedule_file")
	}
	if v := os.Getenv("JCAL_EVENT_DURATION"); v != "" {
		cfg.EventDuration = v
		setEnv("event_duration")
	}

	// Logging configuration
	if v := os.Getenv("JCAL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		setEnv("log_level")
	}
	if v := os.Getenv("JCAL_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		setEnv("log_format")
	}
	if v := os.Getenv("JCAL_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		setEnv("log_timestamps")
	}
	if v := os.Getenv("JCAL_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		setEnv("log_caller")
	}

	// NO_COLOR disables color when set to any non-empty value.
	if v := os.Getenv("NO_COLOR"); v != "" {
		cfg.NoColor = true
		setEnv("no_color")
	}
	if v := os.Getenv("JCAL_NO_COLOR"); v != "" {
		cfg.NoColor = boolFromString(v)
		setEnv("no_color")
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
