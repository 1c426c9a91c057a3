package config

import (
	"fmt"
	"time"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource

	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultScheduleFile  = "schedule.json"
	DefaultLogLevel      = "warn"
	DefaultLogFormat     = "text"
	DefaultEventDuration = "1h"
)

// Config holds the full configuration for jcal.
type Config struct {
	// Paths
	ScheduleFile string `toml:"schedule_file"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Output
	NoColor bool `toml:"no_color"`

	// Export: length given to calendar events, which only carry a start
	EventDuration string `toml:"event_duration"`

	// Computed
	ProjectRoot string        `toml:"-"`
	Duration    time.Duration `toml:"-"`
}

// Value returns the string form of a field by its config key.
func (c *Config) Value(key string) (string, error) {
	switch key {
	case "schedule_file":
		return c.ScheduleFile, nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	case "log_timestamps":
		return fmt.Sprint(c.LogTimestamps), nil
	case "log_caller":
		return fmt.Sprint(c.LogCaller), nil
	case "no_color":
		return fmt.Sprint(c.NoColor), nil
	case "event_duration":
		return c.EventDuration, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}
