package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.jcal/jcal.toml or OS-specific config dir)
// 3. Project config file (jcal.toml or .jcal.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := LoadWithSources(fs, args)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
// Returns ConfigWithSources containing the config and a map of field names to their sources.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	cfg := &Config{}
	var files []string

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)
	for _, field := range ConfigFields() {
		sources[field] = SourceDefault
	}

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
		files = append(files, userConfigFile)
	}

	// 3. Try to load from project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
		files = append(files, projectConfigFile)
	}

	// 4. Override from environment
	loadFromEnv(cfg, sources)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, err
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return &ConfigWithSources{
		Config:  cfg,
		Sources: sources,
		Files:   files,
	}, nil
}

// ConfigFields returns the configurable keys in display order.
func ConfigFields() []string {
	return []string{
		"schedule_file",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"no_color",
		"event_duration",
	}
}

// loadConfigFile decodes a TOML file over cfg. Only keys present in the
// file are applied, and each one is attributed to source.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	tempCfg := &Config{}
	md, err := toml.DecodeFile(path, tempCfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown config key %q", undecoded[0].String())
	}

	if md.IsDefined("schedule_file") {
		setSource(&cfg.ScheduleFile, tempCfg.ScheduleFile, sources, "schedule_file", source)
	}
	if md.IsDefined("log_level") {
		setSource(&cfg.LogLevel, tempCfg.LogLevel, sources, "log_level", source)
	}
	if md.IsDefined("log_format") {
		setSource(&cfg.LogFormat, tempCfg.LogFormat, sources, "log_format", source)
	}
	if md.IsDefined("log_timestamps") {
		setSource(&cfg.LogTimestamps, tempCfg.LogTimestamps, sources, "log_timestamps", source)
	}
	if md.IsDefined("log_caller") {
		setSource(&cfg.LogCaller, tempCfg.LogCaller, sources, "log_caller", source)
	}
	if md.IsDefined("no_color") {
		setSource(&cfg.NoColor, tempCfg.NoColor, sources, "no_color", source)
	}
	if md.IsDefined("event_duration") {
		setSource(&cfg.EventDuration, tempCfg.EventDuration, sources, "event_duration", source)
	}
	return nil
}

// setSource is a helper for loadConfigFile.
func setSource[T any](field *T, value T, sources map[string]ConfigSource, name string, source ConfigSource) {
	*field = value
	sources[name] = source
}

// finalizeConfig computes derived values and validates paths.
func finalizeConfig(cfg *Config) error {
	// Determine project root
	if cfg.ProjectRoot == "" {
		// Use current working directory
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.ProjectRoot = wd
	}

	if cfg.ScheduleFile == "" {
		cfg.ScheduleFile = DefaultScheduleFile
	}
	cfg.ScheduleFile = expandPath(cfg.ScheduleFile)
	if !filepath.IsAbs(cfg.ScheduleFile) {
		cfg.ScheduleFile = filepath.Join(cfg.ProjectRoot, cfg.ScheduleFile)
	}

	d, err := time.ParseDuration(cfg.EventDuration)
	if err != nil {
		return fmt.Errorf("event_duration: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("event_duration: must be positive, got %s", cfg.EventDuration)
	}
	cfg.Duration = d

	return nil
}
