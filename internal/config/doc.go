// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.jcal/jcal.toml or OS-specific config directory)
// 3. Project config file (jcal.toml or .jcal.toml in the working directory)
// 4. Environment variables (JCAL_*, plus NO_COLOR)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.jcal/jcal.toml (preferred)
// - Windows: %APPDATA%\jcal\jcal.toml
// - macOS: ~/Library/Application Support/jcal/jcal.toml
// - Linux/BSD: $XDG_CONFIG_HOME/jcal/jcal.toml or ~/.config/jcal/jcal.toml
//
// Project-level config locations (overrides user config):
// - ./jcal.toml (preferred)
// - ./.jcal.toml
package config
