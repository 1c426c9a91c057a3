package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# jcal configuration file
# Values can be overridden by environment variables (JCAL_*) or CLI flags

# Schedule file (relative to the working directory, supports ~ expansion)
schedule_file = "schedule.json"

# Logging: debug, info, warn, error
log_level = "warn"

# Log format: text, json, logfmt
log_format = "text"

# Show timestamps and caller location in logs
log_timestamps = false
log_caller = false

# Disable colored output (NO_COLOR is honored too)
no_color = false

# Length of exported calendar events (Go duration, e.g. 30m, 1h30m)
event_duration = "1h"
`
}
