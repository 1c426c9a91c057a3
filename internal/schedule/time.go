package schedule

import (
	"fmt"
	"strings"
	"time"
)

const (
	// instantLayout is the stored form of every instant.
	instantLayout = "2006-01-02T15:04:05.000Z"

	// DisplayLayout is the minute-precision layout used when rendering instants.
	DisplayLayout = "2006-01-02 15:04"

	// DateLayout is the layout of an explicit calendar date.
	DateLayout = "2006-01-02"
)

// inputLayouts are tried in order when reading user-supplied times.
// None of them carries a zone except RFC 3339, so time.Parse reads the
// rest as UTC.
var inputLayouts = []string{
	DisplayLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
	DateLayout,
}

// FormatInstant formats t in the stored layout, always in UTC.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(instantLayout)
}

// ParseInstant parses a stored ISO-8601 instant and normalizes it to UTC.
func ParseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse instant %q: %w", s, err)
	}
	return t.UTC(), nil
}

// ParseTime reads user input such as "2024-06-12 09:30" as UTC wall-clock time.
func ParseTime(s string) (time.Time, error) {
	value := strings.TrimSpace(s)
	if value == "" {
		return time.Time{}, &ValidationError{Field: "time", Err: fmt.Errorf("empty time")}
	}
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &ValidationError{
		Field: "time",
		Err:   fmt.Errorf("invalid time %q, expected YYYY-MM-DD HH:mm", s),
	}
}

// ParseDate reads an explicit YYYY-MM-DD date as a UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, &ValidationError{
			Field: "date",
			Err:   fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s),
		}
	}
	return t.UTC(), nil
}

// FormatDisplay formats t for terminal output at minute precision.
func FormatDisplay(t time.Time) string {
	return t.UTC().Format(DisplayLayout)
}
