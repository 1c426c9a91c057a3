// Package window resolves relative date selectors into UTC time windows.
//
// Day and week selectors resolve to closed instant intervals; a record
// matches when its instant lies inside, bounds included. Month selectors
// compare the (year, month) of the record instant with the reference month
// instead of testing an interval. Weeks follow ISO 8601 and start on Monday.
package window

import (
	"fmt"
	"strings"
	"time"

	"github.com/nibzard/jcal-go/internal/schedule"
)

// Selector names one date filter.
type Selector int

const (
	None Selector = iota
	Date
	Today
	Tomorrow
	ThisWeek
	NextWeek
	ThisMonth
	NextMonth
)

var selectorNames = map[Selector]string{
	None:      "none",
	Date:      "date",
	Today:     "today",
	Tomorrow:  "tomorrow",
	ThisWeek:  "this-week",
	NextWeek:  "next-week",
	ThisMonth: "this-month",
	NextMonth: "next-month",
}

func (s Selector) String() string {
	if name, ok := selectorNames[s]; ok {
		return name
	}
	return fmt.Sprintf("selector(%d)", int(s))
}

// Query holds the date filter flags of one invocation.
type Query struct {
	Date      string
	Today     bool
	Tomorrow  bool
	ThisWeek  bool
	NextWeek  bool
	ThisMonth bool
	NextMonth bool
}

// Selector returns the single active selector. When several flags are
// set, the first in the order date, today, tomorrow, this-week,
// next-week, this-month, next-month wins.
func (q Query) Selector() Selector {
	switch {
	case strings.TrimSpace(q.Date) != "":
		return Date
	case q.Today:
		return Today
	case q.Tomorrow:
		return Tomorrow
	case q.ThisWeek:
		return ThisWeek
	case q.NextWeek:
		return NextWeek
	case q.ThisMonth:
		return ThisMonth
	case q.NextMonth:
		return NextMonth
	default:
		return None
	}
}

// Active reports whether any date flag is set.
func (q Query) Active() bool {
	return q.Selector() != None
}

// Window is a resolved date filter.
type Window struct {
	Selector Selector
	Start    time.Time
	End      time.Time
}

// Resolve turns q into a window relative to now. An unparsable explicit
// date is a *schedule.ValidationError.
func Resolve(now time.Time, q Query) (Window, error) {
	now = now.UTC()
	sel := q.Selector()

	switch sel {
	case None:
		return Window{Selector: None}, nil
	case Date:
		day, err := schedule.ParseDate(q.Date)
		if err != nil {
			return Window{}, err
		}
		return dayWindow(sel, day), nil
	case Today:
		return dayWindow(sel, now), nil
	case Tomorrow:
		return dayWindow(sel, now.AddDate(0, 0, 1)), nil
	case ThisWeek:
		return weekWindow(sel, now), nil
	case NextWeek:
		return weekWindow(sel, now.AddDate(0, 0, 7)), nil
	case ThisMonth:
		return monthWindow(sel, now, 0), nil
	case NextMonth:
		return monthWindow(sel, now, 1), nil
	default:
		return Window{}, fmt.Errorf("unknown selector %v", sel)
	}
}

// StartOfDay returns midnight UTC of t's day.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfISOWeek returns midnight UTC of the Monday starting t's ISO week.
func StartOfISOWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

func dayWindow(sel Selector, t time.Time) Window {
	start := StartOfDay(t)
	return Window{Selector: sel, Start: start, End: start.AddDate(0, 0, 1).Add(-time.Nanosecond)}
}

func weekWindow(sel Selector, t time.Time) Window {
	start := StartOfISOWeek(t)
	return Window{Selector: sel, Start: start, End: start.AddDate(0, 0, 7).Add(-time.Nanosecond)}
}

// monthWindow steps from the first of the month so that adding a month
// never overflows into the month after (Jan 31 + 1 month is February).
func monthWindow(sel Selector, t time.Time, months int) Window {
	start := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	return Window{Selector: sel, Start: start, End: start.AddDate(0, 1, 0).Add(-time.Nanosecond)}
}

// Contains reports whether t falls in the window. Month selectors compare
// year and month only; the others are inclusive range tests.
func (w Window) Contains(t time.Time) bool {
	t = t.UTC()
	switch w.Selector {
	case None:
		return true
	case ThisMonth, NextMonth:
		return t.Year() == w.Start.Year() && t.Month() == w.Start.Month()
	default:
		return !t.Before(w.Start) && !t.After(w.End)
	}
}

// Matches reports whether rec passes the window. With an active selector,
// only detailed records with a usable instant can match.
func (w Window) Matches(rec schedule.Record) bool {
	if w.Selector == None {
		return true
	}
	at, ok := rec.When()
	if !ok {
		return false
	}
	return w.Contains(at)
}

func (w Window) String() string {
	switch w.Selector {
	case None:
		return "any date"
	case ThisMonth, NextMonth:
		return fmt.Sprintf("%s (%s)", w.Selector, w.Start.Format("2006-01"))
	default:
		return fmt.Sprintf("%s (%s .. %s)", w.Selector,
			w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
	}
}
