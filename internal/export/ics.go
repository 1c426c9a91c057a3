// Package export writes schedule records as iCalendar (RFC 5545) data.
package export

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/nibzard/jcal-go/internal/schedule"
)

const (
	// ProductID identifies jcal as the producer of exported calendars.
	ProductID = "-//nibzard//jcal//EN"

	// DefaultDuration is the event length when none is configured.
	DefaultDuration = time.Hour

	uidDomain = "jcal"
)

// Options configures an export.
type Options struct {
	// Duration is added to each record's instant to form DTEND.
	Duration time.Duration
	// Name is written as X-WR-CALNAME when set.
	Name string
}

// Calendar builds a VCALENDAR holding one VEVENT per detailed record with
// a usable instant. It returns the calendar and the number of events.
func Calendar(records []schedule.Record, opts Options) (*ical.Calendar, int) {
	duration := opts.Duration
	if duration <= 0 {
		duration = DefaultDuration
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}

	count := 0
	for _, rec := range records {
		at, ok := rec.When()
		if !ok {
			continue
		}

		event := cal.AddEvent(UID(rec.ID))
		event.SetDtStampTime(rec.CreatedAt)
		event.SetCreatedTime(rec.CreatedAt)
		event.SetStartAt(at)
		event.SetEndAt(at.Add(duration))
		event.SetSummary(rec.Title)
		if rec.Detail.Content != "" {
			event.SetDescription(rec.Detail.Content)
		}
		event.SetStatus(ical.ObjectStatusConfirmed)
		count++
	}
	return cal, count
}

// WriteICS serializes the calendar for records to w and returns the
// number of events written.
func WriteICS(w io.Writer, records []schedule.Record, opts Options) (int, error) {
	cal, count := Calendar(records, opts)
	if err := cal.SerializeTo(w); err != nil {
		return 0, fmt.Errorf("write calendar: %w", err)
	}
	return count, nil
}

// UID returns the iCalendar UID for a record id.
func UID(id string) string {
	return id + "@" + uidDomain
}
