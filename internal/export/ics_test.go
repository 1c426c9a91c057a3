package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/nibzard/jcal-go/internal/schedule"
)

func testRecords() []schedule.Record {
	created := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	return []schedule.Record{
		{ID: "todo0001", Title: "Buy milk", Status: schedule.StatusPending, CreatedAt: created},
		{ID: "meet0001", Title: "Standup", Status: schedule.StatusPending, CreatedAt: created,
			Detail: &schedule.Detail{At: time.Date(2024, 6, 12, 9, 30, 0, 0, time.UTC), Content: "Daily sync"}},
		{ID: "notime01", Title: "Broken", Status: schedule.StatusPending, CreatedAt: created,
			Detail: &schedule.Detail{Content: "no instant"}},
		{ID: "trip0001", Title: "Flight", Status: schedule.StatusDone, CreatedAt: created,
			Detail: &schedule.Detail{At: time.Date(2024, 7, 2, 6, 0, 0, 0, time.UTC), Content: "Gate 4"}},
	}
}

func TestWriteICSRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteICS(&buf, testRecords(), Options{Duration: 90 * time.Minute})
	if err != nil {
		t.Fatalf("WriteICS: %v", err)
	}
	if n != 2 {
		t.Fatalf("events: got %d, want 2", n)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "BEGIN:VCALENDAR") {
		t.Errorf("output does not start a calendar:\n%s", out)
	}

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ParseCalendar: %v", err)
	}
	events := cal.Events()
	if len(events) != 2 {
		t.Fatalf("parsed events: got %d, want 2", len(events))
	}

	ev := events[0]
	if p := ev.GetProperty(ical.ComponentPropertyUniqueId); p == nil || p.Value != "meet0001@jcal" {
		t.Errorf("UID: got %+v", p)
	}
	if p := ev.GetProperty(ical.ComponentPropertySummary); p == nil || p.Value != "Standup" {
		t.Errorf("SUMMARY: got %+v", p)
	}
	if p := ev.GetProperty(ical.ComponentPropertyDescription); p == nil || p.Value != "Daily sync" {
		t.Errorf("DESCRIPTION: got %+v", p)
	}

	start, err := ev.GetStartAt()
	if err != nil {
		t.Fatalf("GetStartAt: %v", err)
	}
	if !start.Equal(time.Date(2024, 6, 12, 9, 30, 0, 0, time.UTC)) {
		t.Errorf("DTSTART: got %v", start)
	}
	end, err := ev.GetEndAt()
	if err != nil {
		t.Fatalf("GetEndAt: %v", err)
	}
	if end.Sub(start) != 90*time.Minute {
		t.Errorf("duration: got %v, want 90m", end.Sub(start))
	}
}

func TestCalendarDefaults(t *testing.T) {
	cal, n := Calendar(testRecords()[:2], Options{Name: "jcal"})
	if n != 1 {
		t.Fatalf("events: got %d, want 1", n)
	}
	out := cal.Serialize()
	if !strings.Contains(out, ProductID) {
		t.Errorf("missing PRODID:\n%s", out)
	}
	if !strings.Contains(out, "X-WR-CALNAME:jcal") {
		t.Errorf("missing calendar name:\n%s", out)
	}

	ev := cal.Events()[0]
	start, _ := ev.GetStartAt()
	end, _ := ev.GetEndAt()
	if end.Sub(start) != DefaultDuration {
		t.Errorf("default duration: got %v", end.Sub(start))
	}
}

func TestWriteICSEmpty(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteICS(&buf, nil, Options{})
	if err != nil {
		t.Fatalf("WriteICS: %v", err)
	}
	if n != 0 {
		t.Errorf("events: got %d", n)
	}
	if !strings.Contains(buf.String(), "END:VCALENDAR") {
		t.Errorf("empty export should still be a calendar:\n%s", buf.String())
	}
}
