package schedule

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status represents a record status.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusDone
}

// Kind distinguishes plain to-dos from detailed, time-bound records.
type Kind string

const (
	KindTodo     Kind = "todo"
	KindDetailed Kind = "detailed"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindTodo || k == KindDetailed
}

// Detail holds the fields only a detailed record carries.
type Detail struct {
	At      time.Time
	Content string

	// raw keeps a stored dateTime that is not a parseable instant so it
	// survives a load/save cycle untouched.
	raw string
}

// HasTime reports whether the detail carries a usable instant.
func (d *Detail) HasTime() bool {
	return d != nil && !d.At.IsZero()
}

// Record is a single schedule entry.
//
// Detail is non-nil exactly when the record is detailed; Kind is derived
// from it, so a todo can never hold a time or content.
type Record struct {
	ID        string
	Title     string
	Status    Status
	CreatedAt time.Time
	Detail    *Detail
}

// Kind returns the record kind.
func (r Record) Kind() Kind {
	if r.Detail != nil {
		return KindDetailed
	}
	return KindTodo
}

// IsDone reports whether the record is done.
func (r Record) IsDone() bool {
	return r.Status == StatusDone
}

// When returns the record instant, if the record has one.
func (r Record) When() (time.Time, bool) {
	if !r.Detail.HasTime() {
		return time.Time{}, false
	}
	return r.Detail.At, true
}

// clone returns a copy that shares no memory with r.
func (r Record) clone() Record {
	if r.Detail != nil {
		d := *r.Detail
		r.Detail = &d
	}
	return r
}

// recordJSON is the on-disk shape of a record.
type recordJSON struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Status    Status  `json:"status"`
	CreatedAt string  `json:"createdAt"`
	Type      Kind    `json:"type"`
	DateTime  *string `json:"dateTime,omitempty"`
	Content   *string `json:"content,omitempty"`
}

// MarshalJSON writes the record in the schedule file layout.
func (r Record) MarshalJSON() ([]byte, error) {
	out := recordJSON{
		ID:        r.ID,
		Title:     r.Title,
		Status:    r.Status,
		CreatedAt: FormatInstant(r.CreatedAt),
		Type:      r.Kind(),
	}
	if r.Detail != nil {
		switch {
		case r.Detail.HasTime():
			s := FormatInstant(r.Detail.At)
			out.DateTime = &s
		case r.Detail.raw != "":
			s := r.Detail.raw
			out.DateTime = &s
		}
		content := r.Detail.Content
		out.Content = &content
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a record from the schedule file layout.
// A todo record drops any stray dateTime or content it carries.
func (r *Record) UnmarshalJSON(data []byte) error {
	var in recordJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	if !in.Status.Valid() {
		return &ValidationError{Field: "status", Err: fmt.Errorf("invalid status %q for %q", in.Status, in.ID)}
	}

	kind := in.Type
	if kind == "" {
		kind = KindTodo
	}
	if !kind.Valid() {
		return &ValidationError{Field: "type", Err: fmt.Errorf("invalid type %q for %q", in.Type, in.ID)}
	}

	createdAt, err := ParseInstant(in.CreatedAt)
	if err != nil {
		return &ValidationError{Field: "createdAt", Err: fmt.Errorf("record %q: %w", in.ID, err)}
	}

	rec := Record{
		ID:        in.ID,
		Title:     in.Title,
		Status:    in.Status,
		CreatedAt: createdAt,
	}
	if kind == KindDetailed {
		d := &Detail{}
		if in.Content != nil {
			d.Content = *in.Content
		}
		if in.DateTime != nil {
			if at, err := ParseInstant(*in.DateTime); err == nil {
				d.At = at
			} else {
				d.raw = *in.DateTime
			}
		}
		rec.Detail = d
	}

	*r = rec
	return nil
}

// Document is the schedule file structure.
type Document struct {
	Schedules []Record `json:"schedules"`
}

// Len returns the number of records.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Schedules)
}
