package schedule

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// idLength is the number of characters kept from a generated UUID.
	idLength = 8

	// maxIDAttempts bounds the retries when a generated id collides.
	maxIDAttempts = 16
)

// NewID returns a short random identifier.
func NewID() string {
	return uuid.NewString()[:idLength]
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock sets the time source used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// WithIDGenerator sets the id source used by Add.
func WithIDGenerator(gen func() string) Option {
	return func(r *Repository) {
		if gen != nil {
			r.newID = gen
		}
	}
}

// Repository is the in-memory collection a command works on.
// It never touches the file system; callers Save the Document.
type Repository struct {
	doc     *Document
	now     func() time.Time
	newID   func() string
	changed bool
}

// NewRepository wraps a loaded document.
func NewRepository(doc *Document, opts ...Option) *Repository {
	if doc == nil {
		doc = &Document{}
	}
	if doc.Schedules == nil {
		doc.Schedules = []Record{}
	}
	r := &Repository{
		doc:   doc,
		now:   time.Now,
		newID: NewID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Document returns the backing document.
func (r *Repository) Document() *Document {
	return r.doc
}

// Changed reports whether any mutation succeeded since construction.
func (r *Repository) Changed() bool {
	return r.changed
}

// Len returns the number of records.
func (r *Repository) Len() int {
	return len(r.doc.Schedules)
}

// Records returns a copy of all records in insertion order.
func (r *Repository) Records() []Record {
	out := make([]Record, len(r.doc.Schedules))
	for i, rec := range r.doc.Schedules {
		out[i] = rec.clone()
	}
	return out
}

// Find returns the record with the given id.
func (r *Repository) Find(id string) (Record, bool) {
	i := r.index(id)
	if i < 0 {
		return Record{}, false
	}
	return r.doc.Schedules[i].clone(), true
}

func (r *Repository) index(id string) int {
	for i := range r.doc.Schedules {
		if r.doc.Schedules[i].ID == id {
			return i
		}
	}
	return -1
}

// Draft is the input for a new record.
type Draft struct {
	Title   string
	Kind    Kind
	Time    string // UTC wall clock, e.g. "2024-06-12 09:30"
	Content string
}

// Add validates d, assigns a fresh id, and appends the record.
// Time or content on a todo draft is dropped and reported as a warning.
func (r *Repository) Add(d Draft) (Record, []Warning, error) {
	rec, warnings, err := r.build(d)
	if err != nil {
		return Record{}, nil, err
	}

	id, err := r.uniqueID()
	if err != nil {
		return Record{}, nil, err
	}
	rec.ID = id

	r.doc.Schedules = append(r.doc.Schedules, rec)
	r.changed = true
	return rec.clone(), warnings, nil
}

func (r *Repository) build(d Draft) (Record, []Warning, error) {
	if strings.TrimSpace(d.Title) == "" {
		return Record{}, nil, &ValidationError{Field: "title", Err: errors.New("title is empty")}
	}

	kind := d.Kind
	if kind == "" {
		kind = KindTodo
	}

	rec := Record{
		Title:     d.Title,
		Status:    StatusPending,
		CreatedAt: r.now().UTC(),
	}

	var warnings []Warning
	switch kind {
	case KindTodo:
		if strings.TrimSpace(d.Time) != "" {
			warnings = append(warnings, Warning{Err: &UnsupportedFieldError{Field: "time"}})
		}
		if strings.TrimSpace(d.Content) != "" {
			warnings = append(warnings, Warning{Err: &UnsupportedFieldError{Field: "content"}})
		}
	case KindDetailed:
		if strings.TrimSpace(d.Time) == "" {
			return Record{}, nil, &ValidationError{Field: "time", Err: ErrDetailRequired}
		}
		if strings.TrimSpace(d.Content) == "" {
			return Record{}, nil, &ValidationError{Field: "content", Err: ErrDetailRequired}
		}
		at, err := ParseTime(d.Time)
		if err != nil {
			return Record{}, nil, err
		}
		rec.Detail = &Detail{At: at, Content: d.Content}
	default:
		return Record{}, nil, &ValidationError{Field: "type", Err: fmt.Errorf("unknown kind %q", kind)}
	}

	return rec, warnings, nil
}

func (r *Repository) uniqueID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := r.newID()
		if id != "" && r.index(id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("generate id: no unique id after %d attempts", maxIDAttempts)
}

// BatchFailure is a title that AddBatch skipped.
type BatchFailure struct {
	Title string
	Err   error
}

// BatchResult collects the outcome of AddBatch.
type BatchResult struct {
	Added    []Record
	Failed   []BatchFailure
	Warnings []Warning
}

// AddBatch adds one record per title with shared kind, time, and content.
// A failing title is recorded and skipped; the remaining titles are still added.
func (r *Repository) AddBatch(titles []string, kind Kind, at, content string) BatchResult {
	var result BatchResult
	for _, title := range titles {
		rec, warnings, err := r.Add(Draft{Title: title, Kind: kind, Time: at, Content: content})
		if err != nil {
			result.Failed = append(result.Failed, BatchFailure{Title: title, Err: err})
			continue
		}
		result.Added = append(result.Added, rec)
		result.Warnings = append(result.Warnings, warnings...)
	}
	return result
}

// SetStatus moves a record to status. Setting the current status again is
// a no-op; a done record cannot go back to pending.
func (r *Repository) SetStatus(id string, status Status) error {
	if !status.Valid() {
		return &ValidationError{Field: "status", Err: fmt.Errorf("invalid status %q", status)}
	}
	i := r.index(id)
	if i < 0 {
		return &NotFoundError{ID: id}
	}

	rec := &r.doc.Schedules[i]
	if rec.Status == status {
		return nil
	}
	if status == StatusPending {
		return &ValidationError{Field: "status", Err: fmt.Errorf("schedule %q is done and cannot be reopened", id)}
	}
	rec.Status = status
	r.changed = true
	return nil
}

// MarkDone is SetStatus(id, StatusDone).
func (r *Repository) MarkDone(id string) error {
	return r.SetStatus(id, StatusDone)
}

// Remove deletes the record with the given id.
func (r *Repository) Remove(id string) error {
	i := r.index(id)
	if i < 0 {
		return &NotFoundError{ID: id}
	}
	r.doc.Schedules = slices.Delete(r.doc.Schedules, i, i+1)
	r.changed = true
	return nil
}

// Patch lists the fields Update changes. Nil fields are left alone.
type Patch struct {
	Title   *string
	Time    *string
	Content *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Time == nil && p.Content == nil
}

// Update applies p to the record with the given id. Every field is
// validated before any is applied, so a failed update changes nothing.
// Time and content on a todo are skipped and returned as warnings.
func (r *Repository) Update(id string, p Patch) ([]Warning, error) {
	i := r.index(id)
	if i < 0 {
		return nil, &NotFoundError{ID: id}
	}

	updated := r.doc.Schedules[i].clone()
	var warnings []Warning
	applied := false

	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return nil, &ValidationError{Field: "title", Err: errors.New("title is empty")}
		}
		updated.Title = *p.Title
		applied = true
	}

	if p.Time != nil {
		if updated.Detail == nil {
			warnings = append(warnings, Warning{Err: &UnsupportedFieldError{ID: id, Field: "time"}})
		} else {
			at, err := ParseTime(*p.Time)
			if err != nil {
				return nil, err
			}
			updated.Detail.At = at
			updated.Detail.raw = ""
			applied = true
		}
	}

	if p.Content != nil {
		if updated.Detail == nil {
			warnings = append(warnings, Warning{Err: &UnsupportedFieldError{ID: id, Field: "content"}})
		} else {
			if strings.TrimSpace(*p.Content) == "" {
				return nil, &ValidationError{Field: "content", Err: errors.New("content is empty")}
			}
			updated.Detail.Content = *p.Content
			applied = true
		}
	}

	if applied {
		r.doc.Schedules[i] = updated
		r.changed = true
	}
	return warnings, nil
}
