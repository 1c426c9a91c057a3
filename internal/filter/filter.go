// Package filter selects and orders schedule records for listing.
package filter

import (
	"sort"
	"time"

	"github.com/nibzard/jcal-go/internal/schedule"
	"github.com/nibzard/jcal-go/internal/window"
)

// StatusMode selects records by status.
type StatusMode int

const (
	// PendingOnly is the default view.
	PendingOnly StatusMode = iota
	// DoneOnly keeps done records.
	DoneOnly
	// AnyStatus applies no status filter.
	AnyStatus
)

func (m StatusMode) String() string {
	switch m {
	case DoneOnly:
		return "done"
	case AnyStatus:
		return "all"
	default:
		return "pending"
	}
}

// Options are the list flags.
type Options struct {
	Done  bool
	All   bool
	Dates window.Query
}

// StatusMode resolves the status flags. Done wins over All.
func (o Options) StatusMode() StatusMode {
	switch {
	case o.Done:
		return DoneOnly
	case o.All:
		return AnyStatus
	default:
		return PendingOnly
	}
}

// Apply returns the records selected by opts, newest createdAt first.
// Records with equal createdAt keep their stored order. The input slice
// is not modified.
func Apply(records []schedule.Record, opts Options, now time.Time) ([]schedule.Record, error) {
	w, err := window.Resolve(now, opts.Dates)
	if err != nil {
		return nil, err
	}
	return ApplyWindow(records, opts.StatusMode(), w), nil
}

// ApplyWindow is Apply with an already resolved window.
func ApplyWindow(records []schedule.Record, mode StatusMode, w window.Window) []schedule.Record {
	out := make([]schedule.Record, 0, len(records))
	for _, rec := range records {
		if !matchStatus(rec, mode) {
			continue
		}
		if !w.Matches(rec) {
			continue
		}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func matchStatus(rec schedule.Record, mode StatusMode) bool {
	switch mode {
	case DoneOnly:
		return rec.Status == schedule.StatusDone
	case AnyStatus:
		return true
	default:
		return rec.Status == schedule.StatusPending
	}
}

// Summary counts records by status and kind.
type Summary struct {
	Total    int
	Pending  int
	Done     int
	Todo     int
	Detailed int
}

// Summarize counts records.
func Summarize(records []schedule.Record) Summary {
	var s Summary
	for _, rec := range records {
		s.Total++
		if rec.IsDone() {
			s.Done++
		} else {
			s.Pending++
		}
		if rec.Kind() == schedule.KindDetailed {
			s.Detailed++
		} else {
			s.Todo++
		}
	}
	return s
}
