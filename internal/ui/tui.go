// Package ui provides optional terminal interfaces.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/jcal-go/internal/filter"
	"github.com/nibzard/jcal-go/internal/render"
	"github.com/nibzard/jcal-go/internal/schedule"
	"github.com/nibzard/jcal-go/internal/window"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiModel)

// WithClock sets the reference time used for date filters.
func WithClock(now func() time.Time) TUIOption {
	return func(m *tuiModel) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the logger for watcher diagnostics.
func WithLogger(logger *log.Logger) TUIOption {
	return func(m *tuiModel) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithNoColor disables styling in the record view.
func WithNoColor(noColor bool) TUIOption {
	return func(m *tuiModel) {
		m.noColor = noColor
	}
}

// RunTUI starts a read-only browser over the schedule file at path,
// starting from the given list filters.
func RunTUI(ctx context.Context, path string, opts filter.Options, options ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(path, opts, options...)
	watcher, err := newFileWatcher(path)
	if err != nil {
		model.logger.Warn("file watcher unavailable, polling instead", "err", err)
	} else {
		defer watcher.Close()
		model.watcher = watcher
	}

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	return err
}

// dateKeys maps number keys to date selectors. 0 clears the selector.
var dateKeys = map[string]window.Selector{
	"0": window.None,
	"1": window.Today,
	"2": window.Tomorrow,
	"3": window.ThisWeek,
	"4": window.NextWeek,
	"5": window.ThisMonth,
	"6": window.NextMonth,
}

type tuiModel struct {
	path         string
	now          func() time.Time
	logger       *log.Logger
	noColor      bool
	printer      *render.Printer
	watcher      *fileWatcher
	tickInterval time.Duration

	mode     filter.StatusMode
	selector window.Selector
	date     string // explicit date carried over from the command line

	loadErr  error
	all      []schedule.Record
	visible  []schedule.Record
	win      window.Window
	summary  filter.Summary
	showHelp bool
	polling  bool
}

type tickMsg time.Time

func newTUIModel(path string, opts filter.Options, options ...TUIOption) *tuiModel {
	m := &tuiModel{
		path:         path,
		now:          time.Now,
		logger:       log.New(io.Discard),
		tickInterval: time.Second,
		mode:         opts.StatusMode(),
		selector:     opts.Dates.Selector(),
		date:         opts.Dates.Date,
	}
	for _, opt := range options {
		opt(m)
	}
	m.printer = render.New(os.Stdout, m.noColor)
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	if m.watcher != nil {
		return m.watcher.wait()
	}
	m.polling = true
	return tickCmd(m.tickInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
			return m, nil
		case "h", "?":
			m.showHelp = !m.showHelp
			return m, nil
		case "a":
			if m.mode == filter.AnyStatus {
				m.mode = filter.PendingOnly
			} else {
				m.mode = filter.AnyStatus
			}
			m.applyFilter()
			return m, nil
		case "d":
			if m.mode == filter.DoneOnly {
				m.mode = filter.PendingOnly
			} else {
				m.mode = filter.DoneOnly
			}
			m.applyFilter()
			return m, nil
		}
		if sel, ok := dateKeys[key]; ok {
			m.selector = sel
			m.date = ""
			m.applyFilter()
			return m, nil
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	case fileChangedMsg:
		m.refresh()
		if m.watcher != nil {
			return m, m.watcher.wait()
		}
	case watchErrMsg:
		m.logger.Warn("file watcher failed, polling instead", "err", msg.err)
		if !m.polling {
			m.polling = true
			return m, tickCmd(m.tickInterval)
		}
	}

	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		m.writeFooter(&b)
		return b.String()
	}

	if m.loadErr != nil {
		b.WriteString("Error loading schedule file:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		m.writeFooter(&b)
		return b.String()
	}

	fmt.Fprintf(&b, "Showing: %s, %s\n", m.mode, m.win)
	fmt.Fprintf(&b, "  Total: %d  Pending: %d  Done: %d  Todo: %d  Detailed: %d\n\n",
		m.summary.Total, m.summary.Pending, m.summary.Done, m.summary.Todo, m.summary.Detailed)

	if len(m.visible) == 0 {
		b.WriteString(render.EmptyList + "\n\n")
	}
	for _, rec := range m.visible {
		b.WriteString(m.printer.Record(rec))
		b.WriteString("\n\n")
	}

	m.writeFooter(&b)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *tuiModel) refresh() {
	doc, err := schedule.Load(m.path)
	if err != nil {
		m.loadErr = err
		m.all = nil
		m.visible = nil
		return
	}
	m.loadErr = nil
	m.all = doc.Schedules
	m.summary = filter.Summarize(m.all)
	m.applyFilter()
}

// applyFilter recomputes the visible records from the current selection.
func (m *tuiModel) applyFilter() {
	q := queryFor(m.selector, m.date)
	win, err := window.Resolve(m.now(), q)
	if err != nil {
		m.loadErr = err
		m.visible = nil
		return
	}
	m.win = win
	m.visible = filter.ApplyWindow(m.all, m.mode, win)
}

func queryFor(sel window.Selector, date string) window.Query {
	var q window.Query
	switch sel {
	case window.Date:
		q.Date = date
	case window.Today:
		q.Today = true
	case window.Tomorrow:
		q.Tomorrow = true
	case window.ThisWeek:
		q.ThisWeek = true
	case window.NextWeek:
		q.NextWeek = true
	case window.ThisMonth:
		q.ThisMonth = true
	case window.NextMonth:
		q.NextMonth = true
	}
	return q
}

func writeTitle(b *strings.Builder) {
	title := "jcal"
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r, F5        Refresh data\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  a            Toggle all / pending\n")
	b.WriteString("  d            Toggle done / pending\n")
	b.WriteString("  1            Today\n")
	b.WriteString("  2            Tomorrow\n")
	b.WriteString("  3            This week\n")
	b.WriteString("  4            Next week\n")
	b.WriteString("  5            This month\n")
	b.WriteString("  6            Next month\n")
	b.WriteString("  0            Clear date filter\n\n")
}

func (m *tuiModel) writeFooter(b *strings.Builder) {
	refresh := "watching for changes"
	if m.polling {
		refresh = fmt.Sprintf("refreshing every %s", m.tickInterval)
	}
	fmt.Fprintf(b, "Press h for help | q to quit | %s\n", refresh)
	fmt.Fprintf(b, "File: %s\n", m.path)
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
