// Package render formats schedule records and status messages for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/nibzard/jcal-go/internal/schedule"
)

// EmptyList is printed when a listing has no records.
const EmptyList = "No schedules to display."

// ANSI color indexes used throughout the output.
const (
	colorRed     = lipgloss.Color("1")
	colorGreen   = lipgloss.Color("2")
	colorYellow  = lipgloss.Color("3")
	colorBlue    = lipgloss.Color("4")
	colorMagenta = lipgloss.Color("5")
	colorCyan    = lipgloss.Color("6")
	colorWhite   = lipgloss.Color("7")
	colorGray    = lipgloss.Color("8")
)

type styles struct {
	done     lipgloss.Style
	pending  lipgloss.Style
	todo     lipgloss.Style
	detailed lipgloss.Style
	id       lipgloss.Style
	title    lipgloss.Style
	label    lipgloss.Style
	doneBody lipgloss.Style
	success  lipgloss.Style
	warn     lipgloss.Style
	errStyle lipgloss.Style
	info     lipgloss.Style
}

// Printer writes styled output to one writer.
type Printer struct {
	w      io.Writer
	r      *lipgloss.Renderer
	styles styles
}

// New returns a Printer for w. With noColor set, output carries no
// escape sequences regardless of the terminal.
func New(w io.Writer, noColor bool) *Printer {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Printer{
		w: w,
		r: r,
		styles: styles{
			done:     r.NewStyle().Foreground(colorGreen),
			pending:  r.NewStyle().Foreground(colorYellow),
			todo:     r.NewStyle().Foreground(colorCyan),
			detailed: r.NewStyle().Foreground(colorMagenta),
			id:       r.NewStyle().Foreground(colorWhite),
			title:    r.NewStyle().Bold(true),
			label:    r.NewStyle().Foreground(colorBlue),
			doneBody: r.NewStyle().Foreground(colorGray).Strikethrough(true),
			success:  r.NewStyle().Foreground(colorGreen),
			warn:     r.NewStyle().Foreground(colorYellow),
			errStyle: r.NewStyle().Foreground(colorRed),
			info:     r.NewStyle().Foreground(colorBlue),
		},
	}
}

// Renderer exposes the lipgloss renderer so other views share its color profile.
func (p *Printer) Renderer() *lipgloss.Renderer {
	return p.r
}

// Record formats one record as a multi-line block without a trailing newline.
func (p *Printer) Record(rec schedule.Record) string {
	s := p.styles

	icon := s.pending.Render("○")
	if rec.IsDone() {
		icon = s.done.Render("✔")
	}

	badge := s.todo.Render(strings.ToUpper(string(schedule.KindTodo)))
	if rec.Kind() == schedule.KindDetailed {
		badge = s.detailed.Render(strings.ToUpper(string(schedule.KindDetailed)))
	}

	lines := []string{
		fmt.Sprintf("%s %s [%s] %s", icon, badge, s.id.Render(rec.ID), s.title.Render(rec.Title)),
	}
	if rec.Detail != nil {
		lines = append(lines,
			fmt.Sprintf("  %s %s", s.label.Render("Time:"), detailTime(rec.Detail)),
			fmt.Sprintf("  %s %s", s.label.Render("Content:"), rec.Detail.Content),
		)
	}
	lines = append(lines, fmt.Sprintf("  %s %s", s.label.Render("Created:"), schedule.FormatDisplay(rec.CreatedAt)))

	if rec.IsDone() {
		for i, line := range lines {
			lines[i] = s.doneBody.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

func detailTime(d *schedule.Detail) string {
	if d.HasTime() {
		return schedule.FormatDisplay(d.At)
	}
	return "-"
}

// List writes each record followed by a blank line, or EmptyList when
// there are none.
func (p *Printer) List(records []schedule.Record) {
	if len(records) == 0 {
		p.Info(EmptyList)
		return
	}
	for _, rec := range records {
		fmt.Fprintln(p.w, p.Record(rec))
		fmt.Fprintln(p.w)
	}
}

// Success prints a green confirmation line.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.w, p.styles.success.Render("✅ "+fmt.Sprintf(format, args...)))
}

// Warn prints a yellow warning line.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.w, p.styles.warn.Render("⚠️ "+fmt.Sprintf(format, args...)))
}

// Error prints a red error line.
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.w, p.styles.errStyle.Render("❌ "+fmt.Sprintf(format, args...)))
}

// Info prints a blue informational line.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintln(p.w, p.styles.info.Render(fmt.Sprintf(format, args...)))
}

// Item prints an indented line in the success color.
func (p *Printer) Item(format string, args ...any) {
	fmt.Fprintln(p.w, p.styles.success.Render("  - "+fmt.Sprintf(format, args...)))
}

// Plain prints an unstyled line.
func (p *Printer) Plain(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}
