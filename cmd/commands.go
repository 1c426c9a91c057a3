package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nibzard/jcal-go/internal/config"
	"github.com/nibzard/jcal-go/internal/filter"
	"github.com/nibzard/jcal-go/internal/schedule"
)

// open loads the schedule file into a repository.
func (a *app) open() (*schedule.Repository, error) {
	doc, err := schedule.Load(a.cfg.ScheduleFile)
	if err != nil {
		return nil, err
	}
	return schedule.NewRepository(doc, schedule.WithClock(a.now)), nil
}

// save writes the repository back when a mutation succeeded.
func (a *app) save(repo *schedule.Repository) error {
	if !repo.Changed() {
		return nil
	}
	if err := repo.Document().Save(a.cfg.ScheduleFile); err != nil {
		return err
	}
	a.logger.Debug("saved", "file", a.cfg.ScheduleFile, "records", repo.Len())
	return nil
}

// fail prints a styled error line and returns ErrReported.
func (a *app) fail(format string, args ...any) error {
	a.errOut.Error(format, args...)
	return ErrReported
}

// notFound reports an unknown id the way every id command does.
func (a *app) notFound(err error) error {
	a.logger.Debug("lookup failed", "err", err)
	return a.fail("Error: Schedule with that ID not found.")
}

// warnTodo prints a skipped todo field as a warning.
func (a *app) warnTodo(w schedule.Warning) {
	a.logger.Debug("skipped field", "warning", w.String())
	var ufe *schedule.UnsupportedFieldError
	if errors.As(w.Err, &ufe) {
		a.errOut.Warn("Warning: Cannot set %s on a todo item.", ufe.Field)
		return
	}
	a.errOut.Warn("Warning: %s", w)
}

// initCommand creates an empty schedule file.
func (a *app) initCommand(args []string) error {
	fs := a.newFlagSet("init")
	writeConfig := fs.Bool("config", false, "Also write jcal.toml with default settings")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	name := filepath.Base(a.cfg.ScheduleFile)
	doc, err := schedule.Load(a.cfg.ScheduleFile)
	if err != nil {
		return a.fail("Error creating %s: %v", name, err)
	}
	if doc.Len() > 0 {
		a.out.Warn("%s already exists and is not empty.", name)
	} else {
		if err := (&schedule.Document{}).Save(a.cfg.ScheduleFile); err != nil {
			return a.fail("Error creating %s: %v", name, err)
		}
		a.out.Success("%s created successfully.", name)
	}

	if *writeConfig {
		path := config.ProjectConfigPath(a.cfg.ProjectRoot)
		if _, err := os.Stat(path); err == nil {
			a.out.Warn("%s already exists, leaving it unchanged.", filepath.Base(path))
			return nil
		}
		if err := schedule.WriteFileAtomic(path, []byte(config.ExampleConfig()), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		a.out.Success("%s created successfully.", filepath.Base(path))
	}
	return nil
}

// addCommand adds one record per title.
func (a *app) addCommand(args []string) error {
	fs := a.newFlagSet("add")
	detailed := fs.Bool("detailed", false, "Create a detailed schedule")
	fs.BoolVar(detailed, "d", false, "Create a detailed schedule")
	at := fs.String("time", "", "Time for a detailed schedule (YYYY-MM-DD HH:mm)")
	fs.StringVar(at, "t", "", "Time for a detailed schedule (YYYY-MM-DD HH:mm)")
	content := fs.String("content", "", "Content for a detailed schedule")
	fs.StringVar(content, "c", "", "Content for a detailed schedule")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	titles := fs.Args()
	if len(titles) == 0 {
		return errors.New("usage: jcal add <titles...> [-d] [-t time] [-c content]")
	}

	repo, err := a.open()
	if err != nil {
		return a.fail("Error adding schedule: %v", err)
	}

	kind := schedule.KindTodo
	if *detailed {
		kind = schedule.KindDetailed
	}
	result := repo.AddBatch(titles, kind, *at, *content)

	for _, f := range result.Failed {
		a.logger.Debug("add skipped", "title", f.Title, "err", f.Err)
		if errors.Is(f.Err, schedule.ErrDetailRequired) {
			a.errOut.Error("Error: For detailed schedules, --time and --content are required when adding multiple items. Skipping %q.", f.Title)
			continue
		}
		a.errOut.Error("Error: %v. Skipping %q.", f.Err, f.Title)
	}

	for _, w := range result.Warnings {
		a.warnTodo(w)
	}

	if len(result.Added) == 0 {
		a.out.Warn("No schedules were added.")
		return nil
	}
	if err := a.save(repo); err != nil {
		return a.fail("Error adding schedule: %v", err)
	}
	a.out.Success("Schedules added successfully!")
	for _, rec := range result.Added {
		a.out.Item("%q (ID: %s)", rec.Title, rec.ID)
	}
	return nil
}

// filterFlags registers the list filters on fs.
func filterFlags(fs *flag.FlagSet) *filter.Options {
	opts := &filter.Options{}
	fs.BoolVar(&opts.Done, "done", false, "Show only done items")
	fs.BoolVar(&opts.All, "all", false, "Show all items (pending and done)")
	fs.StringVar(&opts.Dates.Date, "date", "", "Show schedules for a specific date (YYYY-MM-DD)")
	fs.BoolVar(&opts.Dates.Today, "today", false, "Show schedules for today")
	fs.BoolVar(&opts.Dates.Tomorrow, "tomorrow", false, "Show schedules for tomorrow")
	fs.BoolVar(&opts.Dates.ThisWeek, "this-week", false, "Show schedules for this week")
	fs.BoolVar(&opts.Dates.NextWeek, "next-week", false, "Show schedules for next week")
	fs.BoolVar(&opts.Dates.ThisMonth, "this-month", false, "Show schedules for this month")
	fs.BoolVar(&opts.Dates.NextMonth, "next-month", false, "Show schedules for next month")
	return opts
}

// selectRecords loads the file and applies opts.
func (a *app) selectRecords(opts filter.Options) ([]schedule.Record, error) {
	doc, err := schedule.Load(a.cfg.ScheduleFile)
	if err != nil {
		return nil, err
	}
	records, err := filter.Apply(doc.Schedules, opts, a.now())
	if err != nil {
		return nil, err
	}
	a.logger.Debug("filtered", "status", opts.StatusMode(), "dates", opts.Dates.Selector(), "matched", len(records), "total", doc.Len())
	return records, nil
}

// listCommand prints the filtered records.
func (a *app) listCommand(args []string) error {
	fs := a.newFlagSet("list")
	opts := filterFlags(fs)
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	records, err := a.selectRecords(*opts)
	if err != nil {
		return a.fail("Error listing schedules: %v", err)
	}
	a.out.List(records)
	return nil
}

// doneCommand marks a record done.
func (a *app) doneCommand(args []string) error {
	fs := a.newFlagSet("done")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	id, err := singleID(fs, "done")
	if err != nil {
		return err
	}

	repo, err := a.open()
	if err != nil {
		return a.fail("Error updating schedule: %v", err)
	}
	if err := repo.MarkDone(id); err != nil {
		if errors.Is(err, schedule.ErrNotFound) {
			return a.notFound(err)
		}
		return a.fail("Error updating schedule: %v", err)
	}
	if err := a.save(repo); err != nil {
		return a.fail("Error updating schedule: %v", err)
	}
	a.out.Success("Schedule marked as done.")
	return nil
}

// removeCommand deletes a record.
func (a *app) removeCommand(args []string) error {
	fs := a.newFlagSet("remove")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	id, err := singleID(fs, "remove")
	if err != nil {
		return err
	}

	repo, err := a.open()
	if err != nil {
		return a.fail("Error removing schedule: %v", err)
	}
	if err := repo.Remove(id); err != nil {
		if errors.Is(err, schedule.ErrNotFound) {
			return a.notFound(err)
		}
		return a.fail("Error removing schedule: %v", err)
	}
	if err := a.save(repo); err != nil {
		return a.fail("Error removing schedule: %v", err)
	}
	a.out.Success("Schedule removed successfully.")
	return nil
}

// updateCommand changes title, time, or content of a record.
func (a *app) updateCommand(args []string) error {
	fs := a.newFlagSet("update")
	var patch schedule.Patch
	fs.Func("title", "Update the title", func(s string) error { patch.Title = &s; return nil })
	fs.Func("T", "Update the title", func(s string) error { patch.Title = &s; return nil })
	fs.Func("time", "Update the date/time (YYYY-MM-DD HH:mm)", func(s string) error { patch.Time = &s; return nil })
	fs.Func("t", "Update the date/time (YYYY-MM-DD HH:mm)", func(s string) error { patch.Time = &s; return nil })
	fs.Func("content", "Update the content", func(s string) error { patch.Content = &s; return nil })
	fs.Func("c", "Update the content", func(s string) error { patch.Content = &s; return nil })
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	id, err := singleID(fs, "update")
	if err != nil {
		return err
	}

	repo, err := a.open()
	if err != nil {
		return a.fail("Error updating schedule: %v", err)
	}
	if _, ok := repo.Find(id); !ok {
		return a.notFound(&schedule.NotFoundError{ID: id})
	}
	if patch.IsEmpty() {
		a.out.Warn("Nothing to update. Use -T, -t, or -c.")
		return nil
	}

	warnings, err := repo.Update(id, patch)
	if err != nil {
		if errors.Is(err, schedule.ErrNotFound) {
			return a.notFound(err)
		}
		return a.fail("Error updating schedule: %v", err)
	}
	for _, w := range warnings {
		a.warnTodo(w)
	}
	if err := a.save(repo); err != nil {
		return a.fail("Error updating schedule: %v", err)
	}
	a.out.Success("Schedule updated successfully.")
	return nil
}
