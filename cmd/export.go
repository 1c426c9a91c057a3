package cmd

import (
	"bytes"
	"context"
	"fmt"

	"github.com/nibzard/jcal-go/internal/export"
	"github.com/nibzard/jcal-go/internal/schedule"
	"github.com/nibzard/jcal-go/internal/ui"
)

// exportCommand writes the filtered detailed records as iCalendar data.
func (a *app) exportCommand(args []string) error {
	fs := a.newFlagSet("export")
	opts := filterFlags(fs)
	output := fs.String("o", "", "Write to a file instead of stdout")
	fs.StringVar(output, "output", "", "Write to a file instead of stdout")
	name := fs.String("name", "jcal", "Calendar name (X-WR-CALNAME)")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	records, err := a.selectRecords(*opts)
	if err != nil {
		return a.fail("Error exporting schedules: %v", err)
	}
	exportOpts := export.Options{Duration: a.cfg.Duration, Name: *name}

	if *output == "" {
		n, err := export.WriteICS(a.stdout, records, exportOpts)
		if err != nil {
			return err
		}
		a.logger.Info("exported", "events", n)
		return nil
	}

	var buf bytes.Buffer
	n, err := export.WriteICS(&buf, records, exportOpts)
	if err != nil {
		return err
	}
	if err := schedule.WriteFileAtomic(*output, buf.Bytes(), 0o644); err != nil {
		return a.fail("Error exporting schedules: %v", err)
	}
	a.logger.Info("exported", "events", n, "file", *output)
	a.out.Success("Exported %d events to %s.", n, *output)
	return nil
}

// tuiCommand starts the terminal browser.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	fs := a.newFlagSet("tui")
	opts := filterFlags(fs)
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return ui.RunTUI(ctx, a.cfg.ScheduleFile, *opts,
		ui.WithClock(a.now),
		ui.WithLogger(a.logger),
		ui.WithNoColor(a.cfg.NoColor),
	)
}
