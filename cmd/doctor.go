package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nibzard/jcal-go/internal/config"
	"github.com/nibzard/jcal-go/internal/logging"
	"github.com/nibzard/jcal-go/internal/schedule"
)

// doctorCommand checks configuration and schedule file validity.
func (a *app) doctorCommand(args []string) error {
	fs := a.newFlagSet("doctor")
	verbose := fs.Bool("v", false, "Verbose output")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	w := a.stdout
	cfg := a.cfg

	fmt.Fprintln(w, "jcal Doctor")
	fmt.Fprintln(w, "===========")
	fmt.Fprintln(w)

	allOK := true

	fmt.Fprintf(w, "Project root: %s\n", cfg.ProjectRoot)
	if _, err := os.Stat(cfg.ProjectRoot); err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Config:")
	if len(a.sources.Files) == 0 {
		fmt.Fprintln(w, "  ✅ Files: none (using defaults)")
	} else {
		fmt.Fprintf(w, "  ✅ Files: %s\n", strings.Join(a.sources.Files, ", "))
	}
	if logging.ValidLevel(cfg.LogLevel) {
		fmt.Fprintf(w, "  ✅ Log level: %s\n", cfg.LogLevel)
	} else {
		fmt.Fprintf(w, "  ❌ Log level: %s (expected debug|info|warn|error|fatal)\n", cfg.LogLevel)
		allOK = false
	}
	if logging.ValidFormat(cfg.LogFormat) {
		fmt.Fprintf(w, "  ✅ Log format: %s\n", cfg.LogFormat)
	} else {
		fmt.Fprintf(w, "  ❌ Log format: %s (expected text|json|logfmt)\n", cfg.LogFormat)
		allOK = false
	}
	fmt.Fprintf(w, "  ✅ Event duration: %s\n", cfg.Duration)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Schedule file: %s\n", cfg.ScheduleFile)
	if !a.checkScheduleFile(*verbose) {
		allOK = false
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. jcal may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

// checkScheduleFile validates the schedule file and prints the findings.
func (a *app) checkScheduleFile(verbose bool) bool {
	w := a.stdout
	info, err := os.Stat(a.cfg.ScheduleFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(w, "  ⚠️  Not found (run 'jcal init' or add a schedule)")
			return true
		}
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	}
	if info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		return false
	}

	data, err := os.ReadFile(a.cfg.ScheduleFile)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	}
	fmt.Fprintln(w, "  ✅ OK")

	result := schedule.Validate(data)
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warning)
	}
	if !result.Valid {
		fmt.Fprintln(w, "  ❌ Validation failed:")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "     - %v\n", e)
		}
		return false
	}
	fmt.Fprintf(w, "  ✅ Valid (%d records)\n", result.Records)

	if verbose {
		doc, err := schedule.Parse(data)
		if err != nil {
			fmt.Fprintf(w, "  ❌ Load error: %v\n", err)
			return false
		}
		for _, rec := range doc.Schedules {
			fmt.Fprintf(w, "    - [%s] %s %s: %s\n", rec.Status, rec.Kind(), rec.ID, rec.Title)
		}
	}
	return true
}

// configCommand prints the effective configuration and where each
// value came from.
func (a *app) configCommand(args []string) error {
	fs := a.newFlagSet("config")
	example := fs.Bool("example", false, "Print an example jcal.toml")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if *example {
		fmt.Fprint(a.stdout, config.ExampleConfig())
		return nil
	}

	w := a.stdout
	for _, key := range config.ConfigFields() {
		value, err := a.cfg.Value(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%-15s = %-30q # %s\n", key, value, a.sources.Sources[key])
	}
	fmt.Fprintln(w)
	if len(a.sources.Files) == 0 {
		fmt.Fprintln(w, "Config files: none")
		return nil
	}
	fmt.Fprintln(w, "Config files:")
	for _, f := range a.sources.Files {
		fmt.Fprintf(w, "  %s\n", f)
	}
	return nil
}
