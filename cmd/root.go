// Package cmd implements the CLI command structure for jcal.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/jcal-go/internal/config"
	"github.com/nibzard/jcal-go/internal/logging"
	"github.com/nibzard/jcal-go/internal/render"
)

// Version is set via ldflags at build time.
var Version = "dev"

// ErrReported is returned when a command already printed its failure.
// Callers should exit non-zero without printing it again.
var ErrReported = errors.New("error already reported")

// clock is the reference time for date filters.
var clock = time.Now

// app carries what every subcommand needs.
type app struct {
	cfg     *config.Config
	sources *config.ConfigWithSources
	logger  *log.Logger
	stdout  io.Writer
	stderr  io.Writer
	out     *render.Printer
	errOut  *render.Printer
	now     func() time.Time
}

// Run executes the jcal CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("jcal", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config

	a := &app{
		cfg:     cfg,
		sources: cws,
		logger:  logging.FromConfig(stderr, cfg),
		stdout:  stdout,
		stderr:  stderr,
		out:     render.New(stdout, cfg.NoColor),
		errOut:  render.New(stderr, cfg.NoColor),
		now:     clock,
	}

	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return a.versionCommand()
	}

	remainingArgs := fs.Args()
	if len(remainingArgs) == 0 {
		printUsage(fs, stdout)
		return nil
	}
	subcommand := remainingArgs[0]
	remainingArgs = remainingArgs[1:]
	a.logger.Debug("command", "name", subcommand, "file", cfg.ScheduleFile)

	err = a.dispatch(ctx, fs, subcommand, remainingArgs)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

// dispatch executes one subcommand.
func (a *app) dispatch(ctx context.Context, fs *flag.FlagSet, subcommand string, remainingArgs []string) error {
	stdout, stderr := a.stdout, a.stderr
	switch subcommand {
	case "init":
		return a.initCommand(remainingArgs)
	case "add":
		return a.addCommand(remainingArgs)
	case "list", "ls":
		return a.listCommand(remainingArgs)
	case "done":
		return a.doneCommand(remainingArgs)
	case "remove", "rm":
		return a.removeCommand(remainingArgs)
	case "update":
		return a.updateCommand(remainingArgs)
	case "doctor":
		return a.doctorCommand(remainingArgs)
	case "export":
		return a.exportCommand(remainingArgs)
	case "tui":
		return a.tuiCommand(ctx, remainingArgs)
	case "config":
		return a.configCommand(remainingArgs)
	case "version":
		return a.versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// newFlagSet returns a subcommand flag set writing to stderr.
func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("jcal "+name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// parseArgs parses args with flags allowed after positional arguments.
func parseArgs(fs *flag.FlagSet, args []string) error {
	return fs.Parse(reorderFlags(args, valueFlags(fs)))
}

// valueFlags lists the spellings of every non-boolean flag in fs.
func valueFlags(fs *flag.FlagSet) map[string]bool {
	takesValue := make(map[string]bool)
	fs.VisitAll(func(f *flag.Flag) {
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			return
		}
		takesValue["-"+f.Name] = true
		takesValue["--"+f.Name] = true
	})
	return takesValue
}

// reorderFlags moves flags ahead of positional arguments so the standard
// flag package sees them. Everything after "--" stays positional.
func reorderFlags(args []string, takesValue map[string]bool) []string {
	if len(args) == 0 {
		return args
	}
	var flags []string
	var rest []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			if i+1 < len(args) {
				rest = append(rest, args[i+1:]...)
			}
			break
		}
		if strings.HasPrefix(a, "-") && a != "-" {
			flags = append(flags, a)
			if takesValue[a] && !strings.Contains(a, "=") && i+1 < len(args) {
				flags = append(flags, args[i+1])
				i++
			}
			continue
		}
		rest = append(rest, a)
	}
	if len(rest) == 0 {
		return flags
	}
	return append(append(flags, "--"), rest...)
}

// singleID returns the one positional argument of an id command.
func singleID(fs *flag.FlagSet, name string) (string, error) {
	rest := fs.Args()
	if len(rest) == 0 || strings.TrimSpace(rest[0]) == "" {
		return "", fmt.Errorf("usage: jcal %s <id>", name)
	}
	if len(rest) > 1 {
		return "", fmt.Errorf("unexpected arguments: %v", rest[1:])
	}
	return rest[0], nil
}

// versionCommand prints version information.
func (a *app) versionCommand() error {
	fmt.Fprintf(a.stdout, "jcal version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "jcal - A CLI tool to manage schedules and to-do lists")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  jcal [global options] <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  init              Create an empty schedule.json if it doesn't exist")
	fmt.Fprintln(w, "  add <titles...>   Add one or more schedules (todo by default, -d for detailed)")
	fmt.Fprintln(w, "  list, ls          List schedules")
	fmt.Fprintln(w, "  done <id>         Mark a schedule as done")
	fmt.Fprintln(w, "  remove, rm <id>   Remove a schedule")
	fmt.Fprintln(w, "  update <id>       Update an existing schedule")
	fmt.Fprintln(w, "  doctor            Check configuration and schedule file validity")
	fmt.Fprintln(w, "  export            Write detailed schedules as an iCalendar file")
	fmt.Fprintln(w, "  tui               Browse schedules in a terminal UI")
	fmt.Fprintln(w, "  config            Show the effective configuration and its sources")
	fmt.Fprintln(w, "  version           Show version information")
	fmt.Fprintln(w, "  help              Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add Options:")
	fmt.Fprintln(w, "  -d, --detailed    Create a detailed schedule")
	fmt.Fprintln(w, "  -t, --time        Time for a detailed schedule (YYYY-MM-DD HH:mm, UTC)")
	fmt.Fprintln(w, "  -c, --content     Content for a detailed schedule")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Update Options:")
	fmt.Fprintln(w, "  -T, --title       Update the title")
	fmt.Fprintln(w, "  -t, --time        Update the date/time")
	fmt.Fprintln(w, "  -c, --content     Update the content")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List Options (also accepted by export and tui):")
	fmt.Fprintln(w, "  --done            Show only done items")
	fmt.Fprintln(w, "  --all             Show all items (pending and done)")
	fmt.Fprintln(w, "  --date <date>     Show schedules for a specific date (YYYY-MM-DD)")
	fmt.Fprintln(w, "  --today           Show schedules for today")
	fmt.Fprintln(w, "  --tomorrow        Show schedules for tomorrow")
	fmt.Fprintln(w, "  --this-week       Show schedules for this week")
	fmt.Fprintln(w, "  --next-week       Show schedules for next week")
	fmt.Fprintln(w, "  --this-month      Show schedules for this month")
	fmt.Fprintln(w, "  --next-month      Show schedules for next month")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export Options:")
	fmt.Fprintln(w, "  -o string         Write to a file instead of stdout")
}
