// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nibzard/jcal-go/internal/schedule"
)

// setup isolates config discovery and runs in a fresh project directory.
func setup(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	dir := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, key := range []string{
		"JCAL_FILE", "JCAL_LOG_LEVEL", "JCAL_LOG_FORMAT", "JCAL_LOG_TIMESTAMPS",
		"JCAL_LOG_CALLER", "JCAL_NO_COLOR", "NO_COLOR", "JCAL_EVENT_DURATION",
	} {
		t.Setenv(key, "")
	}
	testChdir(t, dir)
	return dir
}

// fixClock pins the reference time used by date filters and createdAt.
func fixClock(t *testing.T, now time.Time) {
	t.Helper()
	old := clock
	clock = func() time.Time { return now }
	t.Cleanup(func() { clock = old })
}

type result struct {
	stdout string
	stderr string
	err    error
}

func jcal(t *testing.T, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	err := run(context.Background(), append([]string{"-no-color"}, args...), &out, &errOut)
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func mustRun(t *testing.T, args ...string) result {
	t.Helper()
	r := jcal(t, args...)
	if r.err != nil {
		t.Fatalf("jcal %v: %v\nstdout:\n%s\nstderr:\n%s", args, r.err, r.stdout, r.stderr)
	}
	return r
}

func loadRecords(t *testing.T, dir string) []schedule.Record {
	t.Helper()
	doc, err := schedule.Load(filepath.Join(dir, "schedule.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return doc.Schedules
}

func TestRun(t *testing.T) {
	setup(t)

	for _, args := range [][]string{{"--help"}, {"-h"}, {"help"}, {}} {
		r := jcal(t, args...)
		if r.err != nil {
			t.Errorf("%v: %v", args, r.err)
		}
		if !strings.Contains(r.stdout, "Commands:") {
			t.Errorf("%v: usage missing:\n%s", args, r.stdout)
		}
	}

	for _, args := range [][]string{{"--version"}, {"-v"}, {"version"}} {
		r := jcal(t, args...)
		if r.err != nil {
			t.Errorf("%v: %v", args, r.err)
		}
		if r.stdout != "jcal version dev\n" {
			t.Errorf("%v: got %q", args, r.stdout)
		}
	}

	t.Run("unknown command returns error", func(t *testing.T) {
		r := jcal(t, "unknown-command")
		if r.err == nil || !strings.Contains(r.err.Error(), "unknown command") {
			t.Errorf("expected unknown command error, got %v", r.err)
		}
	})

	t.Run("subcommand help is not an error", func(t *testing.T) {
		if r := jcal(t, "list", "-h"); r.err != nil {
			t.Errorf("list -h: %v", r.err)
		}
	})
}

func TestInitCommand(t *testing.T) {
	dir := setup(t)

	r := mustRun(t, "init")
	if !strings.Contains(r.stdout, "✅ schedule.json created successfully.") {
		t.Errorf("stdout: %q", r.stdout)
	}
	data, err := os.ReadFile(filepath.Join(dir, "schedule.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{\n  \"schedules\": []\n}\n" {
		t.Errorf("file: %q", data)
	}

	// An empty file is recreated without complaint.
	r = mustRun(t, "init")
	if !strings.Contains(r.stdout, "created successfully") {
		t.Errorf("second init on empty file: %q", r.stdout)
	}

	mustRun(t, "add", "Buy milk")
	r = mustRun(t, "init")
	if !strings.Contains(r.stdout, "⚠️ schedule.json already exists and is not empty.") {
		t.Errorf("stdout: %q", r.stdout)
	}
	if got := loadRecords(t, dir); len(got) != 1 {
		t.Errorf("init must not clear records, got %d", len(got))
	}
}

func TestInitCommandWritesConfig(t *testing.T) {
	dir := setup(t)

	r := mustRun(t, "init", "-config")
	if !strings.Contains(r.stdout, "jcal.toml created successfully.") {
		t.Errorf("stdout: %q", r.stdout)
	}
	if _, err := os.Stat(filepath.Join(dir, "jcal.toml")); err != nil {
		t.Fatalf("jcal.toml missing: %v", err)
	}

	// The written file must load as a project config.
	r = mustRun(t, "config")
	if !strings.Contains(r.stdout, "Config files:\n  jcal.toml\n") {
		t.Errorf("config files not reported:\n%s", r.stdout)
	}

	r = mustRun(t, "init", "-config")
	if !strings.Contains(r.stdout, "jcal.toml already exists") {
		t.Errorf("stdout: %q", r.stdout)
	}
}

func TestAddCommand(t *testing.T) {
	t.Run("todo batch", func(t *testing.T) {
		dir := setup(t)
		r := mustRun(t, "add", "Buy milk", "Call mom")
		if !strings.Contains(r.stdout, "✅ Schedules added successfully!") {
			t.Errorf("stdout: %q", r.stdout)
		}
		recs := loadRecords(t, dir)
		if len(recs) != 2 {
			t.Fatalf("records: got %d, want 2", len(recs))
		}
		for _, rec := range recs {
			if rec.Kind() != schedule.KindTodo || rec.Status != schedule.StatusPending {
				t.Errorf("record %+v", rec)
			}
			if want := "\"" + rec.Title + "\" (ID: " + rec.ID + ")"; !strings.Contains(r.stdout, want) {
				t.Errorf("stdout missing %q:\n%s", want, r.stdout)
			}
		}
	})

	t.Run("detailed with flags after title", func(t *testing.T) {
		dir := setup(t)
		mustRun(t, "add", "Standup", "-d", "-t", "2024-06-12 09:30", "-c", "Daily sync")
		recs := loadRecords(t, dir)
		if len(recs) != 1 {
			t.Fatalf("records: got %d", len(recs))
		}
		at, ok := recs[0].When()
		if !ok || !at.Equal(time.Date(2024, 6, 12, 9, 30, 0, 0, time.UTC)) {
			t.Errorf("instant: got %v %v", at, ok)
		}
		if recs[0].Detail.Content != "Daily sync" {
			t.Errorf("content: got %q", recs[0].Detail.Content)
		}
	})

	t.Run("detailed without time is skipped", func(t *testing.T) {
		dir := setup(t)
		r := mustRun(t, "add", "-d", "-c", "Agenda", "Meeting")
		if !strings.Contains(r.stderr, `Skipping "Meeting".`) {
			t.Errorf("stderr: %q", r.stderr)
		}
		if !strings.Contains(r.stdout, "No schedules were added.") {
			t.Errorf("stdout: %q", r.stdout)
		}
		if _, err := os.Stat(filepath.Join(dir, "schedule.json")); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("nothing added, file should not be written: %v", err)
		}
	})

	t.Run("bad time is skipped with its reason", func(t *testing.T) {
		setup(t)
		r := mustRun(t, "add", "-d", "-t", "tomorrow 3pm", "-c", "x", "Party")
		if !strings.Contains(r.stderr, "invalid time") || !strings.Contains(r.stderr, `Skipping "Party".`) {
			t.Errorf("stderr: %q", r.stderr)
		}
	})

	t.Run("todo drops time with a warning", func(t *testing.T) {
		dir := setup(t)
		r := mustRun(t, "add", "Buy milk", "-t", "2024-06-12 09:30")
		if !strings.Contains(r.stderr, "Warning: Cannot set time on a todo item.") {
			t.Errorf("stderr: %q", r.stderr)
		}
		recs := loadRecords(t, dir)
		if len(recs) != 1 || recs[0].Detail != nil {
			t.Errorf("records: %+v", recs)
		}
	})

	t.Run("no titles", func(t *testing.T) {
		setup(t)
		if r := jcal(t, "add"); r.err == nil {
			t.Error("expected usage error")
		}
	})
}

func TestListCommand(t *testing.T) {
	setup(t)
	fixClock(t, time.Date(2024, 6, 12, 12, 0, 0, 0, time.UTC))

	r := mustRun(t, "list")
	if strings.TrimSpace(r.stdout) != "No schedules to display." {
		t.Errorf("empty list: %q", r.stdout)
	}

	mustRun(t, "add", "Buy milk")
	mustRun(t, "add", "-d", "-t", "2024-06-12 09:30", "-c", "Daily sync", "Standup")
	mustRun(t, "add", "-d", "-t", "2024-06-20 10:00", "-c", "Quarterly", "Review")
	mustRun(t, "add", "-d", "-t", "2024-07-02 06:00", "-c", "Gate 4", "Flight")

	tests := []struct {
		args []string
		want []string
		skip []string
	}{
		{[]string{"list"}, []string{"Buy milk", "Standup", "Review", "Flight"}, nil},
		{[]string{"ls", "--today"}, []string{"Standup"}, []string{"Buy milk", "Review"}},
		{[]string{"ls", "--this-week"}, []string{"Standup"}, []string{"Review"}},
		{[]string{"ls", "--next-week"}, []string{"Review"}, []string{"Standup"}},
		{[]string{"ls", "--this-month"}, []string{"Standup", "Review"}, []string{"Flight"}},
		{[]string{"ls", "--next-month"}, []string{"Flight"}, []string{"Review"}},
		{[]string{"ls", "--date", "2024-06-20"}, []string{"Review"}, []string{"Standup"}},
		{[]string{"ls", "--done"}, []string{"No schedules to display."}, []string{"Standup"}},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			r := mustRun(t, tt.args...)
			for _, want := range tt.want {
				if !strings.Contains(r.stdout, want) {
					t.Errorf("missing %q:\n%s", want, r.stdout)
				}
			}
			for _, skip := range tt.skip {
				if strings.Contains(r.stdout, skip) {
					t.Errorf("unexpected %q:\n%s", skip, r.stdout)
				}
			}
		})
	}

	t.Run("invalid date", func(t *testing.T) {
		r := jcal(t, "ls", "--date", "June 5")
		if !errors.Is(r.err, ErrReported) {
			t.Fatalf("err: %v", r.err)
		}
		if !strings.Contains(r.stderr, "Error listing schedules") {
			t.Errorf("stderr: %q", r.stderr)
		}
	})
}

func TestDoneAndRemoveCommands(t *testing.T) {
	dir := setup(t)
	mustRun(t, "add", "Buy milk", "Call mom")
	recs := loadRecords(t, dir)
	milk, mom := recs[0].ID, recs[1].ID

	r := mustRun(t, "done", milk)
	if !strings.Contains(r.stdout, "✅ Schedule marked as done.") {
		t.Errorf("stdout: %q", r.stdout)
	}
	r = mustRun(t, "list")
	if strings.Contains(r.stdout, "Buy milk") || !strings.Contains(r.stdout, "Call mom") {
		t.Errorf("pending list:\n%s", r.stdout)
	}
	r = mustRun(t, "list", "--done")
	if !strings.Contains(r.stdout, "✔ TODO ["+milk+"] Buy milk") {
		t.Errorf("done list:\n%s", r.stdout)
	}

	// Marking again succeeds and changes nothing.
	mustRun(t, "done", milk)

	r = mustRun(t, "rm", mom)
	if !strings.Contains(r.stdout, "✅ Schedule removed successfully.") {
		t.Errorf("stdout: %q", r.stdout)
	}
	if got := loadRecords(t, dir); len(got) != 1 || got[0].ID != milk {
		t.Errorf("after remove: %+v", got)
	}

	for _, args := range [][]string{{"done", "nope0000"}, {"remove", "nope0000"}, {"update", "nope0000", "-T", "x"}} {
		r := jcal(t, args...)
		if !errors.Is(r.err, ErrReported) {
			t.Errorf("%v: err %v", args, r.err)
		}
		if !strings.Contains(r.stderr, "❌ Error: Schedule with that ID not found.") {
			t.Errorf("%v: stderr %q", args, r.stderr)
		}
	}

	if r := jcal(t, "done"); r.err == nil {
		t.Error("done without id should fail")
	}
	if r := jcal(t, "done", milk, "extra"); r.err == nil {
		t.Error("done with two ids should fail")
	}
}

func TestUpdateCommand(t *testing.T) {
	dir := setup(t)
	mustRun(t, "add", "Buy milk")
	mustRun(t, "add", "-d", "-t", "2024-06-12 09:30", "-c", "Daily sync", "Standup")
	recs := loadRecords(t, dir)
	todoID, meetID := recs[0].ID, recs[1].ID

	r := mustRun(t, "update", meetID, "-T", "Sync", "--time", "2024-06-13 10:00", "-c", "Moved")
	if !strings.Contains(r.stdout, "✅ Schedule updated successfully.") {
		t.Errorf("stdout: %q", r.stdout)
	}
	recs = loadRecords(t, dir)
	meet := recs[1]
	if meet.Title != "Sync" || meet.Detail.Content != "Moved" {
		t.Errorf("updated: %+v", meet)
	}
	if at, _ := meet.When(); !at.Equal(time.Date(2024, 6, 13, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("instant: %v", at)
	}

	r = mustRun(t, "update", todoID, "-T", "Buy oat milk", "-t", "2024-06-13 10:00", "-c", "2 liters")
	for _, want := range []string{"Cannot set time on a todo item.", "Cannot set content on a todo item."} {
		if !strings.Contains(r.stderr, want) {
			t.Errorf("stderr missing %q: %q", want, r.stderr)
		}
	}
	recs = loadRecords(t, dir)
	if recs[0].Title != "Buy oat milk" || recs[0].Detail != nil {
		t.Errorf("todo after update: %+v", recs[0])
	}

	r = jcal(t, "update", meetID, "-t", "someday")
	if !errors.Is(r.err, ErrReported) || !strings.Contains(r.stderr, "Error updating schedule") {
		t.Errorf("bad time: err %v stderr %q", r.err, r.stderr)
	}
	if got := loadRecords(t, dir)[1]; got.Title != "Sync" {
		t.Errorf("failed update changed the record: %+v", got)
	}

	r = mustRun(t, "update", meetID)
	if !strings.Contains(r.stdout, "Nothing to update.") {
		t.Errorf("empty update: %q", r.stdout)
	}
}

func TestDoctorCommand(t *testing.T) {
	t.Run("missing file passes", func(t *testing.T) {
		setup(t)
		r := mustRun(t, "doctor")
		if !strings.Contains(r.stdout, "Not found") || !strings.Contains(r.stdout, "✅ All checks passed!") {
			t.Errorf("stdout:\n%s", r.stdout)
		}
	})

	t.Run("valid file", func(t *testing.T) {
		setup(t)
		mustRun(t, "add", "Buy milk", "Call mom")
		r := mustRun(t, "doctor", "-v")
		for _, want := range []string{"✅ Valid (2 records)", "Buy milk", "✅ All checks passed!"} {
			if !strings.Contains(r.stdout, want) {
				t.Errorf("missing %q:\n%s", want, r.stdout)
			}
		}
	})

	t.Run("invalid file fails", func(t *testing.T) {
		dir := setup(t)
		bad := `{"schedules": [{"id": "a", "title": "x", "status": "later", "createdAt": "2024-06-10T08:00:00.000Z", "type": "todo"}]}`
		if err := os.WriteFile(filepath.Join(dir, "schedule.json"), []byte(bad), 0o644); err != nil {
			t.Fatal(err)
		}
		r := jcal(t, "doctor")
		if r.err == nil {
			t.Fatal("expected doctor to fail")
		}
		if !strings.Contains(r.stdout, "❌ Validation failed:") || !strings.Contains(r.stdout, "schedules[0].status") {
			t.Errorf("stdout:\n%s", r.stdout)
		}
	})

	t.Run("bad log level fails", func(t *testing.T) {
		setup(t)
		t.Setenv("JCAL_LOG_LEVEL", "loud")
		r := jcal(t, "doctor")
		if r.err == nil || !strings.Contains(r.stdout, "❌ Log level: loud") {
			t.Errorf("err %v stdout:\n%s", r.err, r.stdout)
		}
	})
}

func TestExportCommand(t *testing.T) {
	dir := setup(t)
	fixClock(t, time.Date(2024, 6, 12, 12, 0, 0, 0, time.UTC))
	mustRun(t, "add", "Buy milk")
	mustRun(t, "add", "-d", "-t", "2024-06-12 09:30", "-c", "Daily sync", "Standup")
	mustRun(t, "add", "-d", "-t", "2024-07-02 06:00", "-c", "Gate 4", "Flight")

	r := mustRun(t, "export")
	for _, want := range []string{"BEGIN:VCALENDAR", "SUMMARY:Standup", "SUMMARY:Flight", "X-WR-CALNAME:jcal"} {
		if !strings.Contains(r.stdout, want) {
			t.Errorf("missing %q:\n%s", want, r.stdout)
		}
	}
	if strings.Contains(r.stdout, "Buy milk") {
		t.Error("todo records must not be exported")
	}

	out := filepath.Join(dir, "out", "cal.ics")
	r = mustRun(t, "export", "--this-month", "-o", out)
	if !strings.Contains(r.stdout, "Exported 1 events to "+out) {
		t.Errorf("stdout: %q", r.stdout)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "SUMMARY:Standup") || strings.Contains(string(data), "SUMMARY:Flight") {
		t.Errorf("filtered export:\n%s", data)
	}
}

func TestConfigCommand(t *testing.T) {
	dir := setup(t)
	t.Setenv("JCAL_EVENT_DURATION", "30m")

	r := mustRun(t, "-file", "other.json", "config")
	for _, want := range []string{
		"schedule_file",
		filepath.Join(dir, "other.json"),
		"# flag",
		"# environment",
		"# default",
		"Config files: none",
	} {
		if !strings.Contains(r.stdout, want) {
			t.Errorf("missing %q:\n%s", want, r.stdout)
		}
	}

	r = mustRun(t, "config", "-example")
	if !strings.Contains(r.stdout, "schedule_file") {
		t.Errorf("example: %q", r.stdout)
	}
}

func TestScheduleFileFlag(t *testing.T) {
	dir := setup(t)
	mustRun(t, "-f", "work.json", "add", "Write report")
	if _, err := os.Stat(filepath.Join(dir, "work.json")); err != nil {
		t.Fatalf("work.json missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "schedule.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("default file should be untouched: %v", err)
	}
}

func TestTUIRequiresTTY(t *testing.T) {
	setup(t)
	r := jcal(t, "tui")
	if r.err == nil || !strings.Contains(r.err.Error(), "TTY") {
		t.Errorf("expected TTY error, got %v", r.err)
	}
}

func TestReorderFlags(t *testing.T) {
	takesValue := map[string]bool{"-t": true, "--time": true, "-c": true}

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"empty", nil, nil},
		{"flags only", []string{"-d", "-t", "x"}, []string{"-d", "-t", "x"}},
		{"flags after titles", []string{"a", "b", "-d", "-t", "9:30", "-c", "c"}, []string{"-d", "-t", "9:30", "-c", "c", "--", "a", "b"}},
		{"inline value", []string{"a", "--time=9:30"}, []string{"--time=9:30", "--", "a"}},
		{"double dash keeps rest", []string{"a", "--", "-x", "b"}, []string{"--", "a", "-x", "b"}},
		{"missing value at end", []string{"a", "-t"}, []string{"-t", "--", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reorderFlags(tt.args, takesValue)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValueFlags(t *testing.T) {
	a := &app{stderr: &bytes.Buffer{}}
	fs := a.newFlagSet("test")
	fs.Bool("done", false, "")
	fs.String("date", "", "")
	fs.Func("T", "", func(string) error { return nil })

	got := valueFlags(fs)
	for _, want := range []string{"-date", "--date", "-T", "--T"} {
		if !got[want] {
			t.Errorf("missing %s", want)
		}
	}
	if got["-done"] || got["--done"] {
		t.Error("bool flags take no value")
	}
}

// testChdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func testChdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(dir) {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PWD", dir)
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
