package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/example/tasktracker/internal/config"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// isolateEnv points HOME and the working directory at temp dirs and selects
// the in-memory backend so commands never touch real user state.
func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)
	t.Setenv("TASKTRACKER_STORAGE", config.BackendMemory)
	t.Setenv("TASKTRACKER_LOG_LEVEL", "error")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()

	want := []string{"init", "doctor", "task", "log", "page", "serve", "config"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("expected subcommand %q, got %v (err %v)", name, cmd, err)
		}
	}

	taskCmds := []string{"add", "list", "show", "toggle", "edit", "rm", "clear", "stats"}
	for _, name := range taskCmds {
		if _, _, err := root.Find([]string{"task", name}); err != nil {
			t.Errorf("expected task subcommand %q: %v", name, err)
		}
	}
}

func TestSkipInit(t *testing.T) {
	root := NewRootCmd()
	tests := []struct {
		path []string
		want bool
	}{
		{[]string{"config", "init"}, true},
		{[]string{"config", "show"}, true},
		{[]string{"doctor"}, true},
		{[]string{"init"}, true},
		{[]string{"task", "add"}, false},
		{[]string{"serve"}, false},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.path, " "), func(t *testing.T) {
			cmd, _, err := root.Find(tt.path)
			if err != nil {
				t.Fatalf("find failed: %v", err)
			}
			if got := skipInit(cmd); got != tt.want {
				t.Errorf("skipInit = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToFragment(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"about", "#/about"},
		{"/blog", "#/blog"},
		{"#/tasks", "#/tasks"},
		{"  events ", "#/events"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := toFragment(tt.in); got != tt.want {
				t.Errorf("toFragment(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestConfigInit_WritesAndRefusesOverwrite(t *testing.T) {
	dir := isolateEnv(t)

	out, err := execute(t, "config", "init")
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, "✓ Wrote") {
		t.Errorf("unexpected output: %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, ".tasktracker", "config.yaml")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	if _, err := execute(t, "config", "init"); err == nil {
		t.Error("expected error when config already exists")
	}
	if _, err := execute(t, "config", "init", "--force"); err != nil {
		t.Errorf("--force should overwrite: %v", err)
	}
}

func TestConfigShow(t *testing.T) {
	isolateEnv(t)

	out, err := execute(t, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, "backend: memory") {
		t.Errorf("expected env override in output, got:\n%s", out)
	}
}

func TestDoctor_MemoryBackendWarnsButPasses(t *testing.T) {
	isolateEnv(t)

	out, err := execute(t, "doctor")
	if err != nil {
		t.Fatalf("doctor failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Config: storage backend is memory") {
		t.Errorf("expected memory warning, got:\n%s", out)
	}
}

func TestDoctor_BadConfigFails(t *testing.T) {
	isolateEnv(t)
	t.Setenv("TASKTRACKER_STORAGE", "etcd")

	if _, err := execute(t, "doctor", "--quiet"); err == nil {
		t.Error("expected doctor to fail on unknown backend")
	}
}

// TestTaskCommands_EndToEnd runs the task commands against the process-wide
// services, so it is the only test in this package that initializes wire.
func TestTaskCommands_EndToEnd(t *testing.T) {
	isolateEnv(t)

	out, err := execute(t, "task", "add", "Write", "report")
	if err != nil {
		t.Fatalf("task add failed: %v", err)
	}
	if !strings.Contains(out, ": Write report") {
		t.Errorf("unexpected add output: %q", out)
	}

	if out, err = execute(t, "task", "add", "   "); err != nil {
		t.Fatalf("blank add failed: %v", err)
	}
	if !strings.Contains(out, "Nothing added") {
		t.Errorf("unexpected blank add output: %q", out)
	}

	out, err = execute(t, "task", "list", "--filter", "active")
	if err != nil {
		t.Fatalf("task list failed: %v", err)
	}
	if !strings.Contains(out, "Write report") || !strings.Contains(out, "Total: 1 | Active: 1 | Completed: 0") {
		t.Errorf("unexpected list output:\n%s", out)
	}

	if _, err = execute(t, "task", "list", "--filter", "bogus"); err == nil {
		t.Error("expected invalid filter to fail")
	}

	if _, err = execute(t, "task", "toggle", "not-a-number"); err == nil {
		t.Error("expected invalid id to fail")
	}

	out, err = execute(t, "page", "tasks")
	if err != nil {
		t.Fatalf("page failed: %v", err)
	}
	if !strings.Contains(out, "My Tasks") || !strings.Contains(out, "Write report") {
		t.Errorf("unexpected page output:\n%s", out)
	}

	out, err = execute(t, "log", "tail", "-n", "5")
	if err != nil {
		t.Fatalf("log tail failed: %v", err)
	}
	if !strings.Contains(out, "+ create") || !strings.Contains(out, `"Write report"`) {
		t.Errorf("unexpected log output:\n%s", out)
	}

	out, err = execute(t, "log", "prune", "--days", "7")
	if err != nil {
		t.Fatalf("log prune failed: %v", err)
	}
	if !strings.Contains(out, "No activity older than 7 days found.") {
		t.Errorf("unexpected prune output: %q", out)
	}
}
