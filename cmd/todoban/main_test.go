package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/hylla/todoban/internal/config"
)

// TestMain sets deterministic environment defaults for CLI tests.
func TestMain(m *testing.M) {
	_ = os.Setenv("TODOBAN_DEV_MODE", "false")
	os.Exit(m.Run())
}

// fakeProgram represents fake program data used by this package.
type fakeProgram struct {
	runErr error
}

// Run runs the requested command flow.
func (f fakeProgram) Run() (tea.Model, error) {
	return nil, f.runErr
}

// TestRunVersion verifies behavior for the covered scenario.
func TestRunVersion(t *testing.T) {
	var out strings.Builder
	err := run([]string{"--version"}, &out, io.Discard)
	if err != nil {
		t.Fatalf("run(version) error = %v", err)
	}
	if !strings.Contains(out.String(), "todoban") {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

// TestRunStartsProgram verifies behavior for the covered scenario.
func TestRunStartsProgram(t *testing.T) {
	origFactory := programFactory
	t.Cleanup(func() { programFactory = origFactory })
	programFactory = func(_ tea.Model) program {
		return fakeProgram{}
	}

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	err := run([]string{"--config", cfgPath, "--server", "http://127.0.0.1:9"}, io.Discard, io.Discard)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
}

// TestRunInvalidFlag verifies behavior for the covered scenario.
func TestRunInvalidFlag(t *testing.T) {
	if err := run([]string{"--definitely-not-a-flag"}, io.Discard, io.Discard); err == nil {
		t.Fatal("expected flag parse error")
	}
}

// TestRunUnknownCommand verifies behavior for the covered scenario.
func TestRunUnknownCommand(t *testing.T) {
	err := run([]string{"frobnicate"}, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

// TestRunPathsCommand verifies behavior for the covered scenario.
func TestRunPathsCommand(t *testing.T) {
	var out strings.Builder
	if err := run([]string{"paths"}, &out, io.Discard); err != nil {
		t.Fatalf("run(paths) error = %v", err)
	}
	for _, want := range []string{"app: todoban", "config:", "data_dir:", "log:"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in paths output, got %q", want, out.String())
		}
	}
}

// TestRunRejectsInvalidLoggingLevelFromConfig verifies behavior for the covered scenario.
func TestRunRejectsInvalidLoggingLevelFromConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	content := "[server]\nbase_url = \"http://127.0.0.1:5000\"\n\n[logging]\nlevel = \"verbose\"\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	err := run([]string{"--config", cfgPath}, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Fatalf("expected config load error, got %v", err)
	}
}

// TestParseBoolEnv verifies behavior for the covered scenario.
func TestParseBoolEnv(t *testing.T) {
	t.Setenv("TODOBAN_TEST_BOOL", "true")
	v, ok := parseBoolEnv("TODOBAN_TEST_BOOL")
	if !ok || !v {
		t.Fatalf("expected true, got %v %v", v, ok)
	}
	t.Setenv("TODOBAN_TEST_BOOL", "not-a-bool")
	if _, ok := parseBoolEnv("TODOBAN_TEST_BOOL"); ok {
		t.Fatal("expected invalid bool to be ignored")
	}
	if _, ok := parseBoolEnv("TODOBAN_TEST_BOOL_UNSET"); ok {
		t.Fatal("expected missing env to be ignored")
	}
}

// TestSanitizeLogFileStem verifies behavior for the covered scenario.
func TestSanitizeLogFileStem(t *testing.T) {
	if got := sanitizeLogFileStem("my app/x"); got != "my-app-x" {
		t.Fatalf("unexpected stem %q", got)
	}
	if got := sanitizeLogFileStem("   "); got != "todoban" {
		t.Fatalf("expected fallback stem, got %q", got)
	}
}

// TestWorkspaceRootFromUsesNearestMarker verifies behavior for the covered scenario.
func TestWorkspaceRootFromUsesNearestMarker(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if got := workspaceRootFrom(nested); got != root {
		t.Fatalf("expected workspace root %q, got %q", root, got)
	}
}

// TestDevLogFilePath verifies behavior for the covered scenario.
func TestDevLogFilePath(t *testing.T) {
	day := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	got, err := devLogFilePath("/var/log/todoban", "todoban", "", day)
	if err != nil {
		t.Fatalf("devLogFilePath() error = %v", err)
	}
	if got != filepath.Join("/var/log/todoban", "todoban-20260831.log") {
		t.Fatalf("unexpected path %q", got)
	}

	fallback := filepath.Join(t.TempDir(), "todoban.log")
	got, err = devLogFilePath("", "todoban", fallback, day)
	if err != nil {
		t.Fatalf("devLogFilePath() error = %v", err)
	}
	if filepath.Dir(got) != filepath.Dir(fallback) {
		t.Fatalf("expected fallback dir, got %q", got)
	}
}

// TestRuntimeLoggerCanMuteConsoleSink verifies behavior for the covered scenario.
func TestRuntimeLoggerCanMuteConsoleSink(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newRuntimeLogger(&buf, "todoban", false, config.LoggingConfig{Level: "info"}, "", time.Now)
	if err != nil {
		t.Fatalf("newRuntimeLogger() error = %v", err)
	}
	logger.Info("first event")
	if !strings.Contains(buf.String(), "first event") {
		t.Fatalf("expected console output, got %q", buf.String())
	}

	buf.Reset()
	logger.SetConsoleEnabled(false)
	logger.Info("second event")
	if buf.Len() != 0 {
		t.Fatalf("expected muted console, got %q", buf.String())
	}
	if logger.quietSink() == nil {
		t.Fatal("expected a usable quiet sink")
	}
}
