package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewManagerRequiresFilePath(t *testing.T) {
	if _, err := NewManager(Config{}); err == nil {
		t.Error("NewManager with empty FilePath: expected error")
	}
}

func TestManagerWritesJSONToFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "fanout.log")

	m, err := NewManager(Config{FilePath: logPath, Level: "debug"})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	logger := m.For("run")
	logger.Info("job finished", "worktree", "/src/proj", "status", "succeeded")
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	line := strings.TrimSpace(string(data))
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log line is not JSON: %q", line)
	}
	if entry["msg"] != "job finished" {
		t.Errorf("msg = %v, want 'job finished'", entry["msg"])
	}
	if entry["worktree"] != "/src/proj" {
		t.Errorf("worktree = %v, want /src/proj", entry["worktree"])
	}
}

func TestForCachesLoggers(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(Config{FilePath: filepath.Join(dir, "x.log")})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	defer m.Close()

	a := m.For("pool")
	b := m.For("pool")
	if a != b {
		t.Error("For returned different loggers for the same scope")
	}
	if a.Scope() != "pool" {
		t.Errorf("Scope = %q, want pool", a.Scope())
	}
}

func TestNopLoggerDoesNotPanic(t *testing.T) {
	l := NopLogger()
	l.Info("ignored")
	l.Debug("ignored")
	l.Warn("ignored")
	l.Error("ignored")
	l.With("k", "v").Info("still ignored")
}
