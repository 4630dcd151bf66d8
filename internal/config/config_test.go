package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope", "config.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom missing file: %v", err)
	}
	if cfg.Jobs != 3 {
		t.Errorf("Jobs = %d, want default 3", cfg.Jobs)
	}
	if cfg.Agent.Binary != "claude" {
		t.Errorf("Agent.Binary = %q, want default claude", cfg.Agent.Binary)
	}
	if len(cfg.ExcludePatterns) == 0 {
		t.Error("ExcludePatterns empty, want defaults")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
search_paths:
  - /src
jobs: 8
timeout: 5m
agent:
  binary: my-agent
terminal:
  binary: kitty
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Jobs != 8 {
		t.Errorf("Jobs = %d, want 8", cfg.Jobs)
	}
	if got := cfg.JobTimeout(); got != 5*time.Minute {
		t.Errorf("JobTimeout = %v, want 5m", got)
	}
	if cfg.Agent.Binary != "my-agent" {
		t.Errorf("Agent.Binary = %q, want my-agent", cfg.Agent.Binary)
	}
	if cfg.Terminal.Binary != "kitty" {
		t.Errorf("Terminal.Binary = %q, want kitty", cfg.Terminal.Binary)
	}
}

func TestLoadFromInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("jobs: [not an int"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom invalid yaml: expected error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero jobs", func(c *Config) { c.Jobs = 0 }, true},
		{"negative jobs", func(c *Config) { c.Jobs = -2 }, true},
		{"bad timeout", func(c *Config) { c.Timeout = "soon" }, true},
		{"empty agent binary", func(c *Config) { c.Agent.Binary = "" }, true},
		{"no search paths", func(c *Config) { c.SearchPaths = nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}

	got := ExpandPath("~/projects")
	want := filepath.Join(home, "projects")
	if got != want {
		t.Errorf("ExpandPath(~/projects) = %q, want %q", got, want)
	}

	if got := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandPath(/abs/path) = %q, want unchanged", got)
	}
}
