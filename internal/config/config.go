// pattern: Functional Core

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the fanout settings file contents.
type Config struct {
	SearchPaths     []string       `yaml:"search_paths"`
	ExcludePatterns []string       `yaml:"exclude_patterns"`
	Jobs            int            `yaml:"jobs"`
	Timeout         string         `yaml:"timeout"`
	OutputDir       string         `yaml:"output_dir"`
	PromptsDir      string         `yaml:"prompts_dir"`
	LogLevel        string         `yaml:"log_level"`
	Agent           AgentConfig    `yaml:"agent"`
	Terminal        TerminalConfig `yaml:"terminal"`
}

// AgentConfig describes the external coding-agent binary that jobs spawn.
type AgentConfig struct {
	Binary string   `yaml:"binary"`
	Args   []string `yaml:"args"`
}

// TerminalConfig describes the terminal emulator used for
// dedicated-window execution.
type TerminalConfig struct {
	Binary           string `yaml:"binary"`
	WaitAfterCommand bool   `yaml:"wait_after_command"`
}

func DefaultConfig() Config {
	return Config{
		SearchPaths: []string{"~/projects", "~/work"},
		ExcludePatterns: []string{
			"*/node_modules/*",
			"*/.git/*",
			"*/target/*",
		},
		Jobs:       3,
		Timeout:    "30m",
		OutputDir:  "~/.local/share/fanout/results",
		PromptsDir: "~/.local/share/fanout/prompts",
		LogLevel:   "info",
		Agent: AgentConfig{
			Binary: "claude",
			Args:   []string{"--print"},
		},
		Terminal: TerminalConfig{
			Binary:           "ghostty",
			WaitAfterCommand: true,
		},
	}
}

func Load() (Config, error) {
	return LoadFrom(getConfigPath())
}

// LoadFromDir loads config.yaml from an explicit directory.
func LoadFromDir(dir string) (Config, error) {
	return LoadFrom(filepath.Join(dir, "config.yaml"))
}

func LoadFrom(configPath string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.expand()
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing %s: %w", configPath, err)
	}

	cfg.expand()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate rejects settings the rest of the pipeline cannot run with.
// Called once at startup; a failure here is fatal.
func (c *Config) Validate() error {
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if c.Agent.Binary == "" {
		return fmt.Errorf("agent.binary cannot be empty")
	}
	if len(c.SearchPaths) == 0 {
		return fmt.Errorf("search_paths cannot be empty")
	}
	return nil
}

// JobTimeout returns the parsed default per-job timeout.
func (c *Config) JobTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Minute
	}
	return d
}

// expand resolves ~ in every configured path.
func (c *Config) expand() {
	c.OutputDir = ExpandPath(c.OutputDir)
	c.PromptsDir = ExpandPath(c.PromptsDir)
	for i, p := range c.SearchPaths {
		c.SearchPaths[i] = ExpandPath(p)
	}
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

func getConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "fanout", "config.yaml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "fanout", "config.yaml")
	}

	return filepath.Join(home, ".config", "fanout", "config.yaml")
}

// DataDir returns the directory for the lock file and run log.
func DataDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "fanout")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".local", "share", "fanout")
	}

	return filepath.Join(home, ".local", "share", "fanout")
}
