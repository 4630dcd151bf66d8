// pattern: Imperative Shell
package cli

import (
	"fmt"
	"path/filepath"

	"fanout/internal/config"
	"fanout/internal/logging"
)

// BuildApp creates and configures the CLI application with all commands and groups.
func BuildApp(version string, configDir string) *App {
	app := NewApp(version)

	app.AddCommand(&Command{
		Name:    "run",
		Summary: "Run an instruction across worktrees",
		Usage:   runUsage,
		Run: func(args []string) error {
			return runRunCommand(configDir, args)
		},
	})

	app.AddCommand(&Command{
		Name:    "worktrees",
		Summary: "List discovered worktrees",
		Usage:   "Usage: fanout worktrees [pattern]",
		Run: func(args []string) error {
			return runWorktreesCommand(configDir, args)
		},
	})

	app.AddCommand(&Command{
		Name:    "list",
		Summary: "List stored runs",
		Usage:   "Usage: fanout list",
		Run: func(args []string) error {
			return runListCommand(configDir)
		},
	})

	app.AddCommand(&Command{
		Name:    "clean",
		Summary: "Remove stored run artifacts",
		Usage:   cleanUsage,
		Run: func(args []string) error {
			return runCleanCommand(configDir, args)
		},
	})

	app.AddCommand(&Command{
		Name:    "version",
		Summary: "Print version and exit",
		Usage:   "Usage: fanout version",
		Run: func(args []string) error {
			fmt.Println(version)
			return nil
		},
	})

	promptGroup := app.AddGroup("prompt", "Manage stored prompts")
	RegisterPromptCommands(promptGroup, configDir)

	return app
}

// loadConfig loads the configuration from the specified directory or default location.
func loadConfig(configDir string) (config.Config, error) {
	if configDir != "" {
		return config.LoadFromDir(configDir)
	}
	return config.Load()
}

// newLogManager opens the run log under the data directory.
func newLogManager(cfg config.Config) (*logging.Manager, error) {
	return logging.NewManager(logging.Config{
		FilePath:   filepath.Join(config.DataDir(), "fanout.log"),
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Level:      cfg.LogLevel,
	})
}
