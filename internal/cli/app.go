// pattern: Functional Core
package cli

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
)

// Command represents a single CLI command with its metadata and handler.
type Command struct {
	Name    string
	Summary string
	Usage   string
	Run     func(args []string) error
}

// Group represents a group of related commands.
type Group struct {
	Name     string
	Summary  string
	Commands map[string]*Command
}

// App represents the top-level CLI application with groups and ungrouped commands.
type App struct {
	groups   map[string]*Group
	commands map[string]*Command
	version  string
}

// NewApp creates a new CLI application with the given version.
func NewApp(version string) *App {
	return &App{
		groups:   make(map[string]*Group),
		commands: make(map[string]*Command),
		version:  version,
	}
}

// AddGroup creates and registers a new command group.
func (a *App) AddGroup(name, summary string) *Group {
	g := &Group{
		Name:     name,
		Summary:  summary,
		Commands: make(map[string]*Command),
	}
	a.groups[name] = g
	return g
}

// AddCommand registers an ungrouped (top-level) command.
func (a *App) AddCommand(cmd *Command) {
	a.commands[cmd.Name] = cmd
}

// AddCommand registers a command in the group.
func (g *Group) AddCommand(cmd *Command) {
	g.Commands[cmd.Name] = cmd
}

// Execute dispatches the CLI arguments to the appropriate command. A failed
// command prints its error and exits non-zero.
func (a *App) Execute(args []string) {
	if len(args) == 0 {
		a.PrintHelp(os.Stderr)
		os.Exit(1)
	}

	cmdName := args[0]

	if cmd, ok := a.commands[cmdName]; ok {
		a.runCommand(cmd, args[1:])
		return
	}

	if group, ok := a.groups[cmdName]; ok {
		// Group with no subcommand, "help", or --help/-h
		if len(args) < 2 || args[1] == "help" || args[1] == "--help" || args[1] == "-h" {
			group.PrintHelp(os.Stderr)
			return
		}

		if cmd, ok := group.Commands[args[1]]; ok {
			a.runCommand(cmd, args[2:])
			return
		}

		// Unknown command in group
		group.PrintHelp(os.Stderr)
		os.Exit(1)
	}

	// Unknown command
	a.PrintHelp(os.Stderr)
	os.Exit(1)
}

func (a *App) runCommand(cmd *Command, args []string) {
	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			fmt.Fprintf(os.Stderr, "%s\n", cmd.Usage)
			return
		}
	}
	if err := cmd.Run(args); err != nil {
		// errJobsFailed was already rendered as the console summary.
		if !errors.Is(err, errJobsFailed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// PrintHelp prints the top-level help text.
func (a *App) PrintHelp(w io.Writer) {
	fmt.Fprintf(w, "Usage: fanout [options] <command>\n\n")
	fmt.Fprintf(w, "Commands:\n")

	for _, name := range []string{"run", "worktrees", "list", "clean", "version"} {
		if cmd, ok := a.commands[name]; ok {
			fmt.Fprintf(w, "  %-10s %s\n", cmd.Name, cmd.Summary)
		}
	}

	if len(a.groups) > 0 {
		fmt.Fprintf(w, "\nCommand Groups:\n")
		names := slices.Sorted(maps.Keys(a.groups))
		for _, name := range names {
			fmt.Fprintf(w, "  %-10s %s\n", name, a.groups[name].Summary)
		}
	}

	fmt.Fprintf(w, "\nUse \"fanout <command> --help\" for command details.\n")
}

// PrintHelp prints help for a specific group.
func (g *Group) PrintHelp(w io.Writer) {
	fmt.Fprintf(w, "Usage: fanout %s <command>\n\n", g.Name)
	fmt.Fprintf(w, "Commands:\n")
	// Sort command names for deterministic output
	names := slices.Sorted(maps.Keys(g.Commands))
	for _, name := range names {
		cmd := g.Commands[name]
		fmt.Fprintf(w, "  %-10s %s\n", cmd.Name, cmd.Summary)
	}
	fmt.Fprintf(w, "\nUse \"fanout %s <command> --help\" for command details.\n", g.Name)
}
