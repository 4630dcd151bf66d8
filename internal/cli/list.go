// pattern: Imperative Shell
package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"fanout/internal/results"
	"fanout/internal/worktree"
)

// runWorktreesCommand prints every discovered worktree, optionally filtered
// by a positional pattern.
func runWorktreesCommand(configDir string, args []string) error {
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	manager := worktree.NewManager(cfg.SearchPaths, cfg.ExcludePatterns, nil)
	worktrees := manager.Discover()

	if len(args) > 0 {
		worktrees, err = manager.FilterByPattern(worktrees, args[0])
		if err != nil {
			return err
		}
	}

	if len(worktrees) == 0 {
		fmt.Println("no worktrees found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tBRANCH\tCLEAN\tREMOTE")
	for _, wt := range worktrees {
		branch := wt.Branch
		if branch == "" {
			branch = "(detached)"
		}
		clean := "yes"
		if !wt.Clean {
			clean = "no"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", wt.Path, branch, clean, wt.RemoteURL)
	}
	return w.Flush()
}

// runListCommand prints stored runs, newest first.
func runListCommand(configDir string) error {
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	store := results.NewStore(cfg.OutputDir, nil)
	runs, err := store.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no stored runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tRESULT\tINSTRUCTION")
	for _, run := range runs {
		result := fmt.Sprintf("%d/%d ok", run.Succeeded, run.Total)
		if run.HasFailures {
			result += " (failures)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			run.StartedAt.Local().Format(time.DateTime), result, truncate(run.Instruction, 60))
	}
	return w.Flush()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
