// pattern: Imperative Shell
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"fanout/internal/results"
)

const cleanUsage = `Usage: fanout clean [flags]

Removes stored run artifacts from the output directory. Asks for
confirmation unless --force is given.

Flags:
      --all                  remove every stored run
      --failed               remove runs that recorded failures
      --older-than DURATION  remove runs started more than DURATION ago
  -f, --force                skip the confirmation prompt`

func runCleanCommand(configDir string, args []string) error {
	fs := flag.NewFlagSet("clean", flag.ContinueOnError)
	all := fs.Bool("all", false, "remove every run")
	failed := fs.Bool("failed", false, "remove failed runs")
	olderThan := fs.Duration("older-than", 0, "remove runs older than this")
	force := fs.BoolP("force", "f", false, "skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	store := results.NewStore(cfg.OutputDir, nil)

	var match func(results.RunInfo) bool
	switch {
	case *all:
		match = func(results.RunInfo) bool { return true }
	case *failed:
		match = func(run results.RunInfo) bool { return run.HasFailures }
	case *olderThan > 0:
		cutoff := time.Now().Add(-*olderThan)
		match = func(run results.RunInfo) bool { return run.StartedAt.Before(cutoff) }
	default:
		return fmt.Errorf("nothing selected: pass --all, --failed, or --older-than")
	}

	runs, err := store.ListRuns()
	if err != nil {
		return err
	}
	var doomed []results.RunInfo
	for _, run := range runs {
		if match(run) {
			doomed = append(doomed, run)
		}
	}
	if len(doomed) == 0 {
		fmt.Println("nothing to remove")
		return nil
	}

	if !*force && !confirm(fmt.Sprintf("remove %d run(s)?", len(doomed))) {
		fmt.Println("aborted")
		return nil
	}

	removed, err := store.Clean(match)
	if err != nil {
		return err
	}
	fmt.Printf("removed %d run(s)\n", removed)
	return nil
}

func confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y")
}
