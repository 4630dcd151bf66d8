// pattern: Imperative Shell
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"fanout/internal/config"
	"fanout/internal/executor"
	"fanout/internal/logging"
	"fanout/internal/prompts"
	"fanout/internal/results"
	"fanout/internal/runlock"
	"fanout/internal/terminal"
	"fanout/internal/worktree"
)

const runUsage = `Usage: fanout run [flags] <instruction...>

Runs the instruction in every matching worktree through the configured agent.
The instruction comes from the arguments, or from a stored prompt with --prompt.

Flags:
  -j, --jobs N              concurrent jobs (default from config)
  -w, --worktree PATTERN    only worktrees matching pattern
  -d, --directory DIR       explicit worktree directory (repeatable, skips discovery)
  -t, --timeout DURATION    per-job timeout (default from config)
      --prompt NAME         use a stored prompt as the instruction
      --var KEY=VALUE       template variable for --prompt (repeatable)
      --temp BRANCH         run in a fresh temporary worktree based on BRANCH
      --window              run each job in a dedicated terminal window
      --stream              mirror agent output to stdout, tagged per worktree
      --continue-on-failure keep going after a failed job
      --dry-run             print the job plan without running anything`

// errJobsFailed signals a completed run whose summary the user has already
// seen on the console. Returning it (instead of exiting mid-function) lets
// the deferred lock release and log flush run before the process exits
// non-zero, without printing a second message.
var errJobsFailed = errors.New("one or more jobs did not succeed")

type runOptions struct {
	jobs              int
	pattern           string
	directories       []string
	timeout           time.Duration
	promptName        string
	vars              []string
	tempBase          string
	window            bool
	stream            bool
	continueOnFailure bool
	dryRun            bool
}

func parseRunFlags(args []string) (runOptions, []string, error) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	var opts runOptions
	fs.IntVarP(&opts.jobs, "jobs", "j", 0, "concurrent jobs")
	fs.StringVarP(&opts.pattern, "worktree", "w", "", "worktree filter pattern")
	fs.StringArrayVarP(&opts.directories, "directory", "d", nil, "explicit worktree directory")
	fs.DurationVarP(&opts.timeout, "timeout", "t", 0, "per-job timeout")
	fs.StringVar(&opts.promptName, "prompt", "", "stored prompt name")
	fs.StringArrayVar(&opts.vars, "var", nil, "template variable")
	fs.StringVar(&opts.tempBase, "temp", "", "temporary worktree base branch")
	fs.BoolVar(&opts.window, "window", false, "dedicated terminal windows")
	fs.BoolVar(&opts.stream, "stream", false, "stream agent output")
	fs.BoolVar(&opts.continueOnFailure, "continue-on-failure", false, "keep going after failures")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "print plan only")
	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}
	return opts, fs.Args(), nil
}

func runRunCommand(configDir string, args []string) error {
	opts, rest, err := parseRunFlags(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	logManager, err := newLogManager(cfg)
	if err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	defer func() { _ = logManager.Close() }()
	logger := logManager.For("run")

	instruction, err := resolveInstruction(cfg, opts, rest)
	if err != nil {
		return err
	}

	fl, err := runlock.Acquire(config.DataDir())
	if err != nil {
		return err
	}
	defer runlock.Release(fl)

	manager := worktree.NewManager(cfg.SearchPaths, cfg.ExcludePatterns, logManager.For("worktree"))

	var worktrees []worktree.Worktree
	var tempWorktree *worktree.Worktree
	switch {
	case opts.tempBase != "":
		wt, err := manager.CreateTemporary(opts.tempBase)
		if err != nil {
			return err
		}
		tempWorktree = &wt
		worktrees = []worktree.Worktree{wt}
	case len(opts.directories) > 0:
		worktrees = manager.FromDirectories(opts.directories)
	default:
		worktrees = manager.Discover()
	}

	if opts.pattern != "" {
		worktrees, err = manager.FilterByPattern(worktrees, opts.pattern)
		if err != nil {
			return err
		}
	}
	if len(worktrees) == 0 {
		return fmt.Errorf("no worktrees matched")
	}

	jobs := make([]executor.Job, len(worktrees))
	for i, wt := range worktrees {
		jobs[i] = executor.Job{Worktree: wt, Instruction: instruction}
	}

	if opts.dryRun {
		printPlan(cfg, opts, jobs)
		return nil
	}

	runner, err := buildRunner(cfg, opts, logManager)
	if err != nil {
		return err
	}

	timeout := cfg.JobTimeout()
	if opts.timeout > 0 {
		timeout = opts.timeout
	}
	limit := cfg.Jobs
	if opts.jobs > 0 {
		limit = opts.jobs
	}

	pool, err := executor.NewPool(executor.PoolConfig{
		Limit:             limit,
		Timeout:           timeout,
		ContinueOnFailure: opts.continueOnFailure,
	}, runner, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	startedAt := time.Now()
	summary := results.Aggregate(pool.Execute(ctx, jobs))

	if tempWorktree != nil {
		if err := manager.CleanupTemporary(*tempWorktree); err != nil {
			logger.Warn("temporary worktree not removed", "path", tempWorktree.Path, "error", err)
			fmt.Fprintf(os.Stderr, "warning: temporary worktree left behind at %s: %v\n", tempWorktree.Path, err)
		}
	}

	reporter := results.NewReporter(cfg.OutputDir, logManager.For("results"))
	runDir, err := reporter.Write(summary, instruction, startedAt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: run artifacts not written: %v\n", err)
	}

	fmt.Print(results.RenderConsole(summary, runDir))

	return summaryErr(summary)
}

// summaryErr maps a finished run to the command's outcome.
func summaryErr(summary results.Summary) error {
	if summary.AllSucceeded() {
		return nil
	}
	return errJobsFailed
}

// resolveInstruction picks the instruction text: a stored (possibly
// templated) prompt wins over positional words.
func resolveInstruction(cfg config.Config, opts runOptions, rest []string) (string, error) {
	if opts.promptName != "" {
		store := prompts.NewStore(cfg.PromptsDir)
		p, err := store.Load(opts.promptName)
		if err != nil {
			return "", err
		}
		vars, err := prompts.ParseVars(opts.vars)
		if err != nil {
			return "", err
		}
		return prompts.Render(p, vars)
	}

	instruction := strings.TrimSpace(strings.Join(rest, " "))
	if instruction == "" {
		return "", fmt.Errorf("no instruction given (arguments or --prompt)")
	}
	return instruction, nil
}

// buildRunner wires the execution mode: dedicated terminal windows, or the
// captured agent runner, optionally streaming to stdout.
func buildRunner(cfg config.Config, opts runOptions, logManager *logging.Manager) (executor.Runner, error) {
	if opts.window {
		launcher, err := terminal.NewGhostty(cfg.Terminal.Binary, cfg.Terminal.WaitAfterCommand, logManager.For("terminal"))
		if err != nil {
			return nil, err
		}
		return executor.NewWindowRunner(cfg.Agent.Binary, cfg.Agent.Args, launcher), nil
	}
	return executor.NewAgentRunner(cfg.Agent.Binary, cfg.Agent.Args, opts.stream, logManager.For("agent")), nil
}

func printPlan(cfg config.Config, opts runOptions, jobs []executor.Job) {
	fmt.Printf("would run %d job(s):\n", len(jobs))
	for _, job := range jobs {
		branch := job.Worktree.Branch
		if branch == "" {
			branch = "(detached)"
		}
		fmt.Printf("  %s [%s]\n", job.Worktree.Path, branch)
	}
	mode := "captured"
	if opts.window {
		mode = "window"
	} else if opts.stream {
		mode = "streamed"
	}
	fmt.Printf("agent: %s %s\nmode: %s\n", cfg.Agent.Binary, strings.Join(cfg.Agent.Args, " "), mode)
}
