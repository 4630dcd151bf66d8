package cli

import (
	"errors"
	"strings"
	"testing"
	"time"

	"fanout/internal/config"
	"fanout/internal/executor"
	"fanout/internal/prompts"
	"fanout/internal/results"
	"fanout/internal/worktree"
)

func TestParseRunFlags(t *testing.T) {
	opts, rest, err := parseRunFlags([]string{
		"-j", "5",
		"-w", "api",
		"-d", "/src/a", "-d", "/src/b",
		"-t", "10m",
		"--stream",
		"--continue-on-failure",
		"fix", "the", "tests",
	})
	if err != nil {
		t.Fatal(err)
	}

	if opts.jobs != 5 || opts.pattern != "api" || opts.timeout != 10*time.Minute {
		t.Errorf("opts = %+v", opts)
	}
	if len(opts.directories) != 2 || opts.directories[1] != "/src/b" {
		t.Errorf("directories = %v", opts.directories)
	}
	if !opts.stream || !opts.continueOnFailure || opts.window {
		t.Errorf("mode flags = %+v", opts)
	}
	if strings.Join(rest, " ") != "fix the tests" {
		t.Errorf("rest = %v", rest)
	}
}

func TestParseRunFlagsInvalid(t *testing.T) {
	if _, _, err := parseRunFlags([]string{"-j", "not-a-number"}); err == nil {
		t.Fatal("parseRunFlags accepted a bad -j value")
	}
}

func TestResolveInstructionFromArgs(t *testing.T) {
	got, err := resolveInstruction(config.DefaultConfig(), runOptions{}, []string{"update", "deps"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "update deps" {
		t.Errorf("instruction = %q", got)
	}
}

func TestResolveInstructionEmpty(t *testing.T) {
	if _, err := resolveInstruction(config.DefaultConfig(), runOptions{}, nil); err == nil {
		t.Fatal("empty instruction accepted")
	}
}

func TestResolveInstructionFromPrompt(t *testing.T) {
	promptsDir := t.TempDir()
	store := prompts.NewStore(promptsDir)
	if err := store.Save(prompts.Prompt{
		Name:       "bump",
		Content:    "Bump everything to {{.version}}",
		IsTemplate: true,
		Variables:  []prompts.Variable{{Name: "version", Required: true}},
	}); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.PromptsDir = promptsDir

	got, err := resolveInstruction(cfg, runOptions{
		promptName: "bump",
		vars:       []string{"version=2.0"},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Bump everything to 2.0" {
		t.Errorf("instruction = %q", got)
	}

	// Missing required variable aborts before anything runs.
	if _, err := resolveInstruction(cfg, runOptions{promptName: "bump"}, nil); err == nil {
		t.Fatal("missing required variable accepted")
	}
}

func TestParseVariableSpecs(t *testing.T) {
	variables, err := parseVariableSpecs([]string{"!version", "target:main"})
	if err != nil {
		t.Fatal(err)
	}
	if len(variables) != 2 {
		t.Fatalf("got %d variables", len(variables))
	}
	if !variables[0].Required || variables[0].Name != "version" {
		t.Errorf("variables[0] = %+v", variables[0])
	}
	if variables[1].Required || variables[1].Default != "main" {
		t.Errorf("variables[1] = %+v", variables[1])
	}

	if _, err := parseVariableSpecs([]string{":broken"}); err == nil {
		t.Error("empty variable name accepted")
	}
}

func TestSummaryErr(t *testing.T) {
	clean := results.Aggregate([]executor.Result{
		{Worktree: worktree.Worktree{Path: "/src/a"}, Status: executor.Succeeded},
	})
	if err := summaryErr(clean); err != nil {
		t.Errorf("clean summary returned %v", err)
	}

	// A non-clean summary must surface as the sentinel, not a bare exit:
	// returning lets deferred lock release and log flush run first.
	dirty := results.Aggregate([]executor.Result{
		{Worktree: worktree.Worktree{Path: "/src/a"}, Status: executor.Succeeded},
		{Worktree: worktree.Worktree{Path: "/src/b"}, Status: executor.Failed, ExitCode: 1},
	})
	if err := summaryErr(dirty); !errors.Is(err, errJobsFailed) {
		t.Errorf("dirty summary returned %v, want errJobsFailed", err)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	long := strings.Repeat("x", 20)
	got := truncate(long, 10)
	if len(got) != 10 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate = %q", got)
	}
}
