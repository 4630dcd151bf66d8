package results

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fanout/internal/executor"
	"fanout/internal/worktree"
)

func writeSampleRun(t *testing.T, outputDir string, results []executor.Result) string {
	t.Helper()
	r := NewReporter(outputDir, nil)
	runDir, err := r.Write(Aggregate(results), "update deps", time.Now())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	return runDir
}

func TestReporterWrite(t *testing.T) {
	outputDir := t.TempDir()
	results := []executor.Result{
		{
			Worktree: worktree.Worktree{Path: "/src/alpha", Branch: "main"},
			Status:   executor.Succeeded,
			Output:   "done\n",
			Duration: time.Second,
		},
		{
			Worktree: worktree.Worktree{Path: "/src/beta", Branch: "main"},
			Status:   executor.Failed,
			ExitCode: 1,
			Output:   "boom\n",
			Duration: 2 * time.Second,
		},
	}
	runDir := writeSampleRun(t, outputDir, results)

	if !strings.HasPrefix(filepath.Base(runDir), "run_") {
		t.Errorf("run dir %q missing run_ prefix", runDir)
	}

	data, err := os.ReadFile(filepath.Join(runDir, "summary.json"))
	if err != nil {
		t.Fatal(err)
	}
	var record runRecord
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("summary.json not parseable: %v", err)
	}
	if record.Total != 2 || record.Succeeded != 1 || record.Failed != 1 {
		t.Errorf("record counts = %+v", record)
	}
	if record.Instruction != "update deps" {
		t.Errorf("instruction = %q", record.Instruction)
	}
	// The clean utility matches on the literal status string.
	if !strings.Contains(string(data), `"status": "failed"`) {
		t.Error(`summary.json missing "failed" status marker`)
	}

	for _, name := range []string{"alpha.log", "beta.log", "report.txt"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}

	report, err := os.ReadFile(filepath.Join(runDir, "report.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(report), "/src/beta") {
		t.Errorf("report.txt missing worktree detail:\n%s", report)
	}
}

func TestReporterWriteSameNamedWorktrees(t *testing.T) {
	// Multi-root discovery can yield distinct worktrees sharing a base name;
	// each must keep its own output file.
	outputDir := t.TempDir()
	results := []executor.Result{
		{
			Worktree: worktree.Worktree{Path: "/src/a/app"},
			Status:   executor.Succeeded,
			Output:   "first output\n",
			Duration: time.Second,
		},
		{
			Worktree: worktree.Worktree{Path: "/src/b/app"},
			Status:   executor.Succeeded,
			Output:   "second output\n",
			Duration: time.Second,
		},
	}
	runDir := writeSampleRun(t, outputDir, results)

	data, err := os.ReadFile(filepath.Join(runDir, "summary.json"))
	if err != nil {
		t.Fatal(err)
	}
	var record runRecord
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatal(err)
	}

	files := make(map[string]string) // output file -> path it belongs to
	for _, entry := range record.Worktrees {
		if entry.OutputFile == "" {
			t.Fatalf("entry %s has no output file", entry.Path)
		}
		if other, dup := files[entry.OutputFile]; dup {
			t.Fatalf("entries %s and %s share output file %s", other, entry.Path, entry.OutputFile)
		}
		files[entry.OutputFile] = entry.Path
	}

	wantContents := map[string]string{
		"/src/a/app": "first output\n",
		"/src/b/app": "second output\n",
	}
	for file, path := range files {
		content, err := os.ReadFile(filepath.Join(runDir, file))
		if err != nil {
			t.Fatalf("reading %s: %v", file, err)
		}
		if string(content) != wantContents[path] {
			t.Errorf("%s (for %s) = %q, want %q", file, path, content, wantContents[path])
		}
	}
}

func TestReporterWriteUnwritableDir(t *testing.T) {
	// A regular file where the output directory should be makes MkdirAll fail.
	blocked := filepath.Join(t.TempDir(), "output")
	if err := os.WriteFile(blocked, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewReporter(blocked, nil)
	if _, err := r.Write(Aggregate(nil), "x", time.Now()); err == nil {
		t.Fatal("Write succeeded with a file blocking the output dir")
	}
}

func TestRenderConsole(t *testing.T) {
	summary := Aggregate([]executor.Result{
		{Worktree: worktree.Worktree{Path: "/src/alpha"}, Status: executor.Succeeded, Duration: time.Second},
		{Worktree: worktree.Worktree{Path: "/src/beta"}, Status: executor.TimedOut, Duration: 5 * time.Second},
	})

	out := RenderConsole(summary, "/tmp/run_x")
	for _, want := range []string{"alpha", "beta", "1/2 succeeded", "/tmp/run_x"} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q:\n%s", want, out)
		}
	}
}
