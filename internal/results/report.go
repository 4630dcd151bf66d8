// pattern: Imperative Shell

package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"fanout/internal/executor"
	"fanout/internal/logging"
)

// summaryFile is the machine-readable record inside each run directory.
const summaryFile = "summary.json"

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	timeoutStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// runRecord is the summary.json schema. Statuses are written as strings so
// the clean command (and any outside tooling) can grep for "failed" without
// knowing this package's enum values.
type runRecord struct {
	StartedAt   time.Time       `json:"started_at"`
	Instruction string          `json:"instruction"`
	Total       int             `json:"total"`
	Succeeded   int             `json:"succeeded"`
	Failed      int             `json:"failed"`
	TimedOut    int             `json:"timed_out"`
	Errors      int             `json:"errors"`
	WallClockMS int64           `json:"wall_clock_ms"`
	Worktrees   []worktreeEntry `json:"worktrees"`
}

type worktreeEntry struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	Branch     string `json:"branch,omitempty"`
	Status     string `json:"status"`
	ExitCode   int    `json:"exit_code"`
	DurationMS int64  `json:"duration_ms"`
	OutputFile string `json:"output_file,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Reporter persists run artifacts under a base output directory.
type Reporter struct {
	outputDir string
	logger    *logging.ScopedLogger
}

func NewReporter(outputDir string, logger *logging.ScopedLogger) *Reporter {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Reporter{outputDir: outputDir, logger: logger}
}

// Write creates a fresh run directory and fills it with summary.json, a
// human-readable report.txt, and one output file per worktree that produced
// output. Returns the run directory path.
func (r *Reporter) Write(summary Summary, instruction string, startedAt time.Time) (string, error) {
	runDir := filepath.Join(r.outputDir,
		fmt.Sprintf("run_%s_%s", startedAt.Format("20060102_150405"), uuid.NewString()[:8]))
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("creating run directory: %w", err)
	}

	record := runRecord{
		StartedAt:   startedAt,
		Instruction: instruction,
		Total:       summary.Total,
		Succeeded:   summary.Succeeded,
		Failed:      summary.Failed,
		TimedOut:    summary.TimedOut,
		Errors:      summary.Errors,
		WallClockMS: summary.WallClock.Milliseconds(),
	}

	// Base names are not unique across search roots; a numeric suffix keeps
	// same-named worktrees from overwriting each other's output.
	usedNames := make(map[string]int)
	for _, detail := range summary.Details {
		entry := worktreeEntry{
			Name:       detail.Worktree.Name(),
			Path:       detail.Worktree.Path,
			Branch:     detail.Worktree.Branch,
			Status:     detail.Status.String(),
			ExitCode:   detail.ExitCode,
			DurationMS: detail.Duration.Milliseconds(),
		}
		if detail.Err != nil {
			entry.Error = detail.Err.Error()
		}
		if detail.Output != "" {
			base := detail.Worktree.Name()
			usedNames[base]++
			if n := usedNames[base]; n > 1 {
				base = fmt.Sprintf("%s-%d", base, n)
			}
			entry.OutputFile = base + ".log"
			logPath := filepath.Join(runDir, entry.OutputFile)
			if err := os.WriteFile(logPath, []byte(detail.Output), 0644); err != nil {
				return "", fmt.Errorf("writing %s: %w", logPath, err)
			}
		}
		record.Worktrees = append(record.Worktrees, entry)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding summary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(runDir, summaryFile), data, 0644); err != nil {
		return "", fmt.Errorf("writing summary: %w", err)
	}

	report := renderReport(summary, instruction, startedAt)
	if err := os.WriteFile(filepath.Join(runDir, "report.txt"), []byte(report), 0644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	r.logger.Info("run artifacts written", "dir", runDir, "worktrees", summary.Total)
	return runDir, nil
}

// renderReport is the plain-text report body, uncolored so it reads the
// same in a file as piped through a pager.
func renderReport(summary Summary, instruction string, startedAt time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "run started %s\n", startedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "instruction: %s\n\n", instruction)
	fmt.Fprintf(&b, "total %d  succeeded %d  failed %d  timed out %d  errors %d\n",
		summary.Total, summary.Succeeded, summary.Failed, summary.TimedOut, summary.Errors)
	fmt.Fprintf(&b, "wall clock %s  success rate %.0f%%\n\n", summary.WallClock.Round(time.Millisecond), summary.SuccessRate()*100)

	for _, detail := range summary.Details {
		fmt.Fprintf(&b, "%-12s %s (exit %d, %s)\n",
			detail.Status.String(), detail.Worktree.Path, detail.ExitCode, detail.Duration.Round(time.Millisecond))
	}
	return b.String()
}

// RenderConsole is the styled end-of-run summary printed to the terminal.
func RenderConsole(summary Summary, runDir string) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("run complete"))
	b.WriteByte('\n')

	for _, detail := range summary.Details {
		var style lipgloss.Style
		switch detail.Status {
		case executor.Succeeded:
			style = successStyle
		case executor.TimedOut:
			style = timeoutStyle
		default:
			style = failStyle
		}
		fmt.Fprintf(&b, "  %s %s %s\n",
			style.Render(fmt.Sprintf("%-10s", detail.Status.String())),
			detail.Worktree.Name(),
			dimStyle.Render(detail.Duration.Round(time.Millisecond).String()))
	}

	fmt.Fprintf(&b, "\n%d/%d succeeded in %s",
		summary.Succeeded, summary.Total, summary.WallClock.Round(time.Millisecond))
	if slowest := summary.Slowest(); slowest != nil && summary.Total > 1 {
		fmt.Fprintf(&b, " (slowest: %s)", slowest.Worktree.Name())
	}
	b.WriteByte('\n')
	if runDir != "" {
		b.WriteString(dimStyle.Render("artifacts: " + runDir))
		b.WriteByte('\n')
	}
	return b.String()
}
