// pattern: Imperative Shell

package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fanout/internal/logging"
)

// RunInfo summarizes one persisted run directory for listing and cleanup.
type RunInfo struct {
	Path        string
	StartedAt   time.Time
	Instruction string
	Total       int
	Succeeded   int
	HasFailures bool
}

// Store reads and prunes run directories under the base output directory.
type Store struct {
	outputDir string
	logger    *logging.ScopedLogger
}

func NewStore(outputDir string, logger *logging.ScopedLogger) *Store {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Store{outputDir: outputDir, logger: logger}
}

// ListRuns returns all readable runs, newest first. Directories without a
// parseable summary.json are skipped with a warning; a corrupt run must not
// hide the healthy ones.
func (s *Store) ListRuns() ([]RunInfo, error) {
	entries, err := os.ReadDir(s.outputDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading output directory: %w", err)
	}

	var runs []RunInfo
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "run_") {
			continue
		}
		path := filepath.Join(s.outputDir, entry.Name())
		info, err := readRun(path)
		if err != nil {
			s.logger.Warn("skipping unreadable run", "path", path, "error", err)
			continue
		}
		runs = append(runs, info)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	return runs, nil
}

// RemoveRun deletes one run directory and everything in it.
func (s *Store) RemoveRun(run RunInfo) error {
	if !strings.HasPrefix(filepath.Base(run.Path), "run_") {
		return fmt.Errorf("%s is not a run directory", run.Path)
	}
	if err := os.RemoveAll(run.Path); err != nil {
		return fmt.Errorf("removing run: %w", err)
	}
	s.logger.Info("removed run", "path", run.Path)
	return nil
}

// Clean removes every run the predicate selects and returns how many went.
func (s *Store) Clean(match func(RunInfo) bool) (int, error) {
	runs, err := s.ListRuns()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, run := range runs {
		if !match(run) {
			continue
		}
		if err := s.RemoveRun(run); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func readRun(path string) (RunInfo, error) {
	data, err := os.ReadFile(filepath.Join(path, summaryFile))
	if err != nil {
		return RunInfo{}, err
	}
	var record runRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return RunInfo{}, fmt.Errorf("parsing summary: %w", err)
	}
	return RunInfo{
		Path:        path,
		StartedAt:   record.StartedAt,
		Instruction: record.Instruction,
		Total:       record.Total,
		Succeeded:   record.Succeeded,
		HasFailures: record.Failed+record.TimedOut+record.Errors > 0,
	}, nil
}
