// pattern: Functional Core

package results

import (
	"sort"
	"time"

	"fanout/internal/executor"
)

// Summary condenses one run's results. Details are sorted by worktree path
// so reports and console output are stable regardless of completion order.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	TimedOut  int
	Errors    int
	WallClock time.Duration // longest single job, the run's critical path
	Details   []executor.Result
}

// Aggregate folds raw results into a Summary. Empty input yields the zero
// Summary; callers treat that as "nothing ran", not an error.
func Aggregate(results []executor.Result) Summary {
	s := Summary{Total: len(results)}

	for _, r := range results {
		switch r.Status {
		case executor.Succeeded:
			s.Succeeded++
		case executor.Failed:
			s.Failed++
		case executor.TimedOut:
			s.TimedOut++
		case executor.Error:
			s.Errors++
		}
		if r.Duration > s.WallClock {
			s.WallClock = r.Duration
		}
	}

	s.Details = make([]executor.Result, len(results))
	copy(s.Details, results)
	sort.Slice(s.Details, func(i, j int) bool {
		return s.Details[i].Worktree.Path < s.Details[j].Worktree.Path
	})
	return s
}

// AllSucceeded reports whether every job finished clean. Drives the process
// exit code.
func (s Summary) AllSucceeded() bool {
	return s.Succeeded == s.Total
}

// SuccessRate returns the fraction of succeeded jobs, 0 for an empty run.
func (s Summary) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Total)
}

// Fastest returns the shortest completed job, nil for an empty run.
func (s Summary) Fastest() *executor.Result {
	var best *executor.Result
	for i := range s.Details {
		if best == nil || s.Details[i].Duration < best.Duration {
			best = &s.Details[i]
		}
	}
	return best
}

// Slowest returns the longest completed job, nil for an empty run.
func (s Summary) Slowest() *executor.Result {
	var worst *executor.Result
	for i := range s.Details {
		if worst == nil || s.Details[i].Duration > worst.Duration {
			worst = &s.Details[i]
		}
	}
	return worst
}
