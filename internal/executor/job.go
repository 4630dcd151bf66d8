// pattern: Functional Core

package executor

import (
	"context"
	"fmt"
	"time"

	"fanout/internal/worktree"
)

// Status classifies how a job ended.
type Status int

const (
	Succeeded Status = iota // agent exited zero
	Failed                  // agent exited non-zero
	TimedOut                // killed at the per-job deadline
	Error                   // never ran: spawn or setup failure
)

func (s Status) String() string {
	switch s {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case TimedOut:
		return "timed_out"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Job pairs one worktree with the instruction to run inside it. A non-zero
// Timeout overrides the pool's default deadline for this job only.
type Job struct {
	Worktree    worktree.Worktree
	Instruction string
	Timeout     time.Duration
}

// Result records one finished job. Every job handed to a worker produces
// exactly one Result; jobs skipped by an early stop produce none.
type Result struct {
	Worktree worktree.Worktree
	Status   Status
	ExitCode int
	Output   string
	Duration time.Duration
	Err      error // spawn/setup cause when Status is Error
}

// Runner executes one job to completion, honoring ctx cancellation and
// deadline. Implementations must return, never panic, on any failure.
type Runner interface {
	Run(ctx context.Context, job Job) Result
}

// ConfigError reports an invalid pool configuration, detected before any
// job is started.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return e.Reason }
