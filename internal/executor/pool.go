// pattern: Imperative Shell

package executor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"fanout/internal/logging"
)

// PoolConfig sizes and bounds a Pool.
type PoolConfig struct {
	Limit             int           // concurrent workers, >= 1
	Timeout           time.Duration // per-job deadline, 0 = none
	ContinueOnFailure bool          // keep dispatching after a failed job
}

// Pool fans jobs out across a fixed set of workers. Jobs are dispatched in
// input order; at most Limit run at once.
type Pool struct {
	cfg    PoolConfig
	runner Runner
	logger *logging.ScopedLogger
}

// NewPool validates the configuration up front so a bad setting surfaces
// before any worktree is touched.
func NewPool(cfg PoolConfig, runner Runner, logger *logging.ScopedLogger) (*Pool, error) {
	if cfg.Limit < 1 {
		return nil, &ConfigError{Reason: "concurrency limit must be at least 1"}
	}
	if runner == nil {
		return nil, &ConfigError{Reason: "no runner configured"}
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Pool{cfg: cfg, runner: runner, logger: logger}, nil
}

// Execute runs all jobs and blocks until every started job has finished.
// When ContinueOnFailure is false, the first Failed or TimedOut result stops
// dispatch: already-running jobs complete and report, unstarted jobs are
// dropped without a Result. Spawn failures (Error) are recorded as data and
// never stop the batch. The returned slice order follows completion, not
// input; callers sort for presentation.
func (p *Pool) Execute(ctx context.Context, jobs []Job) []Result {
	if len(jobs) == 0 {
		return nil
	}

	queue := make(chan Job, len(jobs))
	for _, job := range jobs {
		queue <- job
	}
	close(queue)

	var (
		mu      sync.Mutex
		results []Result
		stopped atomic.Bool
		wg      sync.WaitGroup
	)

	p.logger.Info("starting job pool", "jobs", len(jobs), "limit", p.cfg.Limit, "timeout", p.cfg.Timeout)

	for i := 0; i < p.cfg.Limit; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range queue {
				if stopped.Load() || ctx.Err() != nil {
					return
				}

				result := p.runOne(ctx, job)

				mu.Lock()
				results = append(results, result)
				mu.Unlock()

				if (result.Status == Failed || result.Status == TimedOut) && !p.cfg.ContinueOnFailure {
					if stopped.CompareAndSwap(false, true) {
						p.logger.Warn("stopping after failure",
							"worktree", job.Worktree.Name(), "status", result.Status.String())
					}
					return
				}
			}
		}()
	}

	wg.Wait()
	return results
}

func (p *Pool) runOne(ctx context.Context, job Job) Result {
	timeout := p.cfg.Timeout
	if job.Timeout > 0 {
		timeout = job.Timeout
	}
	jobCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	p.logger.Info("job started", "worktree", job.Worktree.Name())
	result := p.runner.Run(jobCtx, job)
	p.logger.Info("job finished",
		"worktree", job.Worktree.Name(),
		"status", result.Status.String(),
		"exit_code", result.ExitCode,
		"duration", result.Duration)
	return result
}
