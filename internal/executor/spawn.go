// pattern: Imperative Shell

package executor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"

	"fanout/internal/logging"
	"fanout/internal/terminal"
)

// AgentRunner spawns the agent binary inside the job's worktree, feeding the
// instruction on stdin and capturing combined output. With Stream set, output
// is additionally mirrored to stdout line by line, tagged with the worktree
// name, through a pty so the agent keeps its interactive output behavior.
type AgentRunner struct {
	Binary string
	Args   []string
	Stream bool

	logger *logging.ScopedLogger
	out    io.Writer // stream destination, stdout unless overridden in tests
	mu     sync.Mutex
}

func NewAgentRunner(binary string, args []string, stream bool, logger *logging.ScopedLogger) *AgentRunner {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &AgentRunner{Binary: binary, Args: args, Stream: stream, logger: logger, out: os.Stdout}
}

func (r *AgentRunner) Run(ctx context.Context, job Job) Result {
	start := time.Now()

	cmd := exec.CommandContext(ctx, r.Binary, r.Args...)
	cmd.Dir = job.Worktree.Path
	cmd.Stdin = strings.NewReader(job.Instruction)

	var output string
	var err error
	if r.Stream {
		output, err = r.runStreaming(cmd, job.Worktree.Name())
	} else {
		var raw []byte
		raw, err = cmd.CombinedOutput()
		output = string(raw)
	}

	duration := time.Since(start)
	status, exitCode, cause := classify(ctx, err)
	return Result{
		Worktree: job.Worktree,
		Status:   status,
		ExitCode: exitCode,
		Output:   output,
		Duration: duration,
		Err:      cause,
	}
}

// runStreaming runs the command under a pty, echoing each output line with
// a [name] prefix while accumulating the full transcript.
func (r *AgentRunner) runStreaming(cmd *exec.Cmd, name string) (string, error) {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return "", err
	}
	defer ptmx.Close()

	var transcript strings.Builder
	scanner := bufio.NewScanner(ptmx)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		transcript.WriteString(line)
		transcript.WriteByte('\n')

		r.mu.Lock()
		fmt.Fprintf(r.out, "[%s] %s\n", name, line)
		r.mu.Unlock()
	}
	// A read error here is the pty closing on process exit; Wait carries
	// the real verdict.
	return transcript.String(), cmd.Wait()
}

// WindowRunner hands each job to a terminal launcher, one dedicated window
// per worktree, and waits for the window's command to exit. Output stays in
// the window; results carry only status and exit code.
type WindowRunner struct {
	Binary   string
	Args     []string
	launcher terminal.Launcher
}

func NewWindowRunner(binary string, args []string, launcher terminal.Launcher) *WindowRunner {
	return &WindowRunner{Binary: binary, Args: args, launcher: launcher}
}

func (r *WindowRunner) Run(ctx context.Context, job Job) Result {
	start := time.Now()

	argv := append([]string{r.Binary}, r.Args...)
	session, err := r.launcher.Launch(ctx, job.Worktree.Path, job.Worktree.Name(), argv, job.Instruction)
	if err != nil {
		return Result{
			Worktree: job.Worktree,
			Status:   Error,
			ExitCode: -1,
			Duration: time.Since(start),
			Err:      err,
		}
	}

	exitCode, waitErr := r.launcher.Wait(session)
	duration := time.Since(start)

	if ctx.Err() == context.DeadlineExceeded {
		return Result{Worktree: job.Worktree, Status: TimedOut, ExitCode: -1, Duration: duration}
	}
	if waitErr != nil {
		return Result{Worktree: job.Worktree, Status: Error, ExitCode: -1, Duration: duration, Err: waitErr}
	}

	status := Succeeded
	if exitCode != 0 {
		status = Failed
	}
	return Result{Worktree: job.Worktree, Status: status, ExitCode: exitCode, Duration: duration}
}

// classify maps a command error to a result status. The deadline check runs
// first: a killed process reports a generic exit error, and the context is
// what distinguishes a timeout from an ordinary failure.
func classify(ctx context.Context, err error) (Status, int, error) {
	if ctx.Err() == context.DeadlineExceeded {
		return TimedOut, -1, nil
	}
	if err == nil {
		return Succeeded, 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Failed, exitErr.ExitCode(), nil
	}
	return Error, -1, err
}
