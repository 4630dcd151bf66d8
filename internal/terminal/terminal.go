// pattern: Imperative Shell

package terminal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"fanout/internal/logging"
)

// Session tracks one launched terminal window until Wait reclaims it.
type Session struct {
	cmd    *exec.Cmd
	script string
}

// Launcher opens a dedicated terminal window running a command in a working
// directory, feeding it a block of input on stdin. Wait blocks until the
// window's command exits and returns its exit code.
type Launcher interface {
	Launch(ctx context.Context, cwd, title string, argv []string, input string) (*Session, error)
	Wait(s *Session) (int, error)
}

// Ghostty launches windows through the ghostty binary. Each Launch writes a
// throwaway shell script so the window carries the working directory, the
// heredoc input, and an optional hold-open prompt in one place.
type Ghostty struct {
	binary           string
	waitAfterCommand bool
	logger           *logging.ScopedLogger
}

// NewGhostty verifies the binary is reachable before anything is launched.
func NewGhostty(binary string, waitAfterCommand bool, logger *logging.ScopedLogger) (*Ghostty, error) {
	if binary == "" {
		binary = "ghostty"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return nil, fmt.Errorf("terminal binary %q not found: %w", binary, err)
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Ghostty{binary: binary, waitAfterCommand: waitAfterCommand, logger: logger}, nil
}

func (g *Ghostty) Launch(ctx context.Context, cwd, title string, argv []string, input string) (*Session, error) {
	script, err := writeScript(cwd, argv, input, g.waitAfterCommand)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, g.binary, "--title="+title, "-e", script)
	if err := cmd.Start(); err != nil {
		os.Remove(script)
		return nil, fmt.Errorf("launching %s: %w", g.binary, err)
	}

	g.logger.Info("opened terminal window", "title", title, "cwd", cwd)
	return &Session{cmd: cmd, script: script}, nil
}

func (g *Ghostty) Wait(s *Session) (int, error) {
	defer os.Remove(s.script)

	err := s.cmd.Wait()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// writeScript renders the window payload. The heredoc delimiter is chosen
// so instruction text containing quotes or EOF lines passes through intact.
func writeScript(cwd string, argv []string, input string, hold bool) (string, error) {
	f, err := os.CreateTemp("", "fanout-window-*.sh")
	if err != nil {
		return "", fmt.Errorf("creating window script: %w", err)
	}

	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	fmt.Fprintf(&b, "cd %s || exit 1\n", shellQuote(cwd))
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		quoted[i] = shellQuote(arg)
	}
	fmt.Fprintf(&b, "%s <<'FANOUT_INPUT'\n%s\nFANOUT_INPUT\n", strings.Join(quoted, " "), input)
	b.WriteString("status=$?\n")
	if hold {
		b.WriteString("printf 'press enter to close: '\nread _\n")
	}
	b.WriteString("exit $status\n")

	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("writing window script: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	if err := os.Chmod(f.Name(), 0700); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// shellQuote wraps s in single quotes, escaping embedded single quotes.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
