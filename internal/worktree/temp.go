// pattern: Imperative Shell

package worktree

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// CreateTemporary checks out a scratch worktree rooted at baseBranch, as a
// sibling of the first repository found under the search roots. The branch
// and directory name carry TempPrefix plus a random token, so the result is
// distinguishable from any discovered user checkout.
//
// Concurrent CreateTemporary/CleanupTemporary calls against the same host
// repository mutate shared git metadata; callers must not overlap them.
func (m *Manager) CreateTemporary(baseBranch string) (Worktree, error) {
	mainRepo, err := m.findMainRepository()
	if err != nil {
		return Worktree{}, err
	}

	name := TempPrefix + uuid.NewString()[:8]
	path := filepath.Join(filepath.Dir(mainRepo), name)

	if _, err := runGit(mainRepo, "worktree", "add", "-b", name, path, baseBranch); err != nil {
		return Worktree{}, &GitError{Path: mainRepo, Op: "worktree add", Err: err}
	}

	m.logger.Info("created temporary worktree", "path", path, "base", baseBranch)
	return m.Validate(path)
}

// CleanupTemporary removes a worktree previously returned by CreateTemporary.
// It refuses outright, before any git command is issued, when the path lacks
// the reserved prefix: that guard is what keeps a mistaken call from
// destroying a real user checkout. Removing the same path twice fails on the
// second call because git no longer knows the worktree.
func (m *Manager) CleanupTemporary(wt Worktree) error {
	if !hasTempPrefix(wt.Path) {
		return &WorktreeError{Reason: fmt.Sprintf("%s is not a temporary worktree", wt.Path)}
	}

	mainRepo, err := m.findMainRepository()
	if err != nil {
		return err
	}

	if _, err := runGit(mainRepo, "worktree", "remove", "--force", wt.Path); err != nil {
		return &GitError{Path: wt.Path, Op: "worktree remove", Err: err}
	}

	m.logger.Info("removed temporary worktree", "path", wt.Path)
	return nil
}

// runGit executes a git command in dir, returning combined output. Lifecycle
// operations go through the git CLI; go-git's worktree support does not cover
// add/remove of linked worktrees.
func runGit(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", strings.Join(args, " "), strings.TrimSpace(string(output)), err)
	}
	return string(output), nil
}
