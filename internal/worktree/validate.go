// pattern: Imperative Shell

package worktree

import (
	"path/filepath"

	git "github.com/go-git/go-git/v5"
)

// Validate opens path as a repository and resolves the fields a Worktree
// carries: current branch (empty when detached), a clean/dirty flag from one
// status pass, and the default fetch remote's URL (empty when unset).
// All repository reads go through go-git; no git subprocess is spawned here.
func (m *Manager) Validate(path string) (Worktree, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	repo, err := git.PlainOpen(abs)
	if err != nil {
		return Worktree{}, &GitError{Path: abs, Op: "open", Err: err}
	}

	// Detached HEAD and unborn branches both yield an empty branch name.
	branch := ""
	if head, err := repo.Head(); err == nil && head.Name().IsBranch() {
		branch = head.Name().Short()
	}

	wt, err := repo.Worktree()
	if err != nil {
		return Worktree{}, &GitError{Path: abs, Op: "worktree", Err: err}
	}

	// Preload keeps the status pass proportional to changed paths rather
	// than walking the object store per file.
	status, err := wt.StatusWithOptions(git.StatusOptions{Strategy: git.Preload})
	if err != nil {
		return Worktree{}, &GitError{Path: abs, Op: "status", Err: err}
	}

	// origin preferred, else whatever remote is configured first.
	remoteURL := ""
	if remote, err := repo.Remote(git.DefaultRemoteName); err == nil {
		if urls := remote.Config().URLs; len(urls) > 0 {
			remoteURL = urls[0]
		}
	} else if remotes, err := repo.Remotes(); err == nil && len(remotes) > 0 {
		if urls := remotes[0].Config().URLs; len(urls) > 0 {
			remoteURL = urls[0]
		}
	}

	return Worktree{
		Path:      abs,
		Branch:    branch,
		Clean:     status.IsClean(),
		RemoteURL: remoteURL,
	}, nil
}
