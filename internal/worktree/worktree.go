// pattern: Functional Core

package worktree

import (
	"fmt"
	"path/filepath"

	"github.com/gobwas/glob"

	"fanout/internal/logging"
)

// TempPrefix marks worktrees created by CreateTemporary. Discovered user
// checkouts never carry it, which is what makes CleanupTemporary's guard safe.
const TempPrefix = "fanout-tmp-"

// Worktree is a validated, independently checked-out working directory.
type Worktree struct {
	Path      string // absolute path, unique key
	Branch    string // empty when HEAD is detached
	Clean     bool   // no divergence between index/worktree and HEAD
	RemoteURL string // default fetch remote, empty when unset
}

// Name returns the directory base name, used for display and output files.
func (w Worktree) Name() string {
	return filepath.Base(w.Path)
}

// IsTemporary reports whether the worktree was created by CreateTemporary.
func (w Worktree) IsTemporary() bool {
	return hasTempPrefix(w.Path)
}

func hasTempPrefix(path string) bool {
	base := filepath.Base(path)
	return len(base) >= len(TempPrefix) && base[:len(TempPrefix)] == TempPrefix
}

// GitError wraps a repository open/read/command failure. Non-fatal during
// discovery (the candidate is skipped), fatal for temp lifecycle callers.
type GitError struct {
	Path string
	Op   string
	Err  error
}

func (e *GitError) Error() string {
	return fmt.Sprintf("git %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *GitError) Unwrap() error { return e.Err }

// WorktreeError covers non-git failures: invalid glob pattern, guard
// violation on cleanup, no worktrees found.
type WorktreeError struct {
	Reason string
}

func (e *WorktreeError) Error() string { return e.Reason }

// Manager discovers and validates worktrees and owns the temporary
// worktree lifecycle.
type Manager struct {
	searchPaths []string
	excludes    []glob.Glob
	logger      *logging.ScopedLogger
}

// NewManager builds a manager from configured search roots and exclude
// patterns. Invalid exclude globs are skipped with a warning; an invalid
// setting should not disable discovery wholesale.
func NewManager(searchPaths, excludePatterns []string, logger *logging.ScopedLogger) *Manager {
	if logger == nil {
		logger = logging.NopLogger()
	}

	m := &Manager{
		searchPaths: searchPaths,
		logger:      logger,
	}
	for _, pattern := range excludePatterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			logger.Warn("skipping invalid exclude pattern", "pattern", pattern, "error", err)
			continue
		}
		m.excludes = append(m.excludes, g)
	}
	return m
}

// excluded reports whether any exclude pattern matches the full path string.
func (m *Manager) excluded(path string) bool {
	for _, g := range m.excludes {
		if g.Match(path) {
			return true
		}
	}
	return false
}
