// pattern: Imperative Shell

package worktree

import (
	"os"
	"path/filepath"
	"strings"
)

// Discover walks every configured search root and returns all validated
// worktrees found. The exclude check runs before any repository open, so a
// matched pattern prunes the whole subtree at directory-walk cost. A matched
// repository root is not descended into: nested repositories (vendored
// checkouts, submodule-like layouts) belong to their parent.
// Validation failures are skipped, never fatal.
func (m *Manager) Discover() []Worktree {
	var found []Worktree
	seen := make(map[string]bool)

	for _, root := range m.searchPaths {
		if _, err := os.Stat(root); err != nil {
			continue // unreadable or missing root, skip
		}

		// Explicit worklist instead of recursion: search roots can sit on
		// top of very deep trees.
		stack := []string{root}
		for len(stack) > 0 {
			dir := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if m.excluded(dir) {
				continue
			}

			resolved, err := filepath.EvalSymlinks(dir)
			if err != nil {
				resolved = dir
			}
			if seen[resolved] {
				continue
			}
			seen[resolved] = true

			if isRepoRoot(dir) {
				wt, err := m.Validate(dir)
				if err != nil {
					m.logger.Debug("skipping candidate", "path", dir, "error", err)
					continue
				}
				found = append(found, wt)
				continue // do not descend past a matched root
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				continue
			}
			// Push in reverse so the stack pops in lexical order.
			for i := len(entries) - 1; i >= 0; i-- {
				entry := entries[i]
				if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
					continue
				}
				stack = append(stack, filepath.Join(dir, entry.Name()))
			}
		}
	}

	return found
}

// FromDirectories validates an explicit candidate list. Entries failing
// validation are dropped; the result may be shorter than the input.
func (m *Manager) FromDirectories(paths []string) []Worktree {
	var found []Worktree
	for _, path := range paths {
		wt, err := m.Validate(path)
		if err != nil {
			m.logger.Debug("dropping directory", "path", path, "error", err)
			continue
		}
		found = append(found, wt)
	}
	return found
}

// findMainRepository returns the first non-temporary repository directly
// under any search root. Used as the host repository for temporary worktrees.
func (m *Manager) findMainRepository() (string, error) {
	for _, root := range m.searchPaths {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			path := filepath.Join(root, entry.Name())
			if hasTempPrefix(path) {
				continue
			}
			if isRepoRoot(path) {
				return path, nil
			}
		}
	}
	return "", &WorktreeError{Reason: "no git repository found under search paths"}
}

// isRepoRoot checks for the repository marker. A .git directory marks a
// main checkout; a .git file marks a linked worktree.
func isRepoRoot(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}
