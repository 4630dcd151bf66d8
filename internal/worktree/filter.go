// pattern: Functional Core

package worktree

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// FilterByPattern keeps a worktree iff its path contains pattern verbatim,
// OR the pattern is a valid glob matching the path, OR its branch name
// contains pattern verbatim. An invalid glob aborts the whole call rather
// than silently degrading to substring matching.
//
// The three-way OR is deliberately broad: a pattern can match on branch name
// alone, which may pull in worktrees the caller did not have in mind.
func (m *Manager) FilterByPattern(worktrees []Worktree, pattern string) ([]Worktree, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, &WorktreeError{Reason: fmt.Sprintf("invalid pattern %q: %v", pattern, err)}
	}

	var kept []Worktree
	for _, wt := range worktrees {
		if strings.Contains(wt.Path, pattern) ||
			g.Match(wt.Path) ||
			(wt.Branch != "" && strings.Contains(wt.Branch, pattern)) {
			kept = append(kept, wt)
		}
	}
	return kept, nil
}
