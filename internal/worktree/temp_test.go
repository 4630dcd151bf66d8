package worktree

import (
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// gitCmd runs git in dir, failing the test on error.
func gitCmd(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
}

func TestTemporaryWorktreeLifecycle(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not on PATH")
	}

	root := t.TempDir()
	mainRepo := filepath.Join(root, "main")
	gitCmd(t, root, "init", mainRepo)
	gitCmd(t, mainRepo, "config", "user.email", "test@localhost")
	gitCmd(t, mainRepo, "config", "user.name", "test")
	gitCmd(t, mainRepo, "commit", "--allow-empty", "-m", "init")
	gitCmd(t, mainRepo, "branch", "-M", "main")

	m := NewManager([]string{root}, nil, nil)

	wt, err := m.CreateTemporary("main")
	if err != nil {
		t.Fatalf("CreateTemporary: %v", err)
	}
	if !wt.IsTemporary() {
		t.Errorf("created worktree %q not recognized as temporary", wt.Path)
	}
	if !strings.HasPrefix(wt.Branch, TempPrefix) {
		t.Errorf("branch = %q, want %s prefix", wt.Branch, TempPrefix)
	}
	if filepath.Dir(wt.Path) != root {
		t.Errorf("worktree created at %q, want sibling of %q", wt.Path, mainRepo)
	}

	// The temp worktree is a valid checkout in its own right.
	if _, err := m.Validate(wt.Path); err != nil {
		t.Errorf("Validate on temp worktree: %v", err)
	}

	if err := m.CleanupTemporary(wt); err != nil {
		t.Fatalf("CleanupTemporary: %v", err)
	}

	// Second removal fails: git no longer knows the worktree.
	if err := m.CleanupTemporary(wt); err == nil {
		t.Error("second CleanupTemporary succeeded, want error")
	}
}
