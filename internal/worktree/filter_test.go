package worktree

import (
	"errors"
	"testing"
)

func sampleWorktrees() []Worktree {
	return []Worktree{
		{Path: "/src/api-server", Branch: "main"},
		{Path: "/src/web-client", Branch: "feature/auth"},
		{Path: "/src/tools/cli", Branch: ""},
	}
}

func TestFilterByPattern(t *testing.T) {
	m := NewManager(nil, nil, nil)

	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{"path substring", "api", []string{"/src/api-server"}},
		{"branch substring", "auth", []string{"/src/web-client"}},
		{"glob over path", "/src/*", []string{"/src/api-server", "/src/web-client", "/src/tools/cli"}},
		{"no match", "zzz", nil},
		{"detached branch ignored", "tools", []string{"/src/tools/cli"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.FilterByPattern(sampleWorktrees(), tt.pattern)
			if err != nil {
				t.Fatalf("FilterByPattern(%q): %v", tt.pattern, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("FilterByPattern(%q) kept %d, want %d", tt.pattern, len(got), len(tt.want))
			}
			for i, wt := range got {
				if wt.Path != tt.want[i] {
					t.Errorf("kept[%d] = %q, want %q", i, wt.Path, tt.want[i])
				}
			}
		})
	}
}

func TestFilterByPatternInvalidGlob(t *testing.T) {
	m := NewManager(nil, nil, nil)

	// "[" is a substring of nothing here, but the call must abort on the
	// invalid glob rather than degrade to substring-only matching.
	_, err := m.FilterByPattern(sampleWorktrees(), "[")
	if err == nil {
		t.Fatal("FilterByPattern accepted an invalid glob")
	}
	var wtErr *WorktreeError
	if !errors.As(err, &wtErr) {
		t.Errorf("error = %T, want *WorktreeError", err)
	}
}

func TestFilterByPatternIsPure(t *testing.T) {
	m := NewManager(nil, nil, nil)

	first, err := m.FilterByPattern(sampleWorktrees(), "feature")
	if err != nil {
		t.Fatal(err)
	}
	second, err := m.FilterByPattern(sampleWorktrees(), "feature")
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) {
		t.Fatalf("repeated call differs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("repeated call differs at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}
