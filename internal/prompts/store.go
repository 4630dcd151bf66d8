// pattern: Imperative Shell

package prompts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Variable declares a template placeholder a prompt expects.
type Variable struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Default     string `yaml:"default,omitempty"`
	Required    bool   `yaml:"required,omitempty"`
}

// Prompt is one reusable instruction, stored as a YAML file named after it.
type Prompt struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Content     string     `yaml:"content"`
	IsTemplate  bool       `yaml:"is_template,omitempty"`
	Variables   []Variable `yaml:"variables,omitempty"`
}

// Store persists prompts as individual YAML files in one directory.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save writes the prompt, overwriting any existing one with the same name.
func (s *Store) Save(p Prompt) error {
	if err := validateName(p.Name); err != nil {
		return err
	}
	if p.Content == "" {
		return fmt.Errorf("prompt %q has no content", p.Name)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating prompts directory: %w", err)
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding prompt %q: %w", p.Name, err)
	}
	if err := os.WriteFile(s.path(p.Name), data, 0644); err != nil {
		return fmt.Errorf("writing prompt %q: %w", p.Name, err)
	}
	return nil
}

// Load reads one prompt by name.
func (s *Store) Load(name string) (Prompt, error) {
	if err := validateName(name); err != nil {
		return Prompt{}, err
	}
	data, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return Prompt{}, fmt.Errorf("prompt %q not found", name)
	}
	if err != nil {
		return Prompt{}, fmt.Errorf("reading prompt %q: %w", name, err)
	}

	var p Prompt
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Prompt{}, fmt.Errorf("parsing prompt %q: %w", name, err)
	}
	if p.Name == "" {
		p.Name = name
	}
	return p, nil
}

// List returns all stored prompts sorted by name. A missing directory is an
// empty store, not an error.
func (s *Store) List() ([]Prompt, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading prompts directory: %w", err)
	}

	var prompts []Prompt
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".yaml")
		p, err := s.Load(name)
		if err != nil {
			continue
		}
		prompts = append(prompts, p)
	}

	sort.Slice(prompts, func(i, j int) bool { return prompts[i].Name < prompts[j].Name })
	return prompts, nil
}

// Delete removes a stored prompt. Deleting a missing prompt is an error so
// typos surface instead of silently succeeding.
func (s *Store) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := os.Remove(s.path(name)); os.IsNotExist(err) {
		return fmt.Errorf("prompt %q not found", name)
	} else if err != nil {
		return fmt.Errorf("deleting prompt %q: %w", name, err)
	}
	return nil
}

// Exists reports whether a prompt with this name is stored.
func (s *Store) Exists(name string) bool {
	if validateName(name) != nil {
		return false
	}
	_, err := os.Stat(s.path(name))
	return err == nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".yaml")
}

// validateName keeps prompt names usable as file names and rejects path
// traversal.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("prompt name is empty")
	}
	if strings.ContainsAny(name, "/\\") || name != filepath.Base(name) {
		return fmt.Errorf("invalid prompt name %q", name)
	}
	return nil
}
