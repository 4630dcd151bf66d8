// pattern: Functional Core

package prompts

import (
	"fmt"
	"strings"
	"text/template"
)

// Render expands a prompt's content with the given variables. Non-template
// prompts pass through untouched. Declared defaults fill missing values;
// a required variable with no value and no default aborts before any job
// is built.
func Render(p Prompt, vars map[string]string) (string, error) {
	if !p.IsTemplate {
		return p.Content, nil
	}

	merged := make(map[string]string, len(vars))
	for _, v := range p.Variables {
		if v.Default != "" {
			merged[v.Name] = v.Default
		}
	}
	for k, v := range vars {
		merged[k] = v
	}

	var missing []string
	for _, v := range p.Variables {
		if v.Required && merged[v.Name] == "" {
			missing = append(missing, v.Name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("prompt %q missing required variables: %s", p.Name, strings.Join(missing, ", "))
	}

	tmpl, err := template.New(p.Name).Option("missingkey=error").Parse(p.Content)
	if err != nil {
		return "", fmt.Errorf("parsing prompt %q: %w", p.Name, err)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, merged); err != nil {
		return "", fmt.Errorf("rendering prompt %q: %w", p.Name, err)
	}
	return b.String(), nil
}

// ParseVars converts repeated key=value flag values into a variable map.
func ParseVars(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid variable %q, want key=value", pair)
		}
		vars[key] = value
	}
	return vars, nil
}
