// pattern: Imperative Shell
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"fanout/internal/prompts"
)

// RegisterPromptCommands adds the prompt management subcommands.
func RegisterPromptCommands(group *Group, configDir string) {
	group.AddCommand(&Command{
		Name:    "save",
		Summary: "Save a prompt (content from args or stdin)",
		Usage:   promptSaveUsage,
		Run: func(args []string) error {
			return runPromptSave(configDir, args)
		},
	})

	group.AddCommand(&Command{
		Name:    "list",
		Summary: "List stored prompts",
		Usage:   "Usage: fanout prompt list",
		Run: func(args []string) error {
			return runPromptList(configDir)
		},
	})

	group.AddCommand(&Command{
		Name:    "show",
		Summary: "Print one prompt's content",
		Usage:   "Usage: fanout prompt show <name>",
		Run: func(args []string) error {
			return runPromptShow(configDir, args)
		},
	})

	group.AddCommand(&Command{
		Name:    "delete",
		Summary: "Delete a stored prompt",
		Usage:   "Usage: fanout prompt delete <name>",
		Run: func(args []string) error {
			return runPromptDelete(configDir, args)
		},
	})
}

const promptSaveUsage = `Usage: fanout prompt save [flags] <name> [content...]

Saves a reusable prompt. Content comes from the remaining arguments, or from
stdin when none are given.

Flags:
      --description TEXT   one-line description
      --template           treat content as a Go text template
      --variable SPEC      declare a template variable as name[:default]
                           (repeatable; prefix name with ! to mark required)`

func runPromptSave(configDir string, args []string) error {
	fs := flag.NewFlagSet("prompt save", flag.ContinueOnError)
	description := fs.String("description", "", "prompt description")
	isTemplate := fs.Bool("template", false, "content is a template")
	varSpecs := fs.StringArray("variable", nil, "template variable declaration")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("prompt name required")
	}
	name := rest[0]

	content := strings.Join(rest[1:], " ")
	if content == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading content from stdin: %w", err)
		}
		content = strings.TrimSpace(string(data))
	}

	variables, err := parseVariableSpecs(*varSpecs)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	store := prompts.NewStore(cfg.PromptsDir)
	if err := store.Save(prompts.Prompt{
		Name:        name,
		Description: *description,
		Content:     content,
		IsTemplate:  *isTemplate,
		Variables:   variables,
	}); err != nil {
		return err
	}

	fmt.Printf("saved prompt %q\n", name)
	return nil
}

// parseVariableSpecs parses name[:default] declarations; a leading !
// marks the variable required.
func parseVariableSpecs(specs []string) ([]prompts.Variable, error) {
	var variables []prompts.Variable
	for _, spec := range specs {
		name, def, _ := strings.Cut(spec, ":")
		required := strings.HasPrefix(name, "!")
		name = strings.TrimPrefix(name, "!")
		if name == "" {
			return nil, fmt.Errorf("invalid variable spec %q", spec)
		}
		variables = append(variables, prompts.Variable{
			Name:     name,
			Default:  def,
			Required: required,
		})
	}
	return variables, nil
}

func runPromptList(configDir string) error {
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	store := prompts.NewStore(cfg.PromptsDir)
	stored, err := store.List()
	if err != nil {
		return err
	}
	if len(stored) == 0 {
		fmt.Println("no stored prompts")
		return nil
	}
	for _, p := range stored {
		marker := " "
		if p.IsTemplate {
			marker = "T"
		}
		fmt.Printf("%s %-20s %s\n", marker, p.Name, p.Description)
	}
	return nil
}

func runPromptShow(configDir string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("prompt name required")
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	p, err := prompts.NewStore(cfg.PromptsDir).Load(args[0])
	if err != nil {
		return err
	}
	if p.Description != "" {
		fmt.Printf("# %s\n", p.Description)
	}
	for _, v := range p.Variables {
		req := ""
		if v.Required {
			req = " (required)"
		}
		fmt.Printf("# var %s%s default=%q\n", v.Name, req, v.Default)
	}
	fmt.Println(p.Content)
	return nil
}

func runPromptDelete(configDir string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("prompt name required")
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	if err := prompts.NewStore(cfg.PromptsDir).Delete(args[0]); err != nil {
		return err
	}
	fmt.Printf("deleted prompt %q\n", args[0])
	return nil
}
