package mcp

import (
	"fmt"
	"io"
	"sort"

	"github.com/isaacphi/mcp-ollama-link/internal/domain"
	"gopkg.in/yaml.v3"
)

type printedProperty struct {
	Type        string      `yaml:"type"`
	Description string      `yaml:"description,omitempty"`
	Required    bool        `yaml:"required,omitempty"`
	Enum        []string    `yaml:"enum,omitempty"`
	Default     interface{} `yaml:"default,omitempty"`
}

type printedTool struct {
	Description string                     `yaml:"description"`
	Parameters  map[string]printedProperty `yaml:"parameters"`
}

// PrintTools writes tools as YAML keyed by tool name, sorted for stable output
func PrintTools(w io.Writer, tools []domain.Tool) error {
	sorted := make([]domain.Tool, len(tools))
	copy(sorted, tools)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	for _, t := range sorted {
		printed := printedTool{
			Description: t.Description,
			Parameters:  make(map[string]printedProperty, len(t.Parameters.Properties)),
		}
		for name, prop := range t.Parameters.Properties {
			printed.Parameters[name] = printedProperty{
				Type:        prop.Type,
				Description: prop.Description,
				Required:    t.Parameters.IsRequired(name),
				Enum:        prop.Enum,
				Default:     prop.Default,
			}
		}

		out, err := yaml.Marshal(map[string]printedTool{t.Name: printed})
		if err != nil {
			return fmt.Errorf("failed to encode tool %s: %w", t.Name, err)
		}
		if _, err := w.Write(out); err != nil {
			return err
		}
	}
	return nil
}
