package tool

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/isaacphi/mcp-ollama-link/internal/domain"
)

const (
	ToolName        = "query-ollama"
	toolDescription = "Query a local Ollama model. The prompt sent to the model is the context followed by the query."
)

// Descriptor builds the query-ollama tool metadata. The parameter schema is
// reflected from Arguments, the same type the MCP server registers.
func Descriptor(defaultModel string, knownModels []string) (domain.Tool, error) {
	params, err := reflectParameters(&Arguments{})
	if err != nil {
		return domain.Tool{}, err
	}

	if model, ok := params.Properties["model"]; ok {
		model.Default = defaultModel
		model.Description = modelDescription(defaultModel, knownModels)
		params.Properties["model"] = model
	}

	return domain.Tool{
		Name:        ToolName,
		Description: toolDescription,
		Parameters:  params,
	}, nil
}

func modelDescription(defaultModel string, knownModels []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The Ollama model to use for the query (default: %s)", defaultModel)
	if len(knownModels) > 0 {
		fmt.Fprintf(&b, ". Available models: %s", strings.Join(knownModels, ", "))
	}
	return b.String()
}

func reflectParameters(v interface{}) (domain.Parameters, error) {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	schema := r.Reflect(v)

	raw, err := json.Marshal(schema)
	if err != nil {
		return domain.Parameters{}, fmt.Errorf("failed to encode argument schema: %w", err)
	}
	var schemaMap map[string]interface{}
	if err := json.Unmarshal(raw, &schemaMap); err != nil {
		return domain.Parameters{}, fmt.Errorf("failed to decode argument schema: %w", err)
	}

	return domain.ParseParameters(schemaMap), nil
}
