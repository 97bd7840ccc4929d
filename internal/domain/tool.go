package domain

// Tool describes a callable tool as advertised to MCP clients
type Tool struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Parameters  Parameters `json:"parameters" yaml:"parameters"`
}

type Parameters struct {
	Type       string              `json:"type" yaml:"type" jsonschema:"enum=object,default=object"`
	Properties map[string]Property `json:"properties" yaml:"properties" jsonschema:"description=Properties of the parameter object"`
	Required   []string            `json:"required" yaml:"required" jsonschema:"description=List of required property names"`
}

type Property struct {
	Type        string      `json:"type" yaml:"type" jsonschema:"description=JSON Schema type of the property"`
	Description string      `json:"description" yaml:"description" jsonschema:"description=Description of what the property does"`
	Enum        []string    `json:"enum,omitempty" yaml:"enum,omitempty" jsonschema:"description=Allowed values for this property"`
	Default     interface{} `json:"default,omitempty" yaml:"default,omitempty" jsonschema:"description=Default value for this property"`
}

// IsRequired reports whether name is listed as a required parameter
func (p Parameters) IsRequired(name string) bool {
	for _, req := range p.Required {
		if req == name {
			return true
		}
	}
	return false
}
