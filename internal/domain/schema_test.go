package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParameters(t *testing.T) {
	raw := `{
		"type": "object",
		"required": ["query", "mode"],
		"properties": {
			"query": {"type": "string", "description": "what to ask"},
			"mode": {"type": "string", "enum": ["fast", "slow"], "default": "fast"},
			"ignored": "not an object"
		}
	}`
	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &schema))

	params := ParseParameters(schema)

	assert.Equal(t, "object", params.Type)
	assert.Equal(t, []string{"query", "mode"}, params.Required)
	assert.True(t, params.IsRequired("mode"))
	assert.False(t, params.IsRequired("ignored"))
	require.Len(t, params.Properties, 2)
	assert.Equal(t, Property{Type: "string", Description: "what to ask"}, params.Properties["query"])
	assert.Equal(t, []string{"fast", "slow"}, params.Properties["mode"].Enum)
	assert.Equal(t, "fast", params.Properties["mode"].Default)
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "timeout", ErrorKindTimeout.String())
	assert.True(t, ErrorKindUnreachable.Upstream())
	assert.False(t, ErrorKindStatus.Upstream())
}
