package config

const envPrefix = "MCP_OLLAMA_LINK"

// envVarConfig defines an environment variable mapping
type envVarConfig struct {
	key      string // Key in the config
	envVar   string // Environment variable name
	isSecret bool   // Whether to redact in logs
}

// Environment variables to load in addition to the MCP_OLLAMA_LINK_* prefix
var envVars = []envVarConfig{
	{key: "ollama.baseURL", envVar: "OLLAMA_HOST"},
	// Add more env vars here as needed
}
