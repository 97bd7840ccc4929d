package config

import "time"

type Ollama struct {
	BaseURL         string        `mapstructure:"baseURL" json:"baseURL" validate:"required,url" jsonschema:"description=Base URL of the Ollama server,default=http://localhost:11434"`
	Timeout         time.Duration `mapstructure:"timeout" json:"timeout" validate:"gt=0" jsonschema:"type=string,description=Budget for a single generation request,default=30s"`
	ProbeTimeout    time.Duration `mapstructure:"probeTimeout" json:"probeTimeout" validate:"gt=0,ltefield=Timeout" jsonschema:"type=string,description=Budget for the liveness probe; must not exceed timeout,default=5s"`
	DefaultModel    string        `mapstructure:"defaultModel" json:"defaultModel" validate:"required" jsonschema:"description=Model used when a tool call does not name one,default=deepseek-r1:8b"`
	KnownModels     []string      `mapstructure:"knownModels" json:"knownModels" jsonschema:"description=Models listed in the tool description. Not validated against"`
	ChatModel       string        `mapstructure:"chatModel" json:"chatModel" validate:"required" jsonschema:"description=Model used by the chat command,default=llama2"`
	// 0 leaves the temperature to the model
	ChatTemperature float64       `mapstructure:"chatTemperature" json:"chatTemperature" validate:"gte=0,lte=2" jsonschema:"description=Sampling temperature for the chat command. 0 uses the model's own setting,default=0"`
}

type Server struct {
	Name    string `mapstructure:"name" json:"name" validate:"required" jsonschema:"description=MCP server name,default=mcp-ollama-link"`
	Version string `mapstructure:"version" json:"version" validate:"required" jsonschema:"description=MCP server version,default=0.1.0"`
}

type Log struct {
	LogLevel string `mapstructure:"level" json:"level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR" jsonschema:"enum=DEBUG,enum=INFO,enum=WARN,enum=ERROR,default=INFO"`
	LogFile  string `mapstructure:"file" json:"file" jsonschema:"description=Log file path. Empty logs to stderr"`
}

type ConfigSchema struct {
	Ollama Ollama `mapstructure:"ollama" json:"ollama"`
	Server Server `mapstructure:"server" json:"server"`
	Log    Log    `mapstructure:"log" json:"log"`

	// Internal fields for printing
	sources map[string][]configSource
}
