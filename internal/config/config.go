package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

/*
Config System Design:
This configuration system implements a hierarchical config with the following precedence
(highest to lowest priority):

1. Runtime overrides (CLI flags)
2. Environment variables (MCP_OLLAMA_LINK_* and OLLAMA_HOST)
3. Local project config (.mcp-ollama-link/*.{yaml,yml,json})
4. Global user config ($XDG_CONFIG_HOME/mcp-ollama-link/*.{yaml,yml,json})
5. Default values (embedded defaults.yaml)

The system supports:
- Multiple config files in each directory, merged alphabetically
- Automatic merging of lists (they combine)
- Deep merging of maps
- Override of scalar values
- Tracking of where each config value originated
- Validation of the final config

Example:
If you have these files:
~/.config/mcp-ollama-link/models.yaml:  { ollama: { knownModels: ["qwen2.5"] } }
./.mcp-ollama-link/models.yaml:         { ollama: { knownModels: ["phi3"] } }
The result will be the default list followed by qwen2.5 and phi3.
*/

const appName = "mcp-ollama-link"

//go:embed defaults.yaml
var defaultsYAML []byte

type configSource struct {
	value  interface{}
	source string
}

// loader holds the viper instance while the layers are assembled
type loader struct {
	v       *viper.Viper
	sources map[string][]configSource
}

// New loads, merges and validates the configuration
func New(overrides *RuntimeOverrides) (*ConfigSchema, error) {
	return load(overrides, searchDirs())
}

func load(overrides *RuntimeOverrides, dirs []string) (*ConfigSchema, error) {
	l := &loader{
		v:       viper.New(),
		sources: make(map[string][]configSource),
	}

	// Load defaults first
	if err := l.loadDefaults(); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	// Load configs in order: global then local
	if err := l.loadConfigs(dirs); err != nil {
		return nil, err
	}

	// Set up env vars
	l.v.SetEnvPrefix(envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()
	for _, env := range envVars {
		if err := l.v.BindEnv(env.key, env.envVar); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", env.envVar, err)
		}
	}
	l.trackEnv()

	var cfg ConfigSchema
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.sources = l.sources
	cfg.applyOverrides(overrides)
	cfg.Ollama.BaseURL = normalizeBaseURL(cfg.Ollama.BaseURL)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// searchDirs returns the global and local config directories, in load order
func searchDirs() []string {
	var dirs []string

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		if home, err := os.UserHomeDir(); err == nil {
			xdgConfig = filepath.Join(home, ".config")
		}
	}
	if xdgConfig != "" {
		dirs = append(dirs, filepath.Join(xdgConfig, appName))
	}

	return append(dirs, "."+appName)
}

// findConfigFiles returns all *.{yaml,yml,json} files in a directory
func findConfigFiles(dir string) ([]string, error) {
	var files []string
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".yaml") ||
			strings.HasSuffix(name, ".yml") ||
			strings.HasSuffix(name, ".json") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	return files, nil
}

// loadDefaults loads the default configuration from the embedded defaults file
func (l *loader) loadDefaults() error {
	l.v.SetConfigType("yaml")
	if err := l.v.ReadConfig(bytes.NewReader(defaultsYAML)); err != nil {
		return fmt.Errorf("could not read defaults: %w", err)
	}
	return nil
}

func (l *loader) loadConfigs(dirs []string) error {
	merged := l.v.AllSettings()

	for _, dir := range dirs {
		files, err := findConfigFiles(dir)
		if err != nil && !os.IsNotExist(err) {
			return err
		}

		for _, f := range files {
			v := viper.New()
			v.SetConfigFile(f)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("error reading config file %s: %w", f, err)
			}

			settings := v.AllSettings()
			l.trackSources("", settings, f)
			merged = mergeMapRecursive(merged, settings)
		}
	}

	if err := l.v.MergeConfigMap(merged); err != nil {
		return fmt.Errorf("error merging config: %w", err)
	}
	return nil
}

func mergeMapRecursive(existing, new map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})

	// Copy existing map
	for k, v := range existing {
		result[k] = v
	}

	// Merge new map
	for k, v := range new {
		if existing[k] == nil {
			result[k] = v
			continue
		}

		switch existingVal := existing[k].(type) {
		case map[string]interface{}:
			if newVal, ok := v.(map[string]interface{}); ok {
				result[k] = mergeMapRecursive(existingVal, newVal)
			} else {
				result[k] = v
			}
		case []interface{}:
			if newVal, ok := v.([]interface{}); ok {
				result[k] = appendUnique(existingVal, newVal)
			} else {
				result[k] = v
			}
		default:
			result[k] = v
		}
	}

	return result
}

func appendUnique(existing, extra []interface{}) []interface{} {
	seen := make(map[interface{}]bool)
	combined := make([]interface{}, 0, len(existing)+len(extra))
	for _, list := range [][]interface{}{existing, extra} {
		for _, v := range list {
			if !seen[v] {
				seen[v] = true
				combined = append(combined, v)
			}
		}
	}
	return combined
}

func (l *loader) trackSources(prefix string, settings map[string]interface{}, filename string) {
	for key, value := range settings {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok {
			l.trackSources(fullKey, nested, filename)
			continue
		}
		l.sources[fullKey] = append(l.sources[fullKey], configSource{
			value:  value,
			source: filename,
		})
	}
}

// trackEnv records env vars as sources. Empty vars are skipped, as viper
// ignores them too.
func (l *loader) trackEnv() {
	for _, key := range l.v.AllKeys() {
		envVar := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if val := os.Getenv(envVar); val != "" {
			l.sources[key] = append(l.sources[key], configSource{
				value:  val,
				source: fmt.Sprintf("%s environment variable", envVar),
			})
		}
	}
	for _, env := range envVars {
		if val := os.Getenv(env.envVar); val != "" {
			displayVal := interface{}(val)
			if env.isSecret {
				displayVal = "[REDACTED]"
			}
			key := strings.ToLower(env.key)
			l.sources[key] = append(l.sources[key], configSource{
				value:  displayVal,
				source: fmt.Sprintf("%s environment variable", env.envVar),
			})
		}
	}
}

func (cfg *ConfigSchema) track(key string, value interface{}, source string) {
	if cfg.sources == nil {
		cfg.sources = make(map[string][]configSource)
	}
	cfg.sources[key] = append(cfg.sources[key], configSource{value: value, source: source})
}

// normalizeBaseURL accepts the host:port form OLLAMA_HOST commonly carries
func normalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	return strings.TrimRight(raw, "/")
}

// Validate validates the configuration against the schema
func (cfg *ConfigSchema) Validate() error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}
	return nil
}
