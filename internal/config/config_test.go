package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("OLLAMA_HOST", "")
	t.Setenv("MCP_OLLAMA_LINK_OLLAMA_BASEURL", "")
	t.Setenv("MCP_OLLAMA_LINK_OLLAMA_DEFAULTMODEL", "")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Ollama.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Ollama.ProbeTimeout)
	assert.Equal(t, "deepseek-r1:8b", cfg.Ollama.DefaultModel)
	assert.Contains(t, cfg.Ollama.KnownModels, "llama3.2")
	assert.Equal(t, "mcp-ollama-link", cfg.Server.Name)
	assert.Equal(t, "INFO", cfg.Log.LogLevel)
	assert.Equal(t, "llama2", cfg.Ollama.ChatModel)
	assert.Zero(t, cfg.Ollama.ChatTemperature)
}

func TestLoadChatTemperature(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "chat.yaml", "ollama: {chatTemperature: 0.4}")

	cfg, err := load(nil, []string{dir})
	require.NoError(t, err)
	assert.InDelta(t, 0.4, cfg.Ollama.ChatTemperature, 1e-9)
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	global := filepath.Join(root, "global")
	local := filepath.Join(root, "local")

	writeFile(t, global, "ollama.yaml", `
ollama:
  baseURL: http://global:11434
  defaultModel: llama3.2
  knownModels: [qwen2.5]
`)
	writeFile(t, local, "ollama.json", `{"ollama": {"defaultModel": "phi3", "knownModels": ["phi3", "qwen2.5"]}}`)
	writeFile(t, local, "ignored.txt", `ollama: {defaultModel: nope}`)

	cfg, err := load(nil, []string{global, local})
	require.NoError(t, err)

	assert.Equal(t, "http://global:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, "phi3", cfg.Ollama.DefaultModel)

	// Lists combine across layers without duplicates
	assert.Equal(t, "deepseek-r1:32b", cfg.Ollama.KnownModels[0])
	assert.Equal(t, []string{"qwen2.5", "phi3"}, cfg.Ollama.KnownModels[len(cfg.Ollama.KnownModels)-2:])

	// Environment beats files
	t.Setenv("OLLAMA_HOST", "127.0.0.1:9999")
	cfg, err = load(nil, []string{global, local})
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9999", cfg.Ollama.BaseURL)

	// Flags beat environment
	url := "http://flag:1/"
	model := "llava"
	cfg, err = load(&RuntimeOverrides{BaseURL: &url, DefaultModel: &model}, []string{global, local})
	require.NoError(t, err)
	assert.Equal(t, "http://flag:1", cfg.Ollama.BaseURL)
	assert.Equal(t, "llava", cfg.Ollama.DefaultModel)
}

func TestTimeoutOverrideClampsProbe(t *testing.T) {
	clearEnv(t)
	timeout := 2 * time.Second

	cfg, err := load(&RuntimeOverrides{Timeout: &timeout}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Ollama.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Ollama.ProbeTimeout)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	testCases := []struct {
		name    string
		content string
	}{
		{name: "ProbeLongerThanTimeout", content: "ollama: {timeout: 1s, probeTimeout: 2s}"},
		{name: "ZeroTimeout", content: "ollama: {timeout: 0s}"},
		{name: "BadLogLevel", content: "log: {level: LOUD}"},
		{name: "EmptyModel", content: `ollama: {defaultModel: ""}`},
		{name: "NegativeTemperature", content: "ollama: {chatTemperature: -1}"},
		{name: "HotTemperature", content: "ollama: {chatTemperature: 3}"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "bad.yaml", tc.content)

			_, err := load(nil, []string{dir})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation error")
		})
	}
}

func TestPrintConfig(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "ollama: {defaultModel: phi3}")

	cfg, err := load(nil, []string{dir})
	require.NoError(t, err)

	var out strings.Builder
	cfg.PrintConfig(&out, true, "ollama.defaultModel")
	got := out.String()

	assert.Contains(t, got, "ollama:\n")
	assert.Contains(t, got, "  defaultModel: phi3 # ("+filepath.Join(dir, "a.yaml")+")")
	assert.NotContains(t, got, "server:")
	assert.NotContains(t, got, "baseURL")

	out.Reset()
	cfg.PrintConfig(&out, true, "")
	assert.Contains(t, out.String(), "baseURL: http://localhost:11434 # (default)")
	assert.Contains(t, out.String(), "timeout: 30s")
}

func TestEmptyEnvIsNotASource(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "ollama: {defaultModel: phi3}")

	cfg, err := load(nil, []string{dir})
	require.NoError(t, err)
	assert.Equal(t, "phi3", cfg.Ollama.DefaultModel)

	var out strings.Builder
	cfg.PrintConfig(&out, true, "ollama")
	assert.NotContains(t, out.String(), "environment variable")

	t.Setenv("MCP_OLLAMA_LINK_OLLAMA_DEFAULTMODEL", "llava")
	cfg, err = load(nil, []string{dir})
	require.NoError(t, err)
	assert.Equal(t, "llava", cfg.Ollama.DefaultModel)

	out.Reset()
	cfg.PrintConfig(&out, true, "ollama.defaultModel")
	assert.Contains(t, out.String(), "MCP_OLLAMA_LINK_OLLAMA_DEFAULTMODEL environment variable")
}

func TestKnownKeys(t *testing.T) {
	known := GetKnownKeys()

	assert.True(t, IsKnownKey(known, "ollama"))
	assert.True(t, IsKnownKey(known, "ollama.baseURL"))
	assert.True(t, IsKnownKey(known, "log.level"))
	assert.False(t, IsKnownKey(known, "ollama.apiKey"))
}

func TestParseTimeout(t *testing.T) {
	testCases := []struct {
		raw     string
		want    time.Duration
		wantErr bool
	}{
		{raw: "30", want: 30 * time.Second},
		{raw: "2.5", want: 2500 * time.Millisecond},
		{raw: "90s", want: 90 * time.Second},
		{raw: " 1m ", want: time.Minute},
		{raw: "0", wantErr: true},
		{raw: "-5s", wantErr: true},
		{raw: "soon", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := ParseTimeout(tc.raw)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
