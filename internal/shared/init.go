// Package shared builds the services the CLI commands have in common
package shared

import (
	"github.com/isaacphi/mcp-ollama-link/internal/appState"
	"github.com/isaacphi/mcp-ollama-link/internal/llm"
	"github.com/isaacphi/mcp-ollama-link/internal/ollama"
	"github.com/isaacphi/mcp-ollama-link/internal/tool"
)

// NewOllamaClient builds the inference client from the loaded configuration
func NewOllamaClient(app *appState.App) *ollama.Client {
	cfg := app.Config.Ollama
	return ollama.New(ollama.Options{
		BaseURL:      cfg.BaseURL,
		Timeout:      cfg.Timeout,
		ProbeTimeout: cfg.ProbeTimeout,
		Logger:       app.Logger.With("component", "ollama"),
	})
}

// InitializeToolHandler wires the query-ollama handler to a fresh client
func InitializeToolHandler(app *appState.App) *tool.Handler {
	return tool.NewHandler(NewOllamaClient(app), tool.Options{
		DefaultModel: app.Config.Ollama.DefaultModel,
		KnownModels:  app.Config.Ollama.KnownModels,
		Logger:       app.Logger.With("component", "tool"),
	})
}

// InitializeChat builds the streaming chat for modelOverride, or the
// configured chat model when it is empty
func InitializeChat(app *appState.App, modelOverride string) (*llm.Chat, error) {
	model := app.Config.Ollama.ChatModel
	if modelOverride != "" {
		model = modelOverride
	}
	return llm.NewChat(llm.ChatOptions{
		BaseURL:     app.Config.Ollama.BaseURL,
		Model:       model,
		Temperature: app.Config.Ollama.ChatTemperature,
	})
}
