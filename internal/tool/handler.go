// Package tool implements the query-ollama tool: argument validation, prompt
// composition, the inference call, and the JSON reply envelope.
package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/isaacphi/mcp-ollama-link/internal/domain"
	"github.com/isaacphi/mcp-ollama-link/internal/ollama"
	"github.com/isaacphi/mcp-ollama-link/internal/prompt"
	mcp_golang "github.com/metoro-io/mcp-golang"
)

const (
	msgMissingArguments         = "Missing arguments"
	msgMissingRequiredArguments = "Missing required arguments"
)

// Generator runs one prompt-completion round trip. *ollama.Client implements it.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

type Options struct {
	DefaultModel string
	KnownModels  []string
	Logger       *slog.Logger
}

// Handler serves query-ollama calls. It holds no per-call state, so one
// Handler may serve any number of concurrent calls.
type Handler struct {
	generator    Generator
	defaultModel string
	knownModels  []string
	validate     *validator.Validate
	logger       *slog.Logger
}

func NewHandler(generator Generator, opts Options) *Handler {
	h := &Handler{
		generator:    generator,
		defaultModel: opts.DefaultModel,
		knownModels:  opts.KnownModels,
		validate:     validator.New(),
		logger:       opts.Logger,
	}
	if h.defaultModel == "" {
		h.defaultModel = DefaultModel
	}
	if h.knownModels == nil {
		h.knownModels = KnownModels
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h
}

// Tools lists the descriptors of every tool this handler answers
func (h *Handler) Tools() ([]domain.Tool, error) {
	descriptor, err := Descriptor(h.defaultModel, h.knownModels)
	if err != nil {
		return nil, err
	}
	return []domain.Tool{descriptor}, nil
}

type reply struct {
	Response string `json:"response"`
	Context  string `json:"context"`
	Query    string `json:"query"`
}

type errorReply struct {
	Error string `json:"error"`
}

// Call dispatches one tool invocation. Every outcome, including a panic,
// comes back as a single text block holding a JSON object.
func (h *Handler) Call(ctx context.Context, name string, arguments map[string]interface{}) (resp *mcp_golang.ToolResponse) {
	logger := h.logger.With("request_id", uuid.NewString(), "tool", name)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("tool call panicked", "panic", r, "stack", string(debug.Stack()))
			resp = errorResponse(fmt.Sprint(r))
		}
	}()

	if name != ToolName {
		logger.Info("unknown tool requested")
		return errorResponse(fmt.Sprintf("Unknown tool: %s", name))
	}

	if len(arguments) == 0 {
		logger.Info("tool call without arguments")
		return errorResponse(msgMissingArguments)
	}

	inv := invocation{
		Query:   stringArg(arguments["query"]),
		Context: stringArg(arguments["context"]),
		Model:   h.defaultModel,
	}
	// The default only fills an absent model; a present one must still be truthy
	if raw, ok := arguments["model"]; ok {
		inv.Model = stringArg(raw)
	}
	if err := h.validate.Struct(inv); err != nil {
		logger.Info("tool call missing required arguments", "error", err)
		return errorResponse(msgMissingRequiredArguments)
	}

	logger = logger.With("model", inv.Model)
	logger.Debug("querying ollama")

	text, err := h.generator.Generate(ctx, inv.Model, prompt.Compose(inv.Context, inv.Query))
	if err != nil {
		logger.Warn("inference failed", "error", err, "kind", ollama.KindOf(err).String())
		return errorResponse(err.Error())
	}

	return jsonResponse(reply{
		Response: text,
		Context:  inv.Context,
		Query:    inv.Query,
	})
}

func errorResponse(message string) *mcp_golang.ToolResponse {
	return jsonResponse(errorReply{Error: message})
}

func jsonResponse(v interface{}) *mcp_golang.ToolResponse {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return errorResponse(err.Error())
	}
	return mcp_golang.NewToolResponse(mcp_golang.NewTextContent(string(bytes.TrimRight(buf.Bytes(), "\n"))))
}

// ResponseText extracts the JSON payload of a response built by Call
func ResponseText(resp *mcp_golang.ToolResponse) string {
	if resp == nil || len(resp.Content) == 0 || resp.Content[0].TextContent == nil {
		return ""
	}
	return resp.Content[0].TextContent.Text
}
