package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/isaacphi/mcp-ollama-link/internal/domain"
	"github.com/isaacphi/mcp-ollama-link/internal/tool"
	"github.com/metoro-io/mcp-golang/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoGenerator struct{}

func (echoGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	return model + ": " + prompt, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startPair wires a server and an inspector together over two pipes
func startPair(t *testing.T) *Inspector {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	clientToServerR, clientToServerW := io.Pipe()
	serverToClientR, serverToClientW := io.Pipe()
	t.Cleanup(func() {
		_ = clientToServerW.Close()
		_ = serverToClientW.Close()
	})

	handler := tool.NewHandler(echoGenerator{}, tool.Options{Logger: quietLogger()})
	server, err := NewServer(ctx, handler, NewStdioTransport(clientToServerR, serverToClientW, nil), quietLogger())
	require.NoError(t, err)

	go func() { _ = server.Serve(ctx) }()

	inspector, err := connect(ctx, serverToClientR, clientToServerW, quietLogger())
	require.NoError(t, err)
	return inspector
}

func TestServerRoundTrip(t *testing.T) {
	inspector := startPair(t)
	ctx := context.Background()

	tools, err := inspector.Tools(ctx)
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, tool.ToolName, tools[0].Name)
	assert.Contains(t, tools[0].Parameters.Properties, "query")
	assert.Contains(t, tools[0].Parameters.Properties, "context")
	assert.Contains(t, tools[0].Parameters.Properties, "model")

	texts, err := inspector.Call(ctx, tool.ToolName, map[string]interface{}{
		"query":   "q",
		"context": "c",
		"model":   "m",
	})
	require.NoError(t, err)
	require.Len(t, texts, 1)
	assert.Equal(t, `{"response":"m: Context: c\n\nQuery: q","context":"c","query":"q"}`, texts[0])

	texts, err = inspector.Call(ctx, tool.ToolName, map[string]interface{}{"query": "q"})
	require.NoError(t, err)
	require.Len(t, texts, 1)
	assert.Equal(t, `{"error":"Missing required arguments"}`, texts[0])
}

func TestServerRepliesWithEnvelopeOnBadCalls(t *testing.T) {
	inspector := startPair(t)
	ctx := context.Background()

	testCases := []struct {
		name string
		tool string
		args map[string]interface{}
		want string
	}{
		{
			name: "UnknownTool",
			tool: "query-llama",
			args: map[string]interface{}{"query": "q", "context": "c"},
			want: `{"error":"Unknown tool: query-llama"}`,
		},
		{
			name: "NullArguments",
			tool: tool.ToolName,
			args: nil,
			want: `{"error":"Missing arguments"}`,
		},
		{
			name: "EmptyArguments",
			tool: tool.ToolName,
			args: map[string]interface{}{},
			want: `{"error":"Missing arguments"}`,
		},
		{
			name: "NumericQuery",
			tool: tool.ToolName,
			args: map[string]interface{}{"query": 5, "context": "c", "model": "m"},
			want: `{"response":"m: Context: c\n\nQuery: 5","context":"c","query":"5"}`,
		},
		{
			name: "NullModel",
			tool: tool.ToolName,
			args: map[string]interface{}{"query": "q", "context": "c", "model": nil},
			want: `{"error":"Missing required arguments"}`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			texts, err := inspector.Call(ctx, tc.tool, tc.args)
			require.NoError(t, err)
			require.Len(t, texts, 1)
			assert.Equal(t, tc.want, texts[0])
		})
	}
}

func TestCallGuardIntercept(t *testing.T) {
	guard := &callGuard{known: map[string]bool{tool.ToolName: true}}

	testCases := []struct {
		name     string
		params   string
		wantName string
		wantArgs map[string]interface{}
		want     bool
	}{
		{name: "RegisteredObject", params: `{"name":"query-ollama","arguments":{"query":"q"}}`, want: false},
		{name: "Unregistered", params: `{"name":"other","arguments":{"query":"q"}}`, wantName: "other", wantArgs: map[string]interface{}{"query": "q"}, want: true},
		{name: "MissingArguments", params: `{"name":"query-ollama"}`, wantName: "query-ollama", want: true},
		{name: "NullArguments", params: `{"name":"query-ollama","arguments":null}`, wantName: "query-ollama", want: true},
		{name: "ScalarArguments", params: `{"name":"query-ollama","arguments":5}`, wantName: "query-ollama", want: true},
		{name: "ListArguments", params: `{"name":"query-ollama","arguments":["q"]}`, wantName: "query-ollama", want: true},
		{name: "UndecodableParams", params: `[]`, want: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := &transport.BaseJSONRPCRequest{Method: methodCallTool, Params: json.RawMessage(tc.params)}

			name, args, ok := guard.intercept(req)

			assert.Equal(t, tc.want, ok)
			if tc.want {
				assert.Equal(t, tc.wantName, name)
				assert.Equal(t, tc.wantArgs, args)
			}
		})
	}
}

func TestEOFReaderFiresOnce(t *testing.T) {
	var fired atomic.Int32
	r := &eofReader{r: strings.NewReader("abc"), onEOF: func() { fired.Add(1) }}

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(out))

	_, err = r.Read(make([]byte, 1))
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, int32(1), fired.Load())
}

func TestPrintTools(t *testing.T) {
	tools := []domain.Tool{
		{
			Name:        "zeta",
			Description: "last",
			Parameters: domain.Parameters{
				Type:       "object",
				Properties: map[string]domain.Property{"x": {Type: "string"}},
			},
		},
		{
			Name:        "alpha",
			Description: "first",
			Parameters: domain.Parameters{
				Type: "object",
				Properties: map[string]domain.Property{
					"query": {Type: "string", Description: "the question"},
					"model": {Type: "string", Default: "llama2"},
				},
				Required: []string{"query"},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, PrintTools(&buf, tools))
	out := buf.String()

	assert.Less(t, strings.Index(out, "alpha:"), strings.Index(out, "zeta:"))
	assert.Contains(t, out, "description: the question")
	assert.Contains(t, out, "required: true")
	assert.Contains(t, out, "default: llama2")
	assert.Equal(t, "zeta", tools[0].Name, "input slice must not be reordered")
}

func TestStartRequiresCommand(t *testing.T) {
	_, err := Start(context.Background(), "", nil, nil, quietLogger())
	assert.Error(t, err)
}
