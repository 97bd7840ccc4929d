package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	mcp_golang "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport"
)

const methodCallTool = "tools/call"

// callGuard answers the tools/call requests that mcp-golang cannot decode
// into tool.Arguments: unregistered tool names, and arguments that are
// missing, null or not an object. Those go straight to the handler so the
// reply is still the handler's JSON envelope. Everything else passes through.
type callGuard struct {
	transport.Transport

	ctx     context.Context
	handler ToolHandler
	known   map[string]bool
	logger  *slog.Logger
}

type callParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type callResult struct {
	Content []*mcp_golang.Content `json:"content"`
	IsError bool                  `json:"isError"`
}

func (g *callGuard) SetMessageHandler(next func(ctx context.Context, message *transport.BaseJsonRpcMessage)) {
	g.Transport.SetMessageHandler(func(ctx context.Context, message *transport.BaseJsonRpcMessage) {
		req := message.JsonRpcRequest
		if message.Type == transport.BaseMessageTypeJSONRPCRequestType && req != nil && req.Method == methodCallTool {
			if name, args, ok := g.intercept(req); ok {
				go g.answer(ctx, req.Id, name, args)
				return
			}
		}
		next(ctx, message)
	})
}

// intercept reports whether req must bypass mcp-golang, along with the
// decoded name and arguments. Non-object arguments decode to nil.
func (g *callGuard) intercept(req *transport.BaseJSONRPCRequest) (string, map[string]interface{}, bool) {
	var params callParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return "", nil, false
	}

	var args map[string]interface{}
	if err := json.Unmarshal(params.Arguments, &args); err != nil {
		args = nil
	}

	if !g.known[params.Name] || args == nil {
		return params.Name, args, true
	}
	return "", nil, false
}

func (g *callGuard) answer(ctx context.Context, id transport.RequestId, name string, args map[string]interface{}) {
	logger := g.logger.With("tool", name, "rpc_id", id)
	logger.Debug("tool call answered outside mcp-golang")

	resp := g.handler.Call(g.ctx, name, args)
	result, err := json.Marshal(callResult{Content: resp.Content})
	if err != nil {
		logger.Error("failed to encode tool result", "error", err)
		return
	}

	msg := transport.NewBaseMessageResponse(&transport.BaseJSONRPCResponse{
		Jsonrpc: "2.0",
		Id:      id,
		Result:  result,
	})
	if err := g.Transport.Send(ctx, msg); err != nil {
		logger.Warn("failed to send tool result", "error", err)
	}
}
