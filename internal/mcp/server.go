// Package mcp connects the tool handler to the Model Context Protocol: a stdio
// server for MCP clients and an inspector that drives other MCP servers.
package mcp

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/isaacphi/mcp-ollama-link/internal/domain"
	"github.com/isaacphi/mcp-ollama-link/internal/tool"
	mcp_golang "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport"
	"github.com/metoro-io/mcp-golang/transport/stdio"
	"github.com/pkg/errors"
)

// ToolHandler is the pair of callbacks the server needs: discovery and dispatch
type ToolHandler interface {
	Tools() ([]domain.Tool, error)
	Call(ctx context.Context, name string, arguments map[string]interface{}) *mcp_golang.ToolResponse
}

type Server struct {
	server *mcp_golang.Server
	tools  []domain.Tool
	logger *slog.Logger
}

// NewServer registers every tool the handler describes. Calls are dispatched
// with ctx, so cancelling it aborts in-flight inference requests.
func NewServer(ctx context.Context, handler ToolHandler, t transport.Transport, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	tools, err := handler.Tools()
	if err != nil {
		return nil, errors.Wrap(err, "failed to describe tools")
	}

	guard := &callGuard{
		Transport: t,
		ctx:       ctx,
		handler:   handler,
		known:     make(map[string]bool, len(tools)),
		logger:    logger,
	}
	for _, descriptor := range tools {
		guard.known[descriptor.Name] = true
	}

	server := mcp_golang.NewServer(guard)
	for _, descriptor := range tools {
		name := descriptor.Name
		err := server.RegisterTool(name, descriptor.Description, func(args tool.Arguments) (*mcp_golang.ToolResponse, error) {
			logger.Debug("tool call received", "tool", name)
			return handler.Call(ctx, name, args.Map()), nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to register tool %s", name)
		}
	}

	return &Server{
		server: server,
		tools:  tools,
		logger: logger,
	}, nil
}

// Serve starts answering requests and blocks until ctx is done
func (s *Server) Serve(ctx context.Context) error {
	if err := s.server.Serve(); err != nil {
		return errors.Wrap(err, "failed to start MCP server")
	}
	s.logger.Info("mcp server started", "tools", len(s.tools))

	<-ctx.Done()
	s.logger.Info("mcp server stopping")
	return nil
}

// NewStdioTransport serves over in and out. onEOF runs once when in is
// exhausted, which is how a client hanging up is observed.
func NewStdioTransport(in io.Reader, out io.Writer, onEOF func()) transport.Transport {
	return stdio.NewStdioServerTransportWithIO(&eofReader{r: in, onEOF: onEOF}, out)
}

type eofReader struct {
	r     io.Reader
	onEOF func()
	once  sync.Once
}

func (e *eofReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if err == io.EOF && e.onEOF != nil {
		e.once.Do(e.onEOF)
	}
	return n, err
}
