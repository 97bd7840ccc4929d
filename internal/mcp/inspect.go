package mcp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"sync"

	"github.com/isaacphi/mcp-ollama-link/internal/domain"
	mcp_golang "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport/stdio"
	"github.com/pkg/errors"
)

// Inspector launches an MCP server as a child process and talks to it over
// its stdio. It is used to check a server from the command line.
type Inspector struct {
	client *mcp_golang.Client
	cmd    *exec.Cmd
	logger *slog.Logger
	mu     sync.Mutex
}

// Start runs command with args and env added to the current environment,
// then performs the MCP initialize handshake
func Start(ctx context.Context, command string, args []string, env map[string]string, logger *slog.Logger) (*Inspector, error) {
	if command == "" {
		return nil, errors.New("no server command given")
	}
	if logger == nil {
		logger = slog.Default()
	}

	cmd := exec.Command(command, args...)
	cmd.Env = os.Environ()
	for k, v := range env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get stdin pipe")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get stdout pipe")
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrap(err, "failed to start server")
	}

	inspector, err := connect(ctx, stdout, stdin, logger)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, err
	}
	inspector.cmd = cmd
	logger.Debug("inspector connected", "command", command, "pid", cmd.Process.Pid)
	return inspector, nil
}

// connect initializes a client over an existing pair of streams
func connect(ctx context.Context, in io.Reader, out io.Writer, logger *slog.Logger) (*Inspector, error) {
	client := mcp_golang.NewClient(stdio.NewStdioServerTransportWithIO(in, out))
	if _, err := client.Initialize(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to initialize client")
	}
	return &Inspector{client: client, logger: logger}, nil
}

// Tools lists every tool the server advertises, following pagination cursors
func (i *Inspector) Tools(ctx context.Context) ([]domain.Tool, error) {
	var tools []domain.Tool
	var cursor *string
	for {
		response, err := i.client.ListTools(ctx, cursor)
		if err != nil {
			return nil, errors.Wrap(err, "failed to list tools")
		}

		for _, t := range response.Tools {
			description := ""
			if t.Description != nil {
				description = *t.Description
			}
			var params domain.Parameters
			if schema, ok := t.InputSchema.(map[string]interface{}); ok {
				params = domain.ParseParameters(schema)
			}
			tools = append(tools, domain.Tool{
				Name:        t.Name,
				Description: description,
				Parameters:  params,
			})
		}

		if response.NextCursor == nil || *response.NextCursor == "" {
			break
		}
		cursor = response.NextCursor
	}

	sort.Slice(tools, func(a, b int) bool { return tools[a].Name < tools[b].Name })
	return tools, nil
}

// Call invokes a tool and returns the text of its content blocks
func (i *Inspector) Call(ctx context.Context, name string, arguments map[string]interface{}) ([]string, error) {
	response, err := i.client.CallTool(ctx, name, arguments)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to call tool %s", name)
	}
	if response == nil {
		return nil, nil
	}

	var texts []string
	for _, content := range response.Content {
		if content != nil && content.TextContent != nil {
			texts = append(texts, content.TextContent.Text)
		}
	}
	return texts, nil
}

// Shutdown kills the child process, if one was started
func (i *Inspector) Shutdown() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.cmd == nil || i.cmd.Process == nil {
		return
	}
	if err := i.cmd.Process.Kill(); err != nil {
		i.logger.Warn("failed to kill server", "error", err)
	}
	_ = i.cmd.Wait()
	i.cmd = nil
}
