package serve

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/isaacphi/mcp-ollama-link/internal/appState"
	"github.com/isaacphi/mcp-ollama-link/internal/mcp"
	"github.com/isaacphi/mcp-ollama-link/internal/shared"
	"github.com/spf13/cobra"
)

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the query-ollama tool over MCP stdio",
	Long:  "Run an MCP server on stdin/stdout. The server exits when stdin closes or on SIGINT/SIGTERM.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd)
	},
}

// Run is shared with the root command, which serves when given no subcommand
func Run(cmd *cobra.Command) error {
	app := appState.Get()
	logger := app.Logger.With(
		"server", app.Config.Server.Name,
		"version", app.Config.Server.Version,
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := shared.InitializeToolHandler(app)
	transport := mcp.NewStdioTransport(os.Stdin, os.Stdout, func() {
		logger.Info("stdin closed")
		stop()
	})

	server, err := mcp.NewServer(ctx, handler, transport, logger)
	if err != nil {
		return err
	}

	logger.Info("serving", "ollama", app.Config.Ollama.BaseURL, "default_model", app.Config.Ollama.DefaultModel)
	return server.Serve(ctx)
}
