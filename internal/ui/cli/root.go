package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/isaacphi/mcp-ollama-link/internal/appState"
	"github.com/isaacphi/mcp-ollama-link/internal/config"
	"github.com/isaacphi/mcp-ollama-link/internal/ui/cli/call"
	"github.com/isaacphi/mcp-ollama-link/internal/ui/cli/chat"
	configCmd "github.com/isaacphi/mcp-ollama-link/internal/ui/cli/config"
	"github.com/isaacphi/mcp-ollama-link/internal/ui/cli/inspect"
	"github.com/isaacphi/mcp-ollama-link/internal/ui/cli/models"
	"github.com/isaacphi/mcp-ollama-link/internal/ui/cli/serve"
	"github.com/isaacphi/mcp-ollama-link/internal/ui/cli/tools"
	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logFile   string
	ollamaURL string
	model     string
	timeout   string
)

var rootCmd = &cobra.Command{
	Use:   "mcp-ollama-link",
	Short: "Expose a local Ollama server as an MCP tool",
	Long: `An MCP server offering the query-ollama tool, which sends context and a query
to a local Ollama model. With no subcommand it serves MCP on stdin/stdout.`,
	DisableAutoGenTag: true,
	Args:              cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve.Run(cmd)
	},
}

func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up the root command to use this context
	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// overridesFromFlags only sets the fields whose flags were given
func overridesFromFlags(cmd *cobra.Command) (*config.RuntimeOverrides, error) {
	overrides := &config.RuntimeOverrides{}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		overrides.LogLevel = &logLevel
	}
	if flags.Changed("log-file") {
		overrides.LogFile = &logFile
	}
	if flags.Changed("ollama-url") {
		overrides.BaseURL = &ollamaURL
	}
	if flags.Changed("model") {
		overrides.DefaultModel = &model
	}
	if flags.Changed("timeout") {
		d, err := config.ParseTimeout(timeout)
		if err != nil {
			return nil, err
		}
		overrides.Timeout = &d
	}
	return overrides, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set logging level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path (defaults to stderr)")
	rootCmd.PersistentFlags().StringVar(&ollamaURL, "ollama-url", "", "Ollama server base URL")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "Default model for tool calls that name none")
	rootCmd.PersistentFlags().StringVar(&timeout, "timeout", "", "Generation timeout, as seconds or a duration like 90s")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		overrides, err := overridesFromFlags(cmd)
		if err != nil {
			return err
		}
		return appState.Initialize(overrides)
	}

	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return appState.Cleanup()
	}

	// Remove "completions" command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(
		serve.ServeCmd,
		call.CallCmd,
		tools.ToolsCmd,
		chat.ChatCmd,
		models.ModelsCmd,
		configCmd.ConfigCmd,
		inspect.InspectCmd,
	)
}
