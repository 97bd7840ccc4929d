package tools

import (
	"github.com/isaacphi/mcp-ollama-link/internal/appState"
	"github.com/isaacphi/mcp-ollama-link/internal/mcp"
	"github.com/isaacphi/mcp-ollama-link/internal/shared"
	"github.com/spf13/cobra"
)

var ToolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Display the tools this server advertises",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tools, err := shared.InitializeToolHandler(appState.Get()).Tools()
		if err != nil {
			return err
		}
		return mcp.PrintTools(cmd.OutOrStdout(), tools)
	},
}
