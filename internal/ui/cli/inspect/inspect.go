package inspect

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/isaacphi/mcp-ollama-link/internal/appState"
	"github.com/isaacphi/mcp-ollama-link/internal/mcp"
	"github.com/spf13/cobra"
)

var (
	callTool string
	callArgs string
	env      map[string]string

	InspectCmd = &cobra.Command{
		Use:   "inspect -- command [args...]",
		Short: "Start an MCP server and display its tools",
		Long: `Launch any stdio MCP server, list the tools it advertises and optionally call one.
E.g. mcp-ollama-link inspect --call query-ollama --args '{"query":"hi","context":"none"}' -- mcp-ollama-link serve`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := appState.Get().Logger.With("component", "inspect")

			inspector, err := mcp.Start(cmd.Context(), args[0], args[1:], env, logger)
			if err != nil {
				return fmt.Errorf("failed to start MCP server: %w", err)
			}
			defer inspector.Shutdown()

			tools, err := inspector.Tools(cmd.Context())
			if err != nil {
				return err
			}
			if err := mcp.PrintTools(cmd.OutOrStdout(), tools); err != nil {
				return err
			}

			if callTool == "" {
				return nil
			}

			arguments := map[string]interface{}{}
			if callArgs != "" {
				if err := json.NewDecoder(strings.NewReader(callArgs)).Decode(&arguments); err != nil {
					return fmt.Errorf("invalid JSON arguments: %w", err)
				}
			}

			texts, err := inspector.Call(cmd.Context(), callTool, arguments)
			if err != nil {
				return err
			}
			for _, text := range texts {
				fmt.Fprintln(cmd.OutOrStdout(), text)
			}
			return nil
		},
	}
)

func init() {
	InspectCmd.Flags().StringVar(&callTool, "call", "", "Tool to call after listing")
	InspectCmd.Flags().StringVar(&callArgs, "args", "", "JSON object of arguments for --call")
	InspectCmd.Flags().StringToStringVarP(&env, "env", "e", nil, "Extra environment variables for the server (KEY=VALUE)")
}
