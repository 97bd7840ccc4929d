package call

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/isaacphi/mcp-ollama-link/internal/appState"
	"github.com/isaacphi/mcp-ollama-link/internal/shared"
	"github.com/isaacphi/mcp-ollama-link/internal/tool"
	"github.com/spf13/cobra"
)

var (
	query      string
	contextArg string

	CallCmd = &cobra.Command{
		Use:   "call [tool] [json-arguments]",
		Short: "Invoke a tool once without an MCP client",
		Long: `Run one tool call locally and print the reply JSON.
Arguments come from a JSON object, from flags, or both. Flags win.
The --model flag sets the default used when the arguments name no model.
E.g. mcp-ollama-link call query-ollama '{"query": "why?", "context": "the sky is blue"}'`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := tool.ToolName
			if len(args) > 0 {
				name = args[0]
			}

			arguments := map[string]interface{}{}
			if len(args) > 1 {
				dec := json.NewDecoder(strings.NewReader(args[1]))
				if err := dec.Decode(&arguments); err != nil {
					return fmt.Errorf("invalid JSON arguments: %w", err)
				}
				if arguments == nil {
					arguments = map[string]interface{}{}
				}
			}
			if cmd.Flags().Changed("query") {
				arguments["query"] = query
			}
			if cmd.Flags().Changed("context") {
				arguments["context"] = contextArg
			}

			handler := shared.InitializeToolHandler(appState.Get())
			resp := handler.Call(cmd.Context(), name, arguments)

			fmt.Fprintln(cmd.OutOrStdout(), tool.ResponseText(resp))
			return nil
		},
	}
)

func init() {
	CallCmd.Flags().StringVarP(&query, "query", "q", "", "Query argument")
	CallCmd.Flags().StringVarP(&contextArg, "context", "c", "", "Context argument")
}
