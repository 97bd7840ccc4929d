package config

import (
	"fmt"

	"github.com/isaacphi/mcp-ollama-link/internal/appState"
	"github.com/isaacphi/mcp-ollama-link/internal/config"
	"github.com/spf13/cobra"
)

var (
	includeSources bool

	ConfigCmd = &cobra.Command{
		Use:   "config [prefix]",
		Short: "View configuration",
		Long:  "Read configuration. If prefix is included, only show configuration under that path. E.g. mcp-ollama-link config ollama",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := appState.Get().Config

			prefix := ""
			if len(args) > 0 {
				prefix = args[0]
				if !config.IsKnownKey(config.GetKnownKeys(), prefix) {
					return fmt.Errorf("unknown configuration key: %s", prefix)
				}
			}

			cfg.PrintConfig(cmd.OutOrStdout(), includeSources, prefix)
			return nil
		},
	}
)

func init() {
	ConfigCmd.Flags().BoolVarP(&includeSources, "include-sources", "s", false, "Show source file for each configuration value")
}
