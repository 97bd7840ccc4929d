package models

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/isaacphi/mcp-ollama-link/internal/appState"
	"github.com/ollama/ollama/api"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var ModelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Show the Ollama server version and its local models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appState.Get().Config.Ollama

		base, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return fmt.Errorf("invalid ollama base URL: %w", err)
		}
		client := api.NewClient(base, &http.Client{Timeout: cfg.Timeout})

		var (
			version string
			list    *api.ListResponse
		)
		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error {
			v, err := client.Version(ctx)
			if err != nil {
				return fmt.Errorf("failed to get server version: %w", err)
			}
			version = v
			return nil
		})
		g.Go(func() error {
			l, err := client.List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list models: %w", err)
			}
			list = l
			return nil
		})
		if err := g.Wait(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ollama %s at %s\n", version, cfg.BaseURL)

		sort.Slice(list.Models, func(i, j int) bool { return list.Models[i].Name < list.Models[j].Name })
		for _, m := range list.Models {
			marker := " "
			if m.Name == cfg.DefaultModel {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %-32s %8.1f GB  %s\n", marker, m.Name, float64(m.Size)/1e9, m.Details.ParameterSize)
		}
		return nil
	},
}
