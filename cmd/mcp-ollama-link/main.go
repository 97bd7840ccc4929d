package main

import "github.com/isaacphi/mcp-ollama-link/internal/ui/cli"

func main() {
	cli.Execute()
}
