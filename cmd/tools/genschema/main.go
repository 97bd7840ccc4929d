package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/isaacphi/mcp-ollama-link/internal/config"
)

func main() {
	var outFile string
	flag.StringVar(&outFile, "out", "mcp-ollama-link.schema.json", "Output file path")
	flag.Parse()

	if !filepath.IsAbs(outFile) {
		wd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
			os.Exit(1)
		}
		outFile = filepath.Join(wd, outFile)
	}

	schema, err := config.GenerateJSONSchema()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating schema: %v\n", err)
		os.Exit(1)
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling schema: %v\n", err)
		os.Exit(1)
	}

	dir := filepath.Dir(outFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating directory %s: %v\n", dir, err)
		os.Exit(1)
	}

	if err := os.WriteFile(outFile, append(data, '\n'), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing schema to %s: %v\n", outFile, err)
		os.Exit(1)
	}
	fmt.Printf("Schema written to %s\n", outFile)
}
