package main

import (
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/forge/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the intent and spec pipeline as MCP tools over stdio",
	Long: `Expose the non-interactive pipeline stages (intent extraction, spec
generation, spec reading) as Model Context Protocol tools over stdio,
so agent hosts can drive them directly.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	if err := a.buildRegistry(ctx); err != nil {
		return err
	}

	srv := mcpserver.NewServer(version,
		a.registry.Intents(),
		a.registry.Generator(),
		a.registry.SpecStore())
	return srv.Run(ctx)
}
