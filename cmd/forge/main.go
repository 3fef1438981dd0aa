// Forge scaffolds full-stack web applications from natural-language
// descriptions.
//
// The pipeline extracts a feature list from the description, refines it
// interactively, generates a project specification, and drives a
// code-editing agent through phased implementation of that spec.
//
// Usage:
//
//	# Full pipeline: describe, refine, generate, implement
//	forge new "a recipe sharing site with ratings"
//
//	# Stop after spec generation
//	forge spec "a recipe sharing site with ratings"
//
//	# Implement a previously generated spec
//	forge implement specs/recipe_sharing_spec.json --dir ./recipe-app
//
// Configuration is loaded from ~/.config/forge/config.yaml with FORGE_*
// environment overrides. See internal/config for details.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
