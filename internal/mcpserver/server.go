// Package mcpserver exposes the non-interactive pipeline stages as MCP
// tools over stdio, so agent hosts can extract intents and generate specs
// without the console flow.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fyrsmithlabs/forge/internal/intent"
	"github.com/fyrsmithlabs/forge/internal/spec"
	"github.com/fyrsmithlabs/forge/internal/specgen"
)

// Server serves the forge MCP tools over stdio.
type Server struct {
	mcpServer *mcpsdk.Server
	intents   *intent.Service
	generator *specgen.Service
	store     *spec.Store
}

// NewServer creates the MCP server and registers its tools.
func NewServer(version string, intents *intent.Service, generator *specgen.Service, store *spec.Store) *Server {
	mcpServer := mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    "forge",
		Version: version,
	}, nil)

	s := &Server{
		mcpServer: mcpServer,
		intents:   intents,
		generator: generator,
		store:     store,
	}
	s.registerTools()
	return s
}

// Run serves until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp server error: %w", err)
	}
	return nil
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "extract_intent",
		Description: "Extract a feature list from a natural-language product description. Returns the features a Next.js + Supabase implementation of the request needs.",
	}, s.handleExtractIntent)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "generate_spec",
		Description: "Generate and persist a full project specification (pages, components, API routes, database tables) from a product description or feature list. Returns the spec and its file path.",
	}, s.handleGenerateSpec)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "read_spec",
		Description: "Read a persisted project specification file and return its contents.",
	}, s.handleReadSpec)
}

// ExtractIntentParams defines parameters for extract_intent.
type ExtractIntentParams struct {
	Description string `json:"description" jsonschema:"Natural-language product description"`
}

// ExtractIntentResult is the structured reply of extract_intent.
type ExtractIntentResult struct {
	Features []string `json:"features"`
}

func (s *Server) handleExtractIntent(ctx context.Context, req *mcpsdk.CallToolRequest, params *ExtractIntentParams) (*mcpsdk.CallToolResult, any, error) {
	if params.Description == "" {
		return nil, nil, fmt.Errorf("description is required")
	}

	in, err := s.intents.Extract(ctx, params.Description)
	if err != nil {
		return nil, nil, err
	}

	result := ExtractIntentResult{Features: in.Features}
	return textResult(result), result, nil
}

// GenerateSpecParams defines parameters for generate_spec. Either a
// description or an explicit feature list must be given.
type GenerateSpecParams struct {
	Description string   `json:"description,omitempty" jsonschema:"Natural-language product description (features are extracted first)"`
	Features    []string `json:"features,omitempty" jsonschema:"Explicit feature list (skips extraction)"`
}

// GenerateSpecResult is the structured reply of generate_spec.
type GenerateSpecResult struct {
	Path string           `json:"path"`
	Spec spec.ProjectSpec `json:"spec"`
}

func (s *Server) handleGenerateSpec(ctx context.Context, req *mcpsdk.CallToolRequest, params *GenerateSpecParams) (*mcpsdk.CallToolResult, any, error) {
	in := spec.Intent{Features: params.Features}
	if len(in.Features) == 0 {
		if params.Description == "" {
			return nil, nil, fmt.Errorf("either description or features is required")
		}
		extracted, err := s.intents.Extract(ctx, params.Description)
		if err != nil {
			return nil, nil, err
		}
		in = extracted
	}

	ps, path, err := s.generator.Generate(ctx, in)
	if err != nil {
		return nil, nil, err
	}

	result := GenerateSpecResult{Path: path, Spec: *ps}
	return textResult(result), result, nil
}

// ReadSpecParams defines parameters for read_spec.
type ReadSpecParams struct {
	Path string `json:"path" jsonschema:"Path to a persisted spec file"`
}

func (s *Server) handleReadSpec(ctx context.Context, req *mcpsdk.CallToolRequest, params *ReadSpecParams) (*mcpsdk.CallToolResult, any, error) {
	if params.Path == "" {
		return nil, nil, fmt.Errorf("path is required")
	}

	ps, err := s.store.Load(params.Path)
	if err != nil {
		return nil, nil, err
	}
	return textResult(ps), ps, nil
}

// textResult marshals v into a single text content block.
func textResult(v any) *mcpsdk.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		data = []byte(fmt.Sprintf("%v", v))
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}
}
