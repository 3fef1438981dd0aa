// Package specgen expands a finalized intent into a full project
// specification and persists it.
package specgen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fyrsmithlabs/forge/internal/llm"
	"github.com/fyrsmithlabs/forge/internal/spec"
)

// conventions is the fixed stack-conventions block embedded in the
// generation prompt. The target project is an existing Next.js 14 App
// Router + Supabase boilerplate; generated structure must fit it.
const conventions = `Project conventions:
- Next.js 14 App Router with the app/ directory. Do not add extra nesting beyond the route structure.
- Reuse the existing Supabase auth setup (middleware, auth helpers); do not introduce a second auth system.
- Shared UI components live in components/, utilities in lib/, shared types in types/.
- Components are server components by default; mark is_client only when interactivity requires it.
- Pages follow file conventions: page.tsx, loading.tsx, error.tsx; API routes are route.ts handlers under app/api/.
- Database tables are Postgres with snake_case names, uuid primary keys, and created_at timestamps.`

// systemPrompt frames the single spec-generation model call.
const systemPrompt = `Generate a detailed specification for a Next.js 14 App router + Supabase application.

You currently have a boilerplate with all the basic setup done, you just need to add the features requested by the user.
` + conventions + `

Include:
1. components with clear purposes
2. API routes for all the operations needed
3. Postgres database tables with columns and relationships
4. Pages with:
   - Full paths (e.g. /dashboard, /profile)
   - Associated API routes needed
   - Required components
   - Auth requirements

Keep the specification simple and practical. Dont add any fancy features.

Respond with JSON matching:
{"name": "...", "description": "...", "features": ["..."],
 "structure": {"pages": [{"path": "...", "description": "...", "api_routes": ["..."], "components": ["..."]}],
 "components": [{"name": "...", "description": "...", "is_client": false}],
 "api_routes": [{"path": "...", "method": "...", "description": "...", "query": "..."}],
 "database": [{"name": "...", "sql_schema": "..."}]}}`

// Service generates and persists project specifications.
type Service struct {
	llm   llm.Client
	store *spec.Store
}

// NewService creates a spec generator writing through store.
func NewService(client llm.Client, store *spec.Store) *Service {
	return &Service{llm: client, store: store}
}

// Generate expands the intent into a ProjectSpec via one model call and
// persists it. The spec is parsed and validated before any file write, so
// a failure leaves no partial file. All failures wrap the specification
// stage's error string. Returns the spec and its file path.
func (s *Service) Generate(ctx context.Context, in spec.Intent) (*spec.ProjectSpec, string, error) {
	payload, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("Failed to create specification: %w", err)
	}

	raw, err := s.llm.GenerateJSON(ctx, systemPrompt, "Generate specification for: "+string(payload))
	if err != nil {
		return nil, "", fmt.Errorf("Failed to create specification: %w", err)
	}

	var ps spec.ProjectSpec
	if err := json.Unmarshal(raw, &ps); err != nil {
		return nil, "", fmt.Errorf("Failed to create specification: %w", err)
	}
	if err := ps.Validate(); err != nil {
		return nil, "", fmt.Errorf("Failed to create specification: %w", err)
	}

	path, err := s.store.Save(&ps)
	if err != nil {
		return nil, "", fmt.Errorf("Failed to create specification: %w", err)
	}
	return &ps, path, nil
}
