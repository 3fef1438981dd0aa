package orchestrator

import (
	"encoding/json"
	"fmt"

	"github.com/fyrsmithlabs/forge/internal/spec"
)

// analyzeInstruction asks the agent to summarize the existing project
// before anything is planned against it.
const analyzeInstruction = `Analyze this project and summarize:
1. The overall structure (app/ directory layout, existing pages)
2. Existing API routes and what they do
3. Data models and Supabase usage
4. The auth setup (middleware, helpers, protected routes)

Reply with a concise summary. Do not modify any files.`

// planConventions are the stack conventions every plan must honor.
const planConventions = `Conventions:
- Do not introduce extra directory nesting beyond the App Router structure.
- Reuse the existing auth setup; never add a second auth system.
- Shared components go in components/, utilities in lib/, shared types in types/.
- Components are server components by default; client components only where interactivity demands it.
- Pages use file conventions: page.tsx, loading.tsx, error.tsx; API routes are route.ts handlers.`

// planInstruction builds the planning call from the analysis and the full
// spec.
func planInstruction(analysis string, ps *spec.ProjectSpec) (string, error) {
	specJSON, err := json.MarshalIndent(ps, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal spec for planning: %w", err)
	}
	return fmt.Sprintf(`Create an implementation plan for adding the specified features to this project.

Project analysis:
%s

Specification:
%s

%s

Reply with the plan: the order of work, files to touch per unit, and shared pieces to build first. Do not modify any files yet.`, analysis, specJSON, planConventions), nil
}

// planRequest is the reply shape requested from every per-unit call.
const planRequest = `Reply with JSON only: {"file_path": "...", "content": "..."} for a single file, or {"files": [{"path": "...", "content": "..."}]} for several. Reply {} if no change is needed. Do not modify files yourself; forge applies the edits.`

// componentInstruction builds the per-component call.
func componentInstruction(plan string, c spec.Component) string {
	kind := "server component"
	if c.IsClient {
		kind = "client component"
	}
	return fmt.Sprintf(`Implementation plan:
%s

Implement the %s %q: %s

%s`, plan, kind, c.Name, c.Description, planRequest)
}

// routeInstruction builds the per-route call.
func routeInstruction(plan string, r spec.APIRoute) string {
	return fmt.Sprintf(`Implementation plan:
%s

Implement the API route %s %s: %s
Database operation: %s

%s`, plan, r.Method, r.Path, r.Description, r.Query, planRequest)
}

// tableInstruction builds the per-table call. Tables usually need several
// files (migration, typed queries), so the files list shape is expected.
func tableInstruction(plan string, t spec.SupabaseTable) string {
	return fmt.Sprintf(`Implementation plan:
%s

Create the files for database table %q. Schema:
%s

Include the typed query helpers the routes need. %s`, plan, t.Name, t.SQLSchema, planRequest)
}

// integrationInstruction builds the final cross-cutting call.
func integrationInstruction(plan string) string {
	return fmt.Sprintf(`Implementation plan:
%s

All components, routes, and tables are in place. Wire them together: shared layouts, loading and error states for each page, and navigation between pages.

%s`, plan, planRequest)
}
