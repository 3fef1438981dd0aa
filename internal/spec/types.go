package spec

import (
	"errors"
	"fmt"
)

// Intent is the feature list extracted from a user's free-text request.
// The refinement loop appends and removes entries; order is preserved.
type Intent struct {
	// Features are free-text feature descriptions, one per entry.
	Features []string `json:"features"`

	// Preferences carries optional project customization answers
	// (auth setup, theme, layout) collected before spec generation.
	Preferences map[string]any `json:"preferences,omitempty"`
}

// SupabaseTable describes one database table to create.
type SupabaseTable struct {
	// Name is the table name.
	Name string `json:"name"`

	// SQLSchema is the full CREATE TABLE statement (and any related DDL).
	SQLSchema string `json:"sql_schema"`
}

// APIRoute describes one API endpoint to implement.
type APIRoute struct {
	// Path is the route path, e.g. /api/todos.
	Path string `json:"path"`

	// Method is the HTTP method.
	Method string `json:"method"`

	// Description explains the route's purpose.
	Description string `json:"description"`

	// Query is the database query or operation the route performs.
	Query string `json:"query"`
}

// Page describes one application page.
type Page struct {
	// Path is the page path, e.g. /dashboard.
	Path string `json:"path"`

	// Description explains the page's purpose.
	Description string `json:"description"`

	// APIRoutes lists route paths the page calls. Free text, not
	// validated against the sibling route list.
	APIRoutes []string `json:"api_routes"`

	// Components lists component names the page renders. Free text,
	// not validated against the sibling component list.
	Components []string `json:"components"`
}

// Component describes one UI component to implement.
type Component struct {
	// Name is the component name, e.g. TodoList.
	Name string `json:"name"`

	// Description explains the component's purpose.
	Description string `json:"description"`

	// IsClient marks components that need client-side interactivity.
	IsClient bool `json:"is_client"`
}

// ProjectStructure is the structural breakdown of an application.
type ProjectStructure struct {
	Pages      []Page          `json:"pages"`
	Components []Component     `json:"components"`
	APIRoutes  []APIRoute      `json:"api_routes"`
	Database   []SupabaseTable `json:"database"`
}

// ProjectSpec is the full structured description of an application to
// generate. Once generated it is the read-only input to the implementation
// pipeline.
type ProjectSpec struct {
	// Name is the project name. Drives the spec filename.
	Name string `json:"name"`

	// Description summarizes the application.
	Description string `json:"description"`

	// Features is the finalized feature list the spec was generated from.
	Features []string `json:"features"`

	// Structure is the structural breakdown to implement.
	Structure ProjectStructure `json:"structure"`
}

// ErrEmptySpec indicates a spec with no structural elements to implement.
var ErrEmptySpec = errors.New("spec has no pages, components, routes, or tables")

// Validate checks the minimal shape required to persist and implement the
// spec. Cross-references between pages, components, and routes are free
// text and intentionally not validated.
func (s *ProjectSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("spec name is required")
	}
	n := len(s.Structure.Pages) + len(s.Structure.Components) +
		len(s.Structure.APIRoutes) + len(s.Structure.Database)
	if n == 0 {
		return ErrEmptySpec
	}
	return nil
}

// UnitCount returns the number of per-unit implementation calls the spec
// implies (components + routes + tables).
func (s *ProjectSpec) UnitCount() int {
	return len(s.Structure.Components) + len(s.Structure.APIRoutes) + len(s.Structure.Database)
}
