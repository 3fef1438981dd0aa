package orchestrator

import (
	"time"
)

// Phase is one stage of an implementation run.
type Phase string

const (
	// PhaseAnalyze summarizes the existing project.
	PhaseAnalyze Phase = "analyze"

	// PhasePlan produces the implementation plan threaded through every
	// per-unit call.
	PhasePlan Phase = "plan"

	// PhaseComponents implements each spec component.
	PhaseComponents Phase = "components"

	// PhaseRoutes implements each API route.
	PhaseRoutes Phase = "routes"

	// PhaseDatabase implements each database table and optionally
	// provisions Supabase.
	PhaseDatabase Phase = "database"

	// PhaseIntegration wires layouts, loading/error states, and
	// navigation across the generated pieces.
	PhaseIntegration Phase = "integration"
)

// AllPhases returns the phases in execution order. The order is fixed:
// analysis feeds planning, the plan feeds every per-unit call, and
// components land before the routes and tables that reference them.
func AllPhases() []Phase {
	return []Phase{
		PhaseAnalyze,
		PhasePlan,
		PhaseComponents,
		PhaseRoutes,
		PhaseDatabase,
		PhaseIntegration,
	}
}

// PhaseStatus is the completion status of a phase.
type PhaseStatus string

const (
	StatusPending    PhaseStatus = "pending"
	StatusInProgress PhaseStatus = "in_progress"
	StatusCompleted  PhaseStatus = "completed"
	StatusFailed     PhaseStatus = "failed"
	StatusSkipped    PhaseStatus = "skipped"
)

// PhaseResult captures the outcome of one phase.
type PhaseResult struct {
	Phase       Phase       `json:"phase"`
	Status      PhaseStatus `json:"status"`
	StartedAt   time.Time   `json:"started_at"`
	CompletedAt time.Time   `json:"completed_at,omitempty"`

	// Output is the phase's opaque result: the analysis summary or plan
	// text for the model-driven phases, empty for per-unit phases.
	Output string `json:"output,omitempty"`

	// Error is the failure message when Status is failed.
	Error string `json:"error,omitempty"`

	// Units is the number of per-unit calls the phase issued.
	Units int `json:"units,omitempty"`
}

// RunResult is the outcome of a whole implementation run. Phases appear in
// execution order; a failed run ends at its failed phase.
type RunResult struct {
	// SessionID is the agent session the run used.
	SessionID string `json:"session_id"`

	// Phases are the per-phase results in execution order.
	Phases []PhaseResult `json:"phases"`
}

// Failed reports whether any phase failed.
func (r *RunResult) Failed() bool {
	for _, p := range r.Phases {
		if p.Status == StatusFailed {
			return true
		}
	}
	return false
}

// PhaseProgress is one progress notification.
type PhaseProgress struct {
	Phase  Phase
	Status PhaseStatus

	// Unit names the component, route, or table being processed, empty
	// for phase-level notifications.
	Unit string

	// Message is a human-readable progress line.
	Message string
}

// ProgressFunc receives progress notifications. May be nil.
type ProgressFunc func(PhaseProgress)

// Options tunes one implementation run.
type Options struct {
	// SkipDatabase skips Supabase provisioning after the per-table
	// edits. The table files are still generated.
	SkipDatabase bool
}
