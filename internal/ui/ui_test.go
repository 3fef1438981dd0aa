package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fyrsmithlabs/forge/internal/history"
	"github.com/fyrsmithlabs/forge/internal/orchestrator"
	"github.com/fyrsmithlabs/forge/internal/spec"
)

func TestRenderFeatures(t *testing.T) {
	out := RenderFeatures([]string{"User authentication", "Todo CRUD"})
	assert.Contains(t, out, "User authentication")
	assert.Contains(t, out, "Todo CRUD")
}

func TestRenderSpec(t *testing.T) {
	ps := &spec.ProjectSpec{
		Name:        "Tracker",
		Description: "Habit tracker",
		Features:    []string{"Track habits"},
		Structure: spec.ProjectStructure{
			Pages: []spec.Page{
				{Path: "/dashboard", Description: "Overview", Components: []string{"HabitList"}, APIRoutes: []string{"/api/habits"}},
			},
			Components: []spec.Component{
				{Name: "HabitList", Description: "Lists habits", IsClient: true},
			},
			APIRoutes: []spec.APIRoute{
				{Path: "/api/habits", Method: "GET", Description: "List habits"},
			},
			Database: []spec.SupabaseTable{
				{Name: "habits"},
			},
		},
	}

	out := RenderSpec(ps)
	assert.Contains(t, out, "Tracker")
	assert.Contains(t, out, "/dashboard")
	assert.Contains(t, out, "HabitList (client)")
	assert.Contains(t, out, "/api/habits")
	assert.Contains(t, out, "habits")
}

func TestRenderProgress(t *testing.T) {
	assert.Contains(t,
		RenderProgress(orchestrator.PhaseProgress{Phase: orchestrator.PhaseComponents, Status: orchestrator.StatusInProgress, Unit: "HabitList"}),
		"HabitList")
	assert.Contains(t,
		RenderProgress(orchestrator.PhaseProgress{Phase: orchestrator.PhaseAnalyze, Status: orchestrator.StatusCompleted}),
		"analyze")
	assert.Contains(t,
		RenderProgress(orchestrator.PhaseProgress{Phase: orchestrator.PhasePlan, Status: orchestrator.StatusFailed, Message: "boom"}),
		"boom")
}

func TestRenderRuns(t *testing.T) {
	assert.Contains(t, RenderRuns(nil), "No runs recorded")

	runs := []history.Run{
		{Project: "Tracker", Status: "completed", StartedAt: time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC), SpecPath: "specs/tracker_spec.json"},
		{Project: "Shop", Status: "failed", StartedAt: time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC), SpecPath: "specs/shop_spec.json"},
	}
	out := RenderRuns(runs)
	assert.Contains(t, out, "Tracker")
	assert.Contains(t, out, "specs/shop_spec.json")
}
