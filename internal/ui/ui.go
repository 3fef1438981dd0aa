// Package ui renders pipeline output for the console: feature panels, the
// generated specification, phase progress, and run history. All renderers
// are pure string functions; there is no event loop.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/forge/internal/history"
	"github.com/fyrsmithlabs/forge/internal/orchestrator"
	"github.com/fyrsmithlabs/forge/internal/spec"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	sectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	panelStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Success renders a success line.
func Success(msg string) string { return successStyle.Render("✓ " + msg) }

// Warn renders a warning line.
func Warn(msg string) string { return warnStyle.Render("! " + msg) }

// Error renders an error line.
func Error(msg string) string { return errorStyle.Render("✗ " + msg) }

// RenderFeatures renders the feature list as bordered panels.
func RenderFeatures(features []string) string {
	var panels []string
	for _, f := range features {
		panels = append(panels, panelStyle.Render("✨ "+f))
	}
	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}

// RenderSpec renders the full specification: overview, pages, components,
// routes, and database tables.
func RenderSpec(ps *spec.ProjectSpec) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("📋 Project Specification"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %s\n", sectionStyle.Render("Name:"), ps.Name)
	fmt.Fprintf(&b, "%s %s\n", sectionStyle.Render("Description:"), ps.Description)

	if len(ps.Features) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Features") + "\n")
		for _, f := range ps.Features {
			fmt.Fprintf(&b, "  • %s\n", f)
		}
	}

	if len(ps.Structure.Pages) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Pages") + "\n")
		for _, p := range ps.Structure.Pages {
			fmt.Fprintf(&b, "  %s — %s\n", p.Path, p.Description)
			if len(p.Components) > 0 {
				fmt.Fprintf(&b, "    %s\n", dimStyle.Render("components: "+strings.Join(p.Components, ", ")))
			}
			if len(p.APIRoutes) > 0 {
				fmt.Fprintf(&b, "    %s\n", dimStyle.Render("routes: "+strings.Join(p.APIRoutes, ", ")))
			}
		}
	}

	if len(ps.Structure.Components) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Components") + "\n")
		for _, c := range ps.Structure.Components {
			kind := "server"
			if c.IsClient {
				kind = "client"
			}
			fmt.Fprintf(&b, "  %s (%s) — %s\n", c.Name, kind, c.Description)
		}
	}

	if len(ps.Structure.APIRoutes) > 0 {
		b.WriteString("\n" + sectionStyle.Render("API Routes") + "\n")
		for _, r := range ps.Structure.APIRoutes {
			fmt.Fprintf(&b, "  %-6s %s — %s\n", r.Method, r.Path, r.Description)
		}
	}

	if len(ps.Structure.Database) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Database Tables") + "\n")
		for _, tbl := range ps.Structure.Database {
			fmt.Fprintf(&b, "  %s\n", tbl.Name)
		}
	}

	return b.String()
}

// RenderProgress renders one progress notification as a single line.
func RenderProgress(p orchestrator.PhaseProgress) string {
	switch {
	case p.Unit != "":
		return dimStyle.Render(fmt.Sprintf("  %s: %s", p.Phase, p.Unit))
	case p.Status == orchestrator.StatusInProgress && p.Message != "":
		return dimStyle.Render(fmt.Sprintf("  %s: %s", p.Phase, p.Message))
	case p.Status == orchestrator.StatusInProgress:
		return sectionStyle.Render(fmt.Sprintf("▶ %s", p.Phase))
	case p.Status == orchestrator.StatusCompleted:
		return Success(string(p.Phase))
	case p.Status == orchestrator.StatusFailed:
		return Error(fmt.Sprintf("%s: %s", p.Phase, p.Message))
	default:
		return dimStyle.Render(string(p.Phase))
	}
}

// RenderRuns renders the run history as an aligned table.
func RenderRuns(runs []history.Run) string {
	if len(runs) == 0 {
		return dimStyle.Render("No runs recorded.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-20s  %-9s  %-19s  %s\n",
		sectionStyle.Render("PROJECT"), sectionStyle.Render("STATUS"),
		sectionStyle.Render("STARTED"), sectionStyle.Render("SPEC"))
	for _, r := range runs {
		status := r.Status
		switch status {
		case "completed":
			status = successStyle.Render(status)
		case "failed":
			status = errorStyle.Render(status)
		}
		fmt.Fprintf(&b, "%-20s  %-9s  %-19s  %s\n",
			r.Project, status, r.StartedAt.Local().Format(time.DateTime), r.SpecPath)
	}
	return b.String()
}
