package orchestrator

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/forge/internal/agent"
	"github.com/fyrsmithlabs/forge/internal/logging"
	"github.com/fyrsmithlabs/forge/internal/spec"
)

// DatabaseProvisioner applies the spec's tables to a live Supabase
// project. Satisfied by database.Service; nil disables provisioning.
type DatabaseProvisioner interface {
	Setup(ctx context.Context, ps *spec.ProjectSpec) error
}

// Executor runs the implementation pipeline: analyze, plan, per-unit
// implementation calls whose returned edits are applied through the agent,
// and a final integration pass.
//
// The run is strictly sequential. The first failure anywhere aborts the
// remainder; edits already applied stay on disk and nothing is rolled
// back. Re-running reprocesses every unit from scratch.
type Executor struct {
	agent    agent.Agent
	db       DatabaseProvisioner
	logger   *logging.Logger
	progress ProgressFunc
}

// NewExecutor creates an executor. db may be nil to disable Supabase
// provisioning; progress may be nil.
func NewExecutor(a agent.Agent, db DatabaseProvisioner, logger *logging.Logger, progress ProgressFunc) *Executor {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Executor{agent: a, db: db, logger: logger, progress: progress}
}

// Run executes every phase in order against the spec. The returned
// RunResult lists the phases that ran, including a failed one; the error
// is the failure that aborted the run, nil on success.
func (e *Executor) Run(ctx context.Context, ps *spec.ProjectSpec, opts Options) (*RunResult, error) {
	ctx = logging.WithSessionID(logging.WithProject(ctx, ps.Name), e.agent.SessionID())
	result := &RunResult{SessionID: e.agent.SessionID()}

	tracer := otel.Tracer("forge/orchestrator")
	ctx, span := tracer.Start(ctx, "orchestrator.run")
	span.SetAttributes(
		attribute.String("project", ps.Name),
		attribute.Int("units", ps.UnitCount()),
	)
	defer span.End()

	e.logger.Info(ctx, "starting implementation run",
		zap.Int("components", len(ps.Structure.Components)),
		zap.Int("routes", len(ps.Structure.APIRoutes)),
		zap.Int("tables", len(ps.Structure.Database)))

	// analyze
	analysis, err := e.runPhase(ctx, result, PhaseAnalyze, func(ctx context.Context, pr *PhaseResult) (string, error) {
		return e.agent.Execute(ctx, analyzeInstruction)
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}

	// plan
	plan, err := e.runPhase(ctx, result, PhasePlan, func(ctx context.Context, pr *PhaseResult) (string, error) {
		instruction, err := planInstruction(analysis, ps)
		if err != nil {
			return "", err
		}
		return e.agent.Execute(ctx, instruction)
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}

	// components
	_, err = e.runPhase(ctx, result, PhaseComponents, func(ctx context.Context, pr *PhaseResult) (string, error) {
		for _, c := range ps.Structure.Components {
			if err := e.implementUnit(ctx, PhaseComponents, c.Name, componentInstruction(plan, c)); err != nil {
				return "", err
			}
			pr.Units++
		}
		return "", nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}

	// routes
	_, err = e.runPhase(ctx, result, PhaseRoutes, func(ctx context.Context, pr *PhaseResult) (string, error) {
		for _, r := range ps.Structure.APIRoutes {
			name := r.Method + " " + r.Path
			if err := e.implementUnit(ctx, PhaseRoutes, name, routeInstruction(plan, r)); err != nil {
				return "", err
			}
			pr.Units++
		}
		return "", nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}

	// database
	_, err = e.runPhase(ctx, result, PhaseDatabase, func(ctx context.Context, pr *PhaseResult) (string, error) {
		for _, tbl := range ps.Structure.Database {
			if err := e.implementUnit(ctx, PhaseDatabase, tbl.Name, tableInstruction(plan, tbl)); err != nil {
				return "", err
			}
			pr.Units++
		}
		if e.db != nil && !opts.SkipDatabase && len(ps.Structure.Database) > 0 {
			e.notify(PhaseProgress{Phase: PhaseDatabase, Status: StatusInProgress, Message: "provisioning Supabase"})
			if err := e.db.Setup(ctx, ps); err != nil {
				return "", err
			}
		}
		return "", nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}

	// integration
	_, err = e.runPhase(ctx, result, PhaseIntegration, func(ctx context.Context, pr *PhaseResult) (string, error) {
		return "", e.implementUnit(ctx, PhaseIntegration, "", integrationInstruction(plan))
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}

	e.logger.Info(ctx, "implementation run completed")
	return result, nil
}

// runPhase wraps one phase with result bookkeeping and progress
// notifications. The context is checked before the phase starts.
func (e *Executor) runPhase(ctx context.Context, result *RunResult, phase Phase, fn func(context.Context, *PhaseResult) (string, error)) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	pr := PhaseResult{Phase: phase, Status: StatusInProgress, StartedAt: time.Now()}
	e.notify(PhaseProgress{Phase: phase, Status: StatusInProgress})
	e.logger.Info(ctx, "phase started", zap.String("phase", string(phase)))

	output, err := fn(ctx, &pr)
	pr.CompletedAt = time.Now()
	pr.Output = output

	if err != nil {
		pr.Status = StatusFailed
		pr.Error = err.Error()
		result.Phases = append(result.Phases, pr)
		e.notify(PhaseProgress{Phase: phase, Status: StatusFailed, Message: err.Error()})
		e.logger.Error(ctx, "phase failed", zap.String("phase", string(phase)), zap.Error(err))
		return "", fmt.Errorf("%s phase failed: %w", phase, err)
	}

	pr.Status = StatusCompleted
	result.Phases = append(result.Phases, pr)
	e.notify(PhaseProgress{Phase: phase, Status: StatusCompleted})
	e.logger.Info(ctx, "phase completed", zap.String("phase", string(phase)), zap.Int("units", pr.Units))
	return output, nil
}

// implementUnit issues one per-unit planning call and applies any returned
// edits. An empty plan applies nothing and is not an error. The context is
// checked before each unit so a cancelled run stops between units.
func (e *Executor) implementUnit(ctx context.Context, phase Phase, unit, instruction string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if unit != "" {
		e.notify(PhaseProgress{Phase: phase, Status: StatusInProgress, Unit: unit})
	}

	plan, err := e.agent.Plan(ctx, instruction)
	if err != nil {
		return fmt.Errorf("planning %s: %w", unitLabel(phase, unit), err)
	}
	if plan.Empty() {
		e.logger.Debug(ctx, "unit produced no edits",
			zap.String("phase", string(phase)), zap.String("unit", unit))
		return nil
	}

	for _, edit := range plan.Edits() {
		if err := e.agent.EditFile(ctx, edit.Path, edit.Content); err != nil {
			return fmt.Errorf("applying edit to %s: %w", edit.Path, err)
		}
		e.logger.Debug(ctx, "edit applied",
			zap.String("phase", string(phase)), zap.String("path", edit.Path))
	}
	return nil
}

func unitLabel(phase Phase, unit string) string {
	if unit == "" {
		return string(phase)
	}
	return fmt.Sprintf("%s %q", phase, unit)
}

func (e *Executor) notify(p PhaseProgress) {
	if e.progress != nil {
		e.progress(p)
	}
}
