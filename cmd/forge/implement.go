package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/forge/internal/agent"
	"github.com/fyrsmithlabs/forge/internal/database"
	"github.com/fyrsmithlabs/forge/internal/orchestrator"
	"github.com/fyrsmithlabs/forge/internal/refine"
	"github.com/fyrsmithlabs/forge/internal/spec"
	"github.com/fyrsmithlabs/forge/internal/ui"
	"github.com/fyrsmithlabs/forge/internal/workspace"
)

var implementCmd = &cobra.Command{
	Use:   "implement <spec-file>",
	Short: "Implement a persisted project specification",
	Long: `Load a specification generated by "forge new" or "forge spec" and run
the phased implementation against the target directory.

Examples:
  forge implement specs/recipe_sharing_spec.json --dir ./recipe-app
  forge implement specs/expense_tracker_spec.json --skip-db`,
	Args: cobra.ExactArgs(1),
	RunE: runImplementCmd,
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database provisioning operations",
}

var dbSetupCmd = &cobra.Command{
	Use:   "setup <spec-file>",
	Short: "Provision Supabase for a specification",
	Long: `Run only the database provisioning flow: prompt for Supabase
credentials, generate the initial migration from the spec's tables,
apply it via the Supabase CLI, and write .env.local.

Examples:
  forge db setup specs/recipe_sharing_spec.json --dir ./recipe-app`,
	Args: cobra.ExactArgs(1),
	RunE: runDBSetup,
}

func init() {
	implementCmd.Flags().BoolVar(&flagYes, "yes", false, "skip confirmations and run non-interactively")
	implementCmd.Flags().BoolVar(&flagSkipDB, "skip-db", false, "skip Supabase provisioning during the database phase")

	dbCmd.AddCommand(dbSetupCmd)
}

func runImplementCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	if err := a.buildRegistry(ctx); err != nil {
		return err
	}

	ps, err := a.registry.SpecStore().Load(args[0])
	if err != nil {
		return err
	}

	return runImplementation(ctx, a, ps, args[0])
}

func runDBSetup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	if err := a.buildRegistry(ctx); err != nil {
		return err
	}

	ps, err := a.registry.SpecStore().Load(args[0])
	if err != nil {
		return err
	}

	svc := newDatabaseService(a)
	if err := svc.Setup(ctx, ps); err != nil {
		return err
	}

	fmt.Println(ui.Success("Supabase setup complete"))
	return nil
}

// runImplementation drives the orchestrator against the target directory,
// recording the run in history when enabled.
func runImplementation(ctx context.Context, a *app, ps *spec.ProjectSpec, specPath string) error {
	if err := preflight(ctx, a); err != nil {
		return err
	}

	ag := agent.NewClaude(a.cfg.Agent, flagDir)
	defer ag.Close()

	db := &confirmingProvisioner{
		svc:      newDatabaseService(a),
		prompter: console(),
		yes:      flagYes,
	}

	progress := func(p orchestrator.PhaseProgress) {
		fmt.Println(ui.RenderProgress(p))
	}
	exec := orchestrator.NewExecutor(ag, db, a.logger, progress)

	var runID string
	hist := a.registry.History()
	if hist != nil {
		var err error
		runID, err = hist.BeginRun(ctx, ps.Name, specPath, ag.SessionID())
		if err != nil {
			a.logger.Warn(ctx, "failed to record run start", zap.Error(err))
			runID = ""
		}
	}

	result, runErr := exec.Run(ctx, ps, orchestrator.Options{SkipDatabase: flagSkipDB})

	if hist != nil && runID != "" && result != nil {
		if err := hist.RecordPhases(ctx, runID, result.Phases); err != nil {
			a.logger.Warn(ctx, "failed to record run phases", zap.Error(err))
		}
		if err := hist.FinishRun(ctx, runID, runErr != nil); err != nil {
			a.logger.Warn(ctx, "failed to record run finish", zap.Error(err))
		}
	}

	if runErr != nil {
		fmt.Println(ui.Error("Implementation failed: " + runErr.Error()))
		return runErr
	}

	fmt.Println(ui.Success("Implementation complete"))
	return nil
}

// preflight inspects the target directory's git state before editing
// into it. Dirty worktrees abort when require_clean is set, otherwise
// the user confirms (or --yes proceeds with a warning).
func preflight(ctx context.Context, a *app) error {
	st, err := workspace.Inspect(flagDir)
	if err != nil {
		return err
	}

	if !st.IsRepo {
		fmt.Println(ui.Warn("Target is not a git repository; edits cannot be reverted"))
		return nil
	}

	if st.Clean {
		return nil
	}

	if a.cfg.Workspace.RequireClean {
		return fmt.Errorf("%s: %w", flagDir, workspace.ErrDirtyWorktree)
	}
	if flagYes {
		fmt.Println(ui.Warn("Target worktree has uncommitted changes"))
		return nil
	}

	proceed, err := console().Confirm("Target worktree has uncommitted changes. Continue?", false)
	if err != nil {
		return err
	}
	if !proceed {
		return fmt.Errorf("%s: %w", flagDir, workspace.ErrDirtyWorktree)
	}
	return nil
}

func newDatabaseService(a *app) *database.Service {
	return database.NewService(
		a.registry.LLM(),
		console(),
		database.NewRunner(a.cfg.Database.Timeout.Duration()),
		a.logger,
		a.cfg.Database,
		flagDir,
	)
}

// confirmingProvisioner wraps Supabase setup so a provisioning failure
// does not necessarily abort the run: the user may choose to continue
// with the remaining phases and configure the database by hand. Under
// --yes there is no stdin to prompt credentials from, so provisioning is
// skipped with a warning unless credentials are configured.
type confirmingProvisioner struct {
	svc      *database.Service
	prompter refine.Prompter
	yes      bool
}

func (p *confirmingProvisioner) Setup(ctx context.Context, ps *spec.ProjectSpec) error {
	if p.yes && !p.svc.Configured() {
		fmt.Println(ui.Warn("Skipping Supabase provisioning: no database credentials configured (set database.project_ref and keys)"))
		return nil
	}

	err := p.svc.Setup(ctx, ps)
	if err == nil {
		return nil
	}
	if p.yes {
		return err
	}

	fmt.Println(ui.Error("Supabase setup failed: " + err.Error()))
	cont, perr := p.prompter.Confirm("Continue implementation without database setup?", false)
	if perr != nil || !cont {
		return err
	}
	fmt.Println(ui.Warn("Continuing without a provisioned database"))
	return nil
}
