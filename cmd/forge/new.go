package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/forge/internal/preferences"
	"github.com/fyrsmithlabs/forge/internal/refine"
	"github.com/fyrsmithlabs/forge/internal/spec"
	"github.com/fyrsmithlabs/forge/internal/ui"
)

var (
	flagYes         bool
	flagSkipDB      bool
	flagMaxAttempts int
)

var newCmd = &cobra.Command{
	Use:   "new <description>",
	Short: "Generate and implement a project from a description",
	Long: `Run the full pipeline: extract the feature set from the description,
refine it interactively, generate a project specification, and implement
it into the target directory.

Examples:
  # Scaffold into the current directory
  forge new "a recipe sharing site with ratings"

  # Non-interactive, skipping database provisioning
  forge new "an expense tracker" --dir ./expenses --yes --skip-db`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

var specCmd = &cobra.Command{
	Use:   "spec <description>",
	Short: "Generate a project specification without implementing it",
	Long: `Run the pipeline through spec generation only. The specification is
persisted under the configured specs directory and can be implemented
later with "forge implement".

Examples:
  forge spec "a recipe sharing site with ratings"`,
	Args: cobra.ExactArgs(1),
	RunE: runSpec,
}

func init() {
	newCmd.Flags().BoolVar(&flagYes, "yes", false, "skip confirmations and run non-interactively")
	newCmd.Flags().BoolVar(&flagSkipDB, "skip-db", false, "skip Supabase provisioning during the database phase")
	newCmd.Flags().IntVar(&flagMaxAttempts, "max-attempts", refine.DefaultMaxAttempts, "maximum feature refinement rounds")

	specCmd.Flags().BoolVar(&flagYes, "yes", false, "skip confirmations and run non-interactively")
	specCmd.Flags().IntVar(&flagMaxAttempts, "max-attempts", refine.DefaultMaxAttempts, "maximum feature refinement rounds")
}

func runNew(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	if err := a.buildRegistry(ctx); err != nil {
		return err
	}

	ps, path, err := generateSpec(ctx, a, args[0])
	if err != nil {
		return err
	}

	if !flagYes {
		proceed, err := console().Confirm("Proceed with implementation?", true)
		if err != nil {
			return err
		}
		if !proceed {
			fmt.Println(ui.Warn("Implementation skipped. Run it later with: forge implement " + path))
			return nil
		}
	}

	return runImplementation(ctx, a, ps, path)
}

func runSpec(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	if err := a.buildRegistry(ctx); err != nil {
		return err
	}

	_, path, err := generateSpec(ctx, a, args[0])
	if err != nil {
		return err
	}

	fmt.Println(ui.Success("Implement it with: forge implement " + path))
	return nil
}

// generateSpec runs the pipeline from description through persisted spec:
// intent extraction, interactive refinement, preference questionnaire,
// spec generation. Interactive steps are skipped under --yes.
func generateSpec(ctx context.Context, a *app, description string) (*spec.ProjectSpec, string, error) {
	intents := a.registry.Intents()

	in, err := intents.Extract(ctx, description)
	if err != nil {
		return nil, "", err
	}

	fmt.Println(ui.RenderFeatures(in.Features))

	if !flagYes {
		refiner := refine.NewRefiner(console(), intents, os.Stdout, flagMaxAttempts)
		in, err = refiner.Run(ctx, in)
		if err != nil {
			return nil, "", err
		}
	}

	prefs := preferences.Defaults()
	if !flagYes {
		customize, err := console().Confirm("Customize design preferences?", false)
		if err != nil {
			return nil, "", err
		}
		if customize {
			prefs, err = preferences.Ask(console())
			if err != nil {
				return nil, "", err
			}
		}
	}
	in.Preferences = prefs

	ps, path, err := a.registry.Generator().Generate(ctx, in)
	if err != nil {
		return nil, "", err
	}

	fmt.Println(ui.RenderSpec(ps))
	fmt.Println(ui.Success("Specification saved to " + path))
	return ps, path, nil
}
