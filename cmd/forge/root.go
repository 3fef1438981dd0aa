package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/forge/internal/config"
	"github.com/fyrsmithlabs/forge/internal/history"
	"github.com/fyrsmithlabs/forge/internal/intent"
	"github.com/fyrsmithlabs/forge/internal/llm"
	"github.com/fyrsmithlabs/forge/internal/logging"
	"github.com/fyrsmithlabs/forge/internal/refine"
	"github.com/fyrsmithlabs/forge/internal/secrets"
	"github.com/fyrsmithlabs/forge/internal/services"
	"github.com/fyrsmithlabs/forge/internal/spec"
	"github.com/fyrsmithlabs/forge/internal/specgen"
	"github.com/fyrsmithlabs/forge/internal/telemetry"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

var (
	// flagConfig overrides the config file path.
	flagConfig string
	// flagDir is the target project directory.
	flagDir string
)

var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "Scaffold full-stack web apps from natural-language descriptions",
	Long: `forge turns a product description into a working Next.js + Supabase
project: it extracts the feature set, lets you refine it, generates a
project specification, and drives a code-editing agent through phased
implementation.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.config/forge/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", ".", "target project directory")

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(specCmd)
	rootCmd.AddCommand(implementCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}

// app bundles the wired services for one command invocation.
type app struct {
	cfg      *config.Config
	logger   *logging.Logger
	tel      *telemetry.Telemetry
	registry services.Registry
}

// newApp loads configuration and builds the logger and telemetry. The
// service registry is built separately; commands that never talk to the
// model (runs, template) skip it.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadWithFile(flagConfig)
	if err != nil {
		return nil, err
	}

	logCfg := logging.NewDefaultConfig()
	level, err := logging.LevelFromString(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid logging level: %w", err)
	}
	logCfg.Level = level
	logCfg.Format = cfg.Logging.Format

	tel, err := telemetry.New(ctx, telemetry.FromApp(cfg.Telemetry, version))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	logger, err := logging.NewLogger(logCfg, tel.LoggerProvider())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &app{cfg: cfg, logger: logger, tel: tel}, nil
}

// buildRegistry constructs the model client and the pipeline services.
// Requires a configured API key for the selected provider.
func (a *app) buildRegistry(ctx context.Context) error {
	scrubber, err := secrets.New(secrets.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to build secret scrubber: %w", err)
	}

	client, err := llm.New(ctx, a.cfg.LLM, scrubber)
	if err != nil {
		return err
	}

	store := spec.NewStore(a.cfg.Specs.Dir)
	intents := intent.NewService(client)

	var hist *history.Store
	if !a.cfg.History.Disabled {
		path := a.cfg.History.Path
		if path == "" {
			path, err = history.DefaultPath()
		}
		if err == nil {
			hist, err = history.Open(path)
		}
		if err != nil {
			// History is best-effort; the run proceeds unrecorded.
			a.logger.Warn(ctx, "run history unavailable", zap.Error(err))
			hist = nil
		}
	}

	a.registry = services.NewRegistry(services.Options{
		LLM:       client,
		Intents:   intents,
		Generator: specgen.NewService(client, store),
		SpecStore: store,
		Scrubber:  scrubber,
		History:   hist,
	})
	return nil
}

// close releases the app's resources in reverse construction order.
func (a *app) close(ctx context.Context) {
	if a.registry != nil {
		if hist := a.registry.History(); hist != nil {
			_ = hist.Close()
		}
		_ = a.registry.LLM().Close()
	}
	if a.tel != nil {
		_ = a.tel.Shutdown(ctx)
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// console returns the interactive prompter over stdin/stdout.
func console() refine.Prompter {
	return refine.NewConsole(os.Stdin, os.Stdout)
}
