// Package database provisions the Supabase side of a scaffolded project:
// it generates a migration from the spec's tables, applies it through the
// Supabase CLI, and writes the project's environment file.
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/forge/internal/config"
	"github.com/fyrsmithlabs/forge/internal/llm"
	"github.com/fyrsmithlabs/forge/internal/logging"
	"github.com/fyrsmithlabs/forge/internal/refine"
	"github.com/fyrsmithlabs/forge/internal/spec"
)

// migrationPrompt frames the migration-generation model call.
const migrationPrompt = `Generate a complete pgsql migration for Supabase based on the specification.
Include:
1. Table creation with proper types and constraints
2. Functions and triggers if any
3. Indexes if any
4. Initial seed data if needed
5. Do not include any RLS policies
6. Do not include any comments

Format as a single SQL file with proper ordering of operations. Do not include any other text or markdown, just SQL code.
Give me response as a single string.`

// ErrInvalidProjectRef indicates a project reference that is not a
// 20-character alphanumeric string.
var ErrInvalidProjectRef = errors.New("invalid project ref: must be a 20-character alphanumeric string")

// Credentials holds the Supabase project credentials the operator
// supplies. Keys are secrets so they never land in logs.
type Credentials struct {
	ProjectRef string
	AnonKey    config.Secret
	ServiceKey config.Secret
}

// Service provisions Supabase for a target project directory.
type Service struct {
	llm      llm.Client
	prompter refine.Prompter
	runner   CommandRunner
	logger   *logging.Logger

	// projectDir is the scaffolded project's root.
	projectDir string

	// command is the package runner, normally npx.
	command string

	// creds are the preconfigured project credentials, possibly partial.
	creds Credentials

	// now is injectable for deterministic migration filenames in tests.
	now func() time.Time
}

// NewService creates a provisioning service for projectDir.
func NewService(client llm.Client, prompter refine.Prompter, runner CommandRunner, logger *logging.Logger, cfg config.DatabaseConfig, projectDir string) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	command := cfg.Command
	if command == "" {
		command = "npx"
	}
	return &Service{
		llm:        client,
		prompter:   prompter,
		runner:     runner,
		logger:     logger,
		projectDir: projectDir,
		command:    command,
		creds: Credentials{
			ProjectRef: cfg.ProjectRef,
			AnonKey:    cfg.AnonKey,
			ServiceKey: cfg.ServiceKey,
		},
		now: time.Now,
	}
}

// Configured reports whether complete project credentials were supplied
// via configuration, making Setup non-interactive.
func (s *Service) Configured() bool {
	return s.creds.ProjectRef != "" && s.creds.AnonKey.IsSet() && s.creds.ServiceKey.IsSet()
}

// MigrationSQL generates the migration for the spec's tables via one
// model call. The response is fence-stripped text.
func (s *Service) MigrationSQL(ctx context.Context, ps *spec.ProjectSpec) (string, error) {
	payload, err := json.MarshalIndent(ps, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal spec for migration: %w", err)
	}

	sql, err := s.llm.GenerateText(ctx, migrationPrompt, "Generate pgsql migration for: "+string(payload))
	if err != nil {
		return "", fmt.Errorf("failed to generate SQL migration: %w", err)
	}
	if strings.TrimSpace(sql) == "" {
		return "", fmt.Errorf("failed to generate SQL migration: %w", llm.ErrEmptyResponse)
	}
	return sql, nil
}

// NormalizeProjectRef accepts either a bare project ref or a
// https://<ref>.supabase.co URL and returns the validated ref.
func NormalizeProjectRef(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if strings.Contains(ref, "supabase.co") {
		rest, ok := cutAfter(ref, "//")
		if !ok {
			return "", fmt.Errorf("invalid Supabase project URL format: %q", ref)
		}
		ref, _, _ = strings.Cut(rest, ".")
	}

	if len(ref) != 20 || !isAlphanumeric(ref) {
		return "", fmt.Errorf("%w: got %q", ErrInvalidProjectRef, ref)
	}
	return ref, nil
}

func cutAfter(s, sep string) (string, bool) {
	_, after, ok := strings.Cut(s, sep)
	return after, ok
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return s != ""
}

// Apply generates the migration, writes it under supabase/migrations, and
// pushes it to the linked remote project through the Supabase CLI.
func (s *Service) Apply(ctx context.Context, ps *spec.ProjectSpec, projectRef string) error {
	ref, err := NormalizeProjectRef(projectRef)
	if err != nil {
		return err
	}

	if err := s.ensureCLI(ctx); err != nil {
		return err
	}

	sql, err := s.MigrationSQL(ctx, ps)
	if err != nil {
		return err
	}

	migrationsDir := filepath.Join(s.projectDir, "supabase", "migrations")
	if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create migrations directory: %w", err)
	}

	name := s.now().Format("20060102150405") + "_initial_schema.sql"
	migrationFile := filepath.Join(migrationsDir, name)
	if err := os.WriteFile(migrationFile, []byte(sql), 0o644); err != nil {
		return fmt.Errorf("failed to write migration file: %w", err)
	}
	s.logger.Info(ctx, "migration written", zap.String("file", migrationFile))

	// Init only when the project has no Supabase config yet.
	configFile := filepath.Join(s.projectDir, "supabase", "config.toml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if _, err := s.runner.Run(ctx, s.projectDir, s.command, "supabase", "init"); err != nil {
			return fmt.Errorf("supabase init failed: %w", err)
		}
	}

	if _, err := s.runner.Run(ctx, s.projectDir, s.command, "supabase", "login"); err != nil {
		return fmt.Errorf("supabase login failed: %w", err)
	}
	if _, err := s.runner.Run(ctx, s.projectDir, s.command, "supabase", "link", "--project-ref", ref); err != nil {
		return fmt.Errorf("supabase link failed: %w", err)
	}
	if _, err := s.runner.Run(ctx, s.projectDir, s.command, "supabase", "db", "push"); err != nil {
		return fmt.Errorf("supabase db push failed: %w", err)
	}

	s.logger.Info(ctx, "migration applied", zap.String("project_ref", ref))
	return nil
}

// ensureCLI checks the Supabase CLI is invocable, installing it as a dev
// dependency when missing.
func (s *Service) ensureCLI(ctx context.Context) error {
	if _, err := s.runner.Run(ctx, s.projectDir, s.command, "supabase", "--version"); err == nil {
		return nil
	}
	s.logger.Warn(ctx, "supabase cli not found, installing")
	if _, err := s.runner.Run(ctx, s.projectDir, "npm", "install", "supabase", "--save-dev"); err != nil {
		return fmt.Errorf("failed to install supabase cli: %w", err)
	}
	return nil
}

// WriteEnv writes the project's .env.local with the Supabase URL and
// keys.
func (s *Service) WriteEnv(ctx context.Context, creds Credentials) error {
	ref, err := NormalizeProjectRef(creds.ProjectRef)
	if err != nil {
		return err
	}

	content := fmt.Sprintf(`NEXT_PUBLIC_SUPABASE_URL=https://%s.supabase.co
NEXT_PUBLIC_SUPABASE_ANON_KEY=%s
SUPABASE_SERVICE_ROLE_KEY=%s
`, ref, creds.AnonKey.Value(), creds.ServiceKey.Value())

	envPath := filepath.Join(s.projectDir, ".env.local")
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write environment file: %w", err)
	}
	s.logger.Info(ctx, "environment file written", zap.String("path", envPath))
	return nil
}

// Setup runs the whole provisioning flow: collect credentials, apply the
// migration, write the environment file. Configured credentials are used
// as-is; otherwise the operator is prompted.
func (s *Service) Setup(ctx context.Context, ps *spec.ProjectSpec) error {
	creds, err := s.credentials()
	if err != nil {
		return err
	}
	if err := s.Apply(ctx, ps, creds.ProjectRef); err != nil {
		return err
	}
	return s.WriteEnv(ctx, creds)
}

// credentials returns the configured credentials when complete, prompting
// the operator otherwise.
func (s *Service) credentials() (Credentials, error) {
	if s.Configured() {
		return s.creds, nil
	}
	return s.promptCredentials()
}

// promptCredentials collects the Supabase project credentials from the
// operator.
func (s *Service) promptCredentials() (Credentials, error) {
	ref, err := s.prompter.Input("Supabase Project Reference or URL:")
	if err != nil {
		return Credentials{}, err
	}
	anon, err := s.prompter.Input("Anon Key (public):")
	if err != nil {
		return Credentials{}, err
	}
	service, err := s.prompter.Input("Service Role Key (secret):")
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{
		ProjectRef: ref,
		AnonKey:    config.Secret(anon),
		ServiceKey: config.Secret(service),
	}, nil
}
