// Package config provides configuration loading for forge.
//
// Configuration is loaded from a YAML file with environment variable
// overrides and hardcoded defaults. See LoadWithFile for precedence and
// the security constraints on config file location and permissions.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the complete forge configuration.
type Config struct {
	LLM       LLMConfig       `koanf:"llm"`
	Agent     AgentConfig     `koanf:"agent"`
	Specs     SpecsConfig     `koanf:"specs"`
	Database  DatabaseConfig  `koanf:"database"`
	Template  TemplateConfig  `koanf:"template"`
	History   HistoryConfig   `koanf:"history"`
	Workspace WorkspaceConfig `koanf:"workspace"`
	Logging   LoggingConfig   `koanf:"logging"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// LLMConfig holds model provider configuration for the intent, spec, and
// migration generation calls.
type LLMConfig struct {
	// Provider selects the model backend: anthropic, openai, or gemini.
	Provider string `koanf:"provider"`

	// Model overrides the provider's default model.
	Model string `koanf:"model"`

	// APIKey authenticates against the provider.
	APIKey Secret `koanf:"api_key"`

	// BaseURL overrides the provider endpoint (proxies, test servers).
	BaseURL string `koanf:"base_url"`

	// MaxTokens caps the response size.
	MaxTokens int `koanf:"max_tokens"`

	// Timeout bounds a single request.
	Timeout Duration `koanf:"timeout"`

	// RequestsPerMinute is the client-side rate limit.
	RequestsPerMinute float64 `koanf:"requests_per_minute"`

	// Burst is the rate limiter burst size.
	Burst int `koanf:"burst"`

	// MaxRetries bounds retry attempts for retryable failures.
	MaxRetries int `koanf:"max_retries"`
}

// AgentConfig holds code-editing agent configuration.
type AgentConfig struct {
	// Command is the agent CLI binary.
	Command string `koanf:"command"`

	// Model optionally pins the agent's model.
	Model string `koanf:"model"`

	// PermissionMode is passed to the agent CLI; acceptEdits lets the
	// agent apply file edits without interactive approval.
	PermissionMode string `koanf:"permission_mode"`

	// Timeout bounds a single agent call.
	Timeout Duration `koanf:"timeout"`
}

// SpecsConfig holds spec persistence configuration.
type SpecsConfig struct {
	// Dir is the spec output directory.
	Dir string `koanf:"dir"`
}

// DatabaseConfig holds Supabase provisioning configuration.
type DatabaseConfig struct {
	// Command is the package runner used to invoke the Supabase CLI.
	Command string `koanf:"command"`

	// Timeout bounds a single CLI invocation.
	Timeout Duration `koanf:"timeout"`

	// ProjectRef preconfigures the Supabase project reference (or
	// https://<ref>.supabase.co URL). When set together with both keys,
	// provisioning never prompts; required for --yes runs that keep the
	// database phase.
	ProjectRef string `koanf:"project_ref"`

	// AnonKey is the project's public anon key.
	AnonKey Secret `koanf:"anon_key"`

	// ServiceKey is the project's service role key.
	ServiceKey Secret `koanf:"service_key"`
}

// TemplateConfig holds starter template configuration.
type TemplateConfig struct {
	// Token authenticates GitHub API calls; anonymous when unset.
	Token Secret `koanf:"token"`

	// DefaultRepo is the owner/repo used when none is given.
	DefaultRepo string `koanf:"default_repo"`
}

// HistoryConfig holds run history configuration.
type HistoryConfig struct {
	// Disabled turns off run recording. Recording is on by default and
	// best-effort: history failures never abort a run.
	Disabled bool `koanf:"disabled"`

	// Path overrides the database location. Defaults under the user's
	// data directory when empty.
	Path string `koanf:"path"`
}

// WorkspaceConfig holds target project preflight configuration.
type WorkspaceConfig struct {
	// RequireClean aborts implementation runs into dirty worktrees
	// instead of prompting.
	RequireClean bool `koanf:"require_clean"`
}

// LoggingConfig holds logger configuration.
type LoggingConfig struct {
	// Level is the minimum level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format selects the encoder: console or json.
	Format string `koanf:"format"`
}

// TelemetryConfig holds OpenTelemetry export configuration. Disabled by
// default; forge is a short-lived CLI and most runs need no collector.
type TelemetryConfig struct {
	Enabled bool `koanf:"enabled"`

	// Endpoint is the OTLP collector endpoint (host:port).
	Endpoint string `koanf:"endpoint"`

	// Protocol selects the OTLP transport: grpc or http.
	Protocol string `koanf:"protocol"`

	// Insecure disables TLS for the exporter connection.
	Insecure bool `koanf:"insecure"`

	// SampleRatio is the trace sampling ratio in [0, 1].
	SampleRatio float64 `koanf:"sample_ratio"`
}

// Supported LLM providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
)

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = ProviderAnthropic
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 4096
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = Duration(60 * time.Second)
	}
	if cfg.LLM.RequestsPerMinute == 0 {
		cfg.LLM.RequestsPerMinute = 50
	}
	if cfg.LLM.Burst == 0 {
		cfg.LLM.Burst = 5
	}
	if cfg.LLM.MaxRetries == 0 {
		cfg.LLM.MaxRetries = 3
	}

	if cfg.Agent.Command == "" {
		cfg.Agent.Command = "claude"
	}
	if cfg.Agent.PermissionMode == "" {
		cfg.Agent.PermissionMode = "acceptEdits"
	}
	if cfg.Agent.Timeout == 0 {
		cfg.Agent.Timeout = Duration(5 * time.Minute)
	}

	if cfg.Specs.Dir == "" {
		cfg.Specs.Dir = "specs"
	}

	if cfg.Database.Command == "" {
		cfg.Database.Command = "npx"
	}
	if cfg.Database.Timeout == 0 {
		cfg.Database.Timeout = Duration(2 * time.Minute)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}

	if cfg.Telemetry.Endpoint == "" {
		cfg.Telemetry.Endpoint = "localhost:4317"
	}
	if cfg.Telemetry.Protocol == "" {
		cfg.Telemetry.Protocol = "grpc"
	}
	if cfg.Telemetry.SampleRatio == 0 {
		cfg.Telemetry.SampleRatio = 1.0
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("invalid llm provider: %q (must be %s, %s, or %s)",
			c.LLM.Provider, ProviderAnthropic, ProviderOpenAI, ProviderGemini)
	}

	if c.LLM.MaxTokens < 1 {
		return errors.New("llm max_tokens must be positive")
	}
	if c.LLM.RequestsPerMinute <= 0 {
		return errors.New("llm requests_per_minute must be positive")
	}

	if c.Agent.Command == "" {
		return errors.New("agent command is required")
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid logging format: %q (must be console or json)", c.Logging.Format)
	}

	switch c.Telemetry.Protocol {
	case "grpc", "http":
	default:
		return fmt.Errorf("invalid telemetry protocol: %q (must be grpc or http)", c.Telemetry.Protocol)
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry sample_ratio must be in [0, 1], got %v", c.Telemetry.SampleRatio)
	}

	return nil
}
