package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.LLM.Provider = "bedrock" },
			wantErr: "invalid llm provider",
		},
		{
			name:    "zero max tokens",
			mutate:  func(c *Config) { c.LLM.MaxTokens = -1 },
			wantErr: "max_tokens must be positive",
		},
		{
			name:    "zero rate",
			mutate:  func(c *Config) { c.LLM.RequestsPerMinute = 0 },
			wantErr: "requests_per_minute must be positive",
		},
		{
			name:    "empty agent command",
			mutate:  func(c *Config) { c.Agent.Command = "" },
			wantErr: "agent command is required",
		},
		{
			name:    "bad logging format",
			mutate:  func(c *Config) { c.Logging.Format = "logfmt" },
			wantErr: "invalid logging format",
		},
		{
			name:    "bad telemetry protocol",
			mutate:  func(c *Config) { c.Telemetry.Protocol = "udp" },
			wantErr: "invalid telemetry protocol",
		},
		{
			name:    "sample ratio out of range",
			mutate:  func(c *Config) { c.Telemetry.SampleRatio = 1.5 },
			wantErr: "sample_ratio must be in [0, 1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyDefaultsPreservesExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.LLM.Provider = ProviderGemini
	cfg.LLM.Timeout = Duration(5 * time.Second)
	cfg.Agent.Command = "claude-dev"

	applyDefaults(cfg)

	assert.Equal(t, ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout.Duration())
	assert.Equal(t, "claude-dev", cfg.Agent.Command)
	// Untouched fields still get defaults.
	assert.Equal(t, 4096, cfg.LLM.MaxTokens)
	assert.Equal(t, "specs", cfg.Specs.Dir)
}
