package telemetry

import (
	"testing"
	"time"

	"github.com/fyrsmithlabs/forge/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.Equal(t, "grpc", cfg.Protocol)
	assert.Equal(t, "forge", cfg.ServiceName)
	assert.Equal(t, 1.0, cfg.Sampling.Rate)
	assert.Equal(t, 15*time.Second, cfg.Metrics.ExportInterval.Duration())
	assert.Equal(t, 5*time.Second, cfg.Shutdown.Timeout.Duration())

	require.NoError(t, cfg.Validate())
}

func TestFromApp(t *testing.T) {
	app := config.TelemetryConfig{
		Enabled:     true,
		Endpoint:    "collector.internal:4318",
		Protocol:    "http",
		Insecure:    false,
		SampleRatio: 0.25,
	}

	cfg := FromApp(app, "1.2.3")

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "collector.internal:4318", cfg.Endpoint)
	assert.Equal(t, "http", cfg.Protocol)
	assert.False(t, cfg.Insecure)
	assert.Equal(t, 0.25, cfg.Sampling.Rate)
	assert.Equal(t, "forge", cfg.ServiceName)
	assert.Equal(t, "1.2.3", cfg.ServiceVersion)
}

func TestFromAppKeepsDefaults(t *testing.T) {
	cfg := FromApp(config.TelemetryConfig{Enabled: true, Insecure: true, SampleRatio: 1.0}, "")

	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.Equal(t, "grpc", cfg.Protocol)
	assert.Equal(t, "0.1.0", cfg.ServiceVersion)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "disabled skips validation",
			mutate: func(c *Config) { c.Enabled = false; c.Endpoint = "" },
		},
		{
			name:   "enabled with defaults",
			mutate: func(c *Config) { c.Enabled = true },
		},
		{
			name:   "http protocol",
			mutate: func(c *Config) { c.Enabled = true; c.Protocol = "http" },
		},
		{
			name:    "missing endpoint",
			mutate:  func(c *Config) { c.Enabled = true; c.Endpoint = "" },
			wantErr: "endpoint is required",
		},
		{
			name:    "bad protocol",
			mutate:  func(c *Config) { c.Enabled = true; c.Protocol = "udp" },
			wantErr: "protocol must be grpc or http",
		},
		{
			name:    "missing service name",
			mutate:  func(c *Config) { c.Enabled = true; c.ServiceName = "" },
			wantErr: "service_name is required",
		},
		{
			name:    "missing service version",
			mutate:  func(c *Config) { c.Enabled = true; c.ServiceVersion = "" },
			wantErr: "service_version is required",
		},
		{
			name: "insecure remote endpoint",
			mutate: func(c *Config) {
				c.Enabled = true
				c.Endpoint = "collector.example.com:4317"
			},
			wantErr: "insecure connections to remote endpoints",
		},
		{
			name: "insecure loopback ok",
			mutate: func(c *Config) {
				c.Enabled = true
				c.Endpoint = "127.0.0.1:4317"
			},
		},
		{
			name: "insecure bracketed ipv6 ok",
			mutate: func(c *Config) {
				c.Enabled = true
				c.Endpoint = "[::1]:4317"
			},
		},
		{
			name: "secure remote ok",
			mutate: func(c *Config) {
				c.Enabled = true
				c.Endpoint = "collector.example.com:4317"
				c.Insecure = false
			},
		},
		{
			name:    "sampling rate too high",
			mutate:  func(c *Config) { c.Enabled = true; c.Sampling.Rate = 1.5 },
			wantErr: "sampling.rate",
		},
		{
			name:    "sampling rate negative",
			mutate:  func(c *Config) { c.Enabled = true; c.Sampling.Rate = -0.1 },
			wantErr: "sampling.rate",
		},
		{
			name: "zero metrics interval",
			mutate: func(c *Config) {
				c.Enabled = true
				c.Metrics.ExportInterval = 0
			},
			wantErr: "metrics.export_interval",
		},
		{
			name: "zero shutdown timeout",
			mutate: func(c *Config) {
				c.Enabled = true
				c.Shutdown.Timeout = 0
			},
			wantErr: "shutdown.timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestIsLocalEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		want     bool
	}{
		{"localhost:4317", true},
		{"localhost", true},
		{"127.0.0.1:4317", true},
		{"127.1.2.3:4317", true},
		{"[::1]:4317", true},
		{"[::1]", true},
		{"http://localhost:4318", true},
		{"collector.example.com:4317", false},
		{"10.0.0.5:4317", false},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			cfg := &Config{Endpoint: tt.endpoint}
			assert.Equal(t, tt.want, cfg.isLocalEndpoint())
		})
	}
}
