package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHome points HOME at a temp directory (symlinks resolved so the
// allowed-directory prefix check sees the same path) and returns the
// forge config dir within it.
func testHome(t *testing.T) string {
	t.Helper()
	home, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "forge")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	return dir
}

func writeConfig(t *testing.T, dir, content string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	return path
}

func TestLoadWithFileDefaults(t *testing.T) {
	testHome(t)

	cfg, err := LoadWithFile("")
	require.NoError(t, err)

	assert.Equal(t, ProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, 4096, cfg.LLM.MaxTokens)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout.Duration())
	assert.Equal(t, 50.0, cfg.LLM.RequestsPerMinute)
	assert.Equal(t, 3, cfg.LLM.MaxRetries)
	assert.Equal(t, "claude", cfg.Agent.Command)
	assert.Equal(t, "acceptEdits", cfg.Agent.PermissionMode)
	assert.Equal(t, "specs", cfg.Specs.Dir)
	assert.Equal(t, "npx", cfg.Database.Command)
	assert.False(t, cfg.History.Disabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.Endpoint)
	assert.Equal(t, "grpc", cfg.Telemetry.Protocol)
	assert.False(t, cfg.LLM.APIKey.IsSet())
}

func TestLoadWithFileYAML(t *testing.T) {
	dir := testHome(t)
	path := writeConfig(t, dir, `
llm:
  provider: openai
  model: gpt-4o
  api_key: sk-test-key
  timeout: 90s
agent:
  command: claude
  timeout: 10m
logging:
  level: debug
  format: json
telemetry:
  enabled: true
  endpoint: collector:4317
`, 0o600)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, "sk-test-key", cfg.LLM.APIKey.Value())
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout.Duration())
	assert.Equal(t, 10*time.Minute, cfg.Agent.Timeout.Duration())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "collector:4317", cfg.Telemetry.Endpoint)
}

func TestLoadWithFileEnvOverride(t *testing.T) {
	dir := testHome(t)
	path := writeConfig(t, dir, "llm:\n  provider: openai\n", 0o600)

	t.Setenv("FORGE_LLM_PROVIDER", "gemini")
	t.Setenv("FORGE_LLM_API_KEY", "env-key")
	t.Setenv("FORGE_LOGGING_LEVEL", "warn")

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "env-key", cfg.LLM.APIKey.Value())
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadWithFileInsecurePermissions(t *testing.T) {
	dir := testHome(t)
	path := writeConfig(t, dir, "llm:\n  provider: openai\n", 0o644)

	_, err := LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insecure config file permissions")
}

func TestLoadWithFileOutsideAllowedDirs(t *testing.T) {
	testHome(t)

	outside := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(outside, []byte("llm: {}"), 0o600))

	_, err := LoadWithFile(outside)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config path validation failed")
}

func TestLoadWithFileTooLarge(t *testing.T) {
	dir := testHome(t)
	big := "# " + strings.Repeat("x", maxConfigFileSize) + "\n"
	path := writeConfig(t, dir, big, 0o600)

	_, err := LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file too large")
}

func TestLoadWithFileInvalidProvider(t *testing.T) {
	dir := testHome(t)
	path := writeConfig(t, dir, "llm:\n  provider: cohere\n", 0o600)

	_, err := LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid llm provider")
}

func TestEnsureConfigDir(t *testing.T) {
	home, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	t.Setenv("HOME", home)

	require.NoError(t, EnsureConfigDir())

	info, err := os.Stat(filepath.Join(home, ".config", "forge"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}
