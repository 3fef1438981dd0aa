package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/forge/internal/config"
	"github.com/fyrsmithlabs/forge/internal/llm"
	"github.com/fyrsmithlabs/forge/internal/spec"
)

const testRef = "abcdefghij1234567890"

// fakeRunner records invocations and scripts failures per subcommand.
type fakeRunner struct {
	calls    []string
	failures map[string]error
}

func (r *fakeRunner) Run(ctx context.Context, dir string, name string, args ...string) (string, error) {
	call := name + " " + strings.Join(args, " ")
	r.calls = append(r.calls, call)
	for prefix, err := range r.failures {
		if strings.HasPrefix(call, prefix) {
			return "", err
		}
	}
	return "ok", nil
}

// inputPrompter replays scripted Input answers.
type inputPrompter struct {
	inputs []string
}

func (p *inputPrompter) Confirm(prompt string, def bool) (bool, error) { return def, nil }
func (p *inputPrompter) Select(prompt string, options []string) (int, error) {
	return 0, fmt.Errorf("unexpected select")
}
func (p *inputPrompter) Input(prompt string) (string, error) {
	if len(p.inputs) == 0 {
		return "", fmt.Errorf("unexpected input: %s", prompt)
	}
	v := p.inputs[0]
	p.inputs = p.inputs[1:]
	return v, nil
}

func tableSpec() *spec.ProjectSpec {
	return &spec.ProjectSpec{
		Name: "Tracker",
		Structure: spec.ProjectStructure{
			Database: []spec.SupabaseTable{
				{Name: "habits", SQLSchema: "CREATE TABLE habits (id uuid primary key)"},
			},
		},
	}
}

func newTestService(t *testing.T, client llm.Client, prompter *inputPrompter, runner CommandRunner) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	svc := NewService(client, prompter, runner, nil, config.DatabaseConfig{Command: "npx"}, dir)
	svc.now = func() time.Time { return time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC) }
	return svc, dir
}

func TestNormalizeProjectRef(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"bare ref", testRef, testRef, false},
		{"url", "https://" + testRef + ".supabase.co", testRef, false},
		{"url with path", "https://" + testRef + ".supabase.co/dashboard", testRef, false},
		{"too short", "abc123", "", true},
		{"non-alphanumeric", "abcdefghij12345678-0", "", true},
		{"malformed url", "supabase.co", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeProjectRef(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMigrationSQL(t *testing.T) {
	fake := llm.NewFake("```sql\nCREATE TABLE habits (id uuid primary key);\n```")
	svc, _ := newTestService(t, fake, nil, &fakeRunner{})

	sql, err := svc.MigrationSQL(context.Background(), tableSpec())
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE habits (id uuid primary key);", sql)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "text", calls[0].Kind)
	assert.Contains(t, calls[0].User, "Generate pgsql migration for:")
	assert.Contains(t, calls[0].System, "Do not include any RLS policies")
}

func TestMigrationSQLErrors(t *testing.T) {
	t.Run("model failure", func(t *testing.T) {
		fake := (&llm.Fake{}).QueueError(errors.New("down"))
		svc, _ := newTestService(t, fake, nil, &fakeRunner{})
		_, err := svc.MigrationSQL(context.Background(), tableSpec())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to generate SQL migration")
	})

	t.Run("empty response", func(t *testing.T) {
		fake := llm.NewFake("   ")
		svc, _ := newTestService(t, fake, nil, &fakeRunner{})
		_, err := svc.MigrationSQL(context.Background(), tableSpec())
		require.ErrorIs(t, err, llm.ErrEmptyResponse)
	})
}

func TestApplyWritesMigrationAndRunsCLI(t *testing.T) {
	fake := llm.NewFake("CREATE TABLE habits (id uuid primary key);")
	runner := &fakeRunner{}
	svc, dir := newTestService(t, fake, nil, runner)

	require.NoError(t, svc.Apply(context.Background(), tableSpec(), testRef))

	// Migration file has the timestamped name and the generated SQL.
	matches, err := filepath.Glob(filepath.Join(dir, "supabase", "migrations", "*_initial_schema.sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Regexp(t, regexp.MustCompile(`20260825103000_initial_schema\.sql$`), matches[0])

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE habits (id uuid primary key);", string(data))

	// CLI flow: version check, init (no config.toml), login, link, push.
	assert.Equal(t, []string{
		"npx supabase --version",
		"npx supabase init",
		"npx supabase login",
		"npx supabase link --project-ref " + testRef,
		"npx supabase db push",
	}, runner.calls)
}

func TestApplySkipsInitWhenConfigExists(t *testing.T) {
	fake := llm.NewFake("CREATE TABLE x (id int);")
	runner := &fakeRunner{}
	svc, dir := newTestService(t, fake, nil, runner)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "supabase"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "supabase", "config.toml"), []byte("[api]"), 0o644))

	require.NoError(t, svc.Apply(context.Background(), tableSpec(), testRef))
	assert.NotContains(t, runner.calls, "npx supabase init")
}

func TestApplyInstallsCLIOnMiss(t *testing.T) {
	fake := llm.NewFake("CREATE TABLE x (id int);")
	runner := &fakeRunner{failures: map[string]error{
		"npx supabase --version": errors.New("not found"),
	}}
	svc, _ := newTestService(t, fake, nil, runner)

	require.NoError(t, svc.Apply(context.Background(), tableSpec(), testRef))
	assert.Contains(t, runner.calls, "npm install supabase --save-dev")
}

func TestApplyRejectsBadRef(t *testing.T) {
	svc, _ := newTestService(t, llm.NewFake(), nil, &fakeRunner{})
	err := svc.Apply(context.Background(), tableSpec(), "short")
	require.ErrorIs(t, err, ErrInvalidProjectRef)
}

func TestApplyPushFailure(t *testing.T) {
	fake := llm.NewFake("CREATE TABLE x (id int);")
	runner := &fakeRunner{failures: map[string]error{
		"npx supabase db push": errors.New("connection refused"),
	}}
	svc, _ := newTestService(t, fake, nil, runner)

	err := svc.Apply(context.Background(), tableSpec(), testRef)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "supabase db push failed")
}

func TestWriteEnv(t *testing.T) {
	svc, dir := newTestService(t, llm.NewFake(), nil, &fakeRunner{})

	creds := Credentials{
		ProjectRef: "https://" + testRef + ".supabase.co",
		AnonKey:    config.Secret("anon-key-value"),
		ServiceKey: config.Secret("service-key-value"),
	}
	require.NoError(t, svc.WriteEnv(context.Background(), creds))

	data, err := os.ReadFile(filepath.Join(dir, ".env.local"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "NEXT_PUBLIC_SUPABASE_URL=https://"+testRef+".supabase.co\n")
	assert.Contains(t, content, "NEXT_PUBLIC_SUPABASE_ANON_KEY=anon-key-value\n")
	assert.Contains(t, content, "SUPABASE_SERVICE_ROLE_KEY=service-key-value\n")

	info, err := os.Stat(filepath.Join(dir, ".env.local"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestConfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
		want bool
	}{
		{"empty", config.DatabaseConfig{}, false},
		{"ref only", config.DatabaseConfig{ProjectRef: testRef}, false},
		{"missing service key", config.DatabaseConfig{
			ProjectRef: testRef, AnonKey: config.Secret("anon"),
		}, false},
		{"complete", config.DatabaseConfig{
			ProjectRef: testRef,
			AnonKey:    config.Secret("anon"),
			ServiceKey: config.Secret("service"),
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(llm.NewFake(), nil, &fakeRunner{}, nil, tt.cfg, t.TempDir())
			assert.Equal(t, tt.want, svc.Configured())
		})
	}
}

func TestSetupWithConfiguredCredentials(t *testing.T) {
	// Complete configured credentials make Setup non-interactive: the
	// prompter has no scripted answers, so any prompt would error.
	fake := llm.NewFake("CREATE TABLE habits (id uuid primary key);")
	runner := &fakeRunner{}
	dir := t.TempDir()
	cfg := config.DatabaseConfig{
		Command:    "npx",
		ProjectRef: "https://" + testRef + ".supabase.co",
		AnonKey:    config.Secret("anon-key-value"),
		ServiceKey: config.Secret("service-key-value"),
	}
	svc := NewService(fake, &inputPrompter{}, runner, nil, cfg, dir)
	svc.now = func() time.Time { return time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC) }

	require.NoError(t, svc.Setup(context.Background(), tableSpec()))

	assert.Contains(t, runner.calls, "npx supabase link --project-ref "+testRef)

	data, err := os.ReadFile(filepath.Join(dir, ".env.local"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "NEXT_PUBLIC_SUPABASE_ANON_KEY=anon-key-value\n")
}

func TestSetup(t *testing.T) {
	fake := llm.NewFake("CREATE TABLE habits (id uuid primary key);")
	runner := &fakeRunner{}
	prompter := &inputPrompter{inputs: []string{testRef, "anon", "service"}}
	svc, dir := newTestService(t, fake, prompter, runner)

	require.NoError(t, svc.Setup(context.Background(), tableSpec()))

	_, err := os.Stat(filepath.Join(dir, ".env.local"))
	require.NoError(t, err)
	assert.Empty(t, prompter.inputs)
	assert.Contains(t, runner.calls, "npx supabase db push")
}
