package specgen

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/forge/internal/llm"
	"github.com/fyrsmithlabs/forge/internal/spec"
)

const sampleResponse = `{
  "name": "My App",
  "description": "A todo application",
  "features": ["Todo CRUD"],
  "structure": {
    "pages": [{"path": "/", "description": "Home", "api_routes": ["/api/todos"], "components": ["TodoList"]}],
    "components": [{"name": "TodoList", "description": "Lists todos", "is_client": true}],
    "api_routes": [{"path": "/api/todos", "method": "GET", "description": "List todos", "query": "select * from todos"}],
    "database": [{"name": "todos", "sql_schema": "CREATE TABLE todos (id uuid primary key)"}]
  }
}`

func TestGeneratePersistsSpec(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "specs")
	store := spec.NewStore(dir)
	fake := llm.NewFake(sampleResponse)
	svc := NewService(fake, store)

	in := spec.Intent{
		Features:    []string{"Todo CRUD"},
		Preferences: map[string]any{"framework": "Next.js"},
	}
	ps, path, err := svc.Generate(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "My App", ps.Name)
	assert.Equal(t, filepath.Join(dir, "my_app_spec.json"), path)

	// Persisted JSON round-trips to an equivalent spec.
	loaded, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ps, loaded)

	// The request carried the full intent, preferences included.
	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].User, "Generate specification for:")
	assert.Contains(t, calls[0].User, `"Todo CRUD"`)
	assert.Contains(t, calls[0].User, `"framework": "Next.js"`)
	assert.Contains(t, calls[0].System, "Next.js 14 App router + Supabase")
}

func TestGenerateNoPartialFileOnFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "specs")
	store := spec.NewStore(dir)

	tests := []struct {
		name string
		fake *llm.Fake
	}{
		{"model failure", (&llm.Fake{}).QueueError(errors.New("provider down"))},
		{"malformed json", llm.NewFake(`{"name": "Broken"`)},
		{"invalid spec", llm.NewFake(`{"name": "", "structure": {}}`)},
		{"empty structure", llm.NewFake(`{"name": "Empty", "structure": {}}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.fake, store)
			_, _, err := svc.Generate(context.Background(), spec.Intent{Features: []string{"x"}})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "Failed to create specification")

			// No spec file was written.
			_, statErr := os.Stat(dir)
			assert.True(t, os.IsNotExist(statErr), "spec dir must not exist after failure")
		})
	}
}

func TestGenerateStripsFences(t *testing.T) {
	store := spec.NewStore(filepath.Join(t.TempDir(), "specs"))
	fake := llm.NewFake("```json\n" + sampleResponse + "\n```")
	svc := NewService(fake, store)

	ps, path, err := svc.Generate(context.Background(), spec.Intent{Features: []string{"x"}})
	require.NoError(t, err)
	assert.Equal(t, "My App", ps.Name)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
}
