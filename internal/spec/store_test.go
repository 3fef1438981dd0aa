package spec

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSpec() *ProjectSpec {
	return &ProjectSpec{
		Name:        "My App",
		Description: "A todo application",
		Features:    []string{"User authentication", "Todo CRUD"},
		Structure: ProjectStructure{
			Pages: []Page{
				{Path: "/", Description: "Landing page", APIRoutes: []string{"/api/todos"}, Components: []string{"TodoList"}},
			},
			Components: []Component{
				{Name: "TodoList", Description: "Lists todos", IsClient: true},
			},
			APIRoutes: []APIRoute{
				{Path: "/api/todos", Method: "GET", Description: "List todos", Query: "select * from todos"},
			},
			Database: []SupabaseTable{
				{Name: "todos", SQLSchema: "CREATE TABLE todos (id uuid primary key)"},
			},
		},
	}
}

func TestStorePath(t *testing.T) {
	tests := []struct {
		name    string
		project string
		want    string
	}{
		{"spaces become underscores", "My App", "my_app_spec.json"},
		{"already lowercase", "todo", "todo_spec.json"},
		{"mixed case multiple words", "My Cool Tracker", "my_cool_tracker_spec.json"},
	}

	store := NewStore("specs")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, filepath.Join("specs", tt.want), store.Path(tt.project))
		})
	}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "specs")
	store := NewStore(dir)

	original := sampleSpec()
	path, err := store.Save(original)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "my_app_spec.json"), path)

	// File content is valid indented JSON.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, string(data), "\n  \"name\": \"My App\"")

	loaded, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestStoreSaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "specs")
	store := NewStore(dir)

	_, err := store.Save(sampleSpec())
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStoreLoadErrors(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	t.Run("missing file", func(t *testing.T) {
		_, err := store.Load(filepath.Join(dir, "absent_spec.json"))
		require.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(dir, "bad_spec.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
		_, err := store.Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse spec file")
	})

	t.Run("invalid spec", func(t *testing.T) {
		path := filepath.Join(dir, "empty_spec.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"name":""}`), 0o644))
		_, err := store.Load(path)
		require.Error(t, err)
	})
}

func TestStoreList(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "specs")
	store := NewStore(dir)

	// Missing directory lists nothing.
	paths, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, paths)

	b := sampleSpec()
	b.Name = "Beta"
	a := sampleSpec()
	a.Name = "Alpha"
	_, err = store.Save(b)
	require.NoError(t, err)
	_, err = store.Save(a)
	require.NoError(t, err)

	paths, err = store.List()
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "alpha_spec.json"), paths[0])
	assert.Equal(t, filepath.Join(dir, "beta_spec.json"), paths[1])
}
