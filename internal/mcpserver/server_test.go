package mcpserver

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/forge/internal/intent"
	"github.com/fyrsmithlabs/forge/internal/llm"
	"github.com/fyrsmithlabs/forge/internal/spec"
	"github.com/fyrsmithlabs/forge/internal/specgen"
)

const specResponse = `{
  "name": "Notes",
  "description": "A notes app",
  "features": ["Create notes"],
  "structure": {
    "pages": [{"path": "/", "description": "Home", "api_routes": [], "components": []}],
    "components": [], "api_routes": [], "database": []
  }
}`

func newTestServer(t *testing.T, fake *llm.Fake) (*Server, *spec.Store) {
	t.Helper()
	store := spec.NewStore(filepath.Join(t.TempDir(), "specs"))
	intents := intent.NewService(fake)
	generator := specgen.NewService(fake, store)
	return NewServer("test", intents, generator, store), store
}

func TestHandleExtractIntent(t *testing.T) {
	fake := llm.NewFake(`{"features": ["Create notes", "Tag notes"]}`)
	srv, _ := newTestServer(t, fake)

	result, structured, err := srv.handleExtractIntent(context.Background(), nil, &ExtractIntentParams{
		Description: "a notes app",
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	out, ok := structured.(ExtractIntentResult)
	require.True(t, ok)
	assert.Equal(t, []string{"Create notes", "Tag notes"}, out.Features)
}

func TestHandleExtractIntentRequiresDescription(t *testing.T) {
	srv, _ := newTestServer(t, llm.NewFake())
	_, _, err := srv.handleExtractIntent(context.Background(), nil, &ExtractIntentParams{})
	require.Error(t, err)
}

func TestHandleGenerateSpecFromFeatures(t *testing.T) {
	fake := llm.NewFake(specResponse)
	srv, store := newTestServer(t, fake)

	_, structured, err := srv.handleGenerateSpec(context.Background(), nil, &GenerateSpecParams{
		Features: []string{"Create notes"},
	})
	require.NoError(t, err)

	out, ok := structured.(GenerateSpecResult)
	require.True(t, ok)
	assert.Equal(t, "Notes", out.Spec.Name)

	// Only the generation call ran; no extraction.
	assert.Len(t, fake.Calls(), 1)

	loaded, err := store.Load(out.Path)
	require.NoError(t, err)
	assert.Equal(t, "Notes", loaded.Name)
}

func TestHandleGenerateSpecFromDescription(t *testing.T) {
	fake := llm.NewFake(`{"features": ["Create notes"]}`, specResponse)
	srv, _ := newTestServer(t, fake)

	_, structured, err := srv.handleGenerateSpec(context.Background(), nil, &GenerateSpecParams{
		Description: "a notes app",
	})
	require.NoError(t, err)

	out, ok := structured.(GenerateSpecResult)
	require.True(t, ok)
	assert.Equal(t, "Notes", out.Spec.Name)
	assert.Len(t, fake.Calls(), 2)
}

func TestHandleGenerateSpecRequiresInput(t *testing.T) {
	srv, _ := newTestServer(t, llm.NewFake())
	_, _, err := srv.handleGenerateSpec(context.Background(), nil, &GenerateSpecParams{})
	require.Error(t, err)
}

func TestHandleReadSpec(t *testing.T) {
	srv, store := newTestServer(t, llm.NewFake())

	ps := &spec.ProjectSpec{
		Name: "Notes",
		Structure: spec.ProjectStructure{
			Pages: []spec.Page{{Path: "/", Description: "Home"}},
		},
	}
	path, err := store.Save(ps)
	require.NoError(t, err)

	_, structured, err := srv.handleReadSpec(context.Background(), nil, &ReadSpecParams{Path: path})
	require.NoError(t, err)

	loaded, ok := structured.(*spec.ProjectSpec)
	require.True(t, ok)
	assert.Equal(t, "Notes", loaded.Name)
}

func TestHandleReadSpecMissing(t *testing.T) {
	srv, store := newTestServer(t, llm.NewFake())
	_, _, err := srv.handleReadSpec(context.Background(), nil, &ReadSpecParams{
		Path: filepath.Join(store.Dir, "absent_spec.json"),
	})
	require.Error(t, err)
}
