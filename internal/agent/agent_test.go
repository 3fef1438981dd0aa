package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditPlanEmpty(t *testing.T) {
	tests := []struct {
		name string
		plan *EditPlan
		want bool
	}{
		{"nil plan", nil, true},
		{"zero value", &EditPlan{}, true},
		{"path without content", &EditPlan{FilePath: "a.ts"}, true},
		{"content without path", &EditPlan{Content: "x"}, true},
		{"single edit", &EditPlan{FilePath: "a.ts", Content: "x"}, false},
		{"files list", &EditPlan{Files: []EditFile{{Path: "a.ts", Content: "x"}}}, false},
		{"files with blank entries", &EditPlan{Files: []EditFile{{Path: "a.ts"}, {Content: "x"}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.plan.Empty())
		})
	}
}

func TestEditPlanEdits(t *testing.T) {
	plan := &EditPlan{
		FilePath: "components/TodoList.tsx",
		Content:  "export function TodoList() {}",
		Files: []EditFile{
			{Path: "lib/db.ts", Content: "export const db = 1"},
			{Path: "skipped.ts"}, // missing content, dropped
		},
	}

	edits := plan.Edits()
	require.Len(t, edits, 2)
	assert.Equal(t, "components/TodoList.tsx", edits[0].Path)
	assert.Equal(t, "lib/db.ts", edits[1].Path)
}

func TestParsePlan(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []EditFile
	}{
		{
			"structured output",
			`{"structured_output": {"file_path": "a.ts", "content": "x"}, "result": ""}`,
			[]EditFile{{Path: "a.ts", Content: "x"}},
		},
		{
			"plan json in result string",
			`{"result": "{\"file_path\": \"b.ts\", \"content\": \"y\"}"}`,
			[]EditFile{{Path: "b.ts", Content: "y"}},
		},
		{
			"fenced plan in result string",
			"{\"result\": \"```json\\n{\\\"files\\\": [{\\\"path\\\": \\\"c.ts\\\", \\\"content\\\": \\\"z\\\"}]}\\n```\"}",
			[]EditFile{{Path: "c.ts", Content: "z"}},
		},
		{
			"prose reply yields empty plan",
			`{"result": "I analyzed the project and found no changes needed."}`,
			nil,
		},
		{
			"unparseable output yields empty plan",
			`total garbage`,
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := parsePlan([]byte(tt.output))
			require.NotNil(t, plan)
			assert.Equal(t, tt.want, plan.Edits())
		})
	}
}

func TestParseResult(t *testing.T) {
	assert.Equal(t, "done", parseResult([]byte(`{"result": "done"}`)))
	assert.Equal(t, "raw text", parseResult([]byte("raw text\n")))
}

func TestEditInstructionMarkers(t *testing.T) {
	got := editInstruction("app/page.tsx", "export default function Page() {}")
	assert.Contains(t, got, "<<<FORGE_EDIT app/page.tsx>>>")
	assert.Contains(t, got, "<<<END_FORGE_EDIT>>>")
	assert.Contains(t, got, "export default function Page() {}")
	assert.Contains(t, got, "merge it into the existing file")
}

func TestFakeRecordsCallOrder(t *testing.T) {
	f := NewFake().
		QueueResult("analysis").
		QueuePlan(&EditPlan{FilePath: "a.ts", Content: "x"})

	ctx := context.Background()
	_, err := f.Execute(ctx, "analyze")
	require.NoError(t, err)
	plan, err := f.Plan(ctx, "component")
	require.NoError(t, err)
	require.NoError(t, f.EditFile(ctx, plan.FilePath, plan.Content))

	assert.Equal(t, []string{"execute", "plan", "edit"}, f.Methods())
}
