// Package agent is the boundary onto the external code-editing agent: the
// only path through which forge mutates the target project's files.
//
// Execute sends a free-form instruction and returns the agent's text
// reply. Plan sends an instruction that asks for file edits and parses the
// reply into a tagged EditPlan instead of trusting ad hoc key lookups.
// EditFile applies one edit through the agent using the partial-application
// marker convention, so supplied content merges with surrounding code
// rather than replacing the file.
package agent

import (
	"context"
	"errors"
	"fmt"
)

// ErrAgentFailed indicates the agent process returned an error.
var ErrAgentFailed = errors.New("agent invocation failed")

// Agent drives one code-editing session against a target project
// directory. One session spans a whole implementation run.
type Agent interface {
	// SessionID identifies the agent session for logs and history.
	SessionID() string

	// Execute sends an instruction and returns the agent's reply text.
	Execute(ctx context.Context, instruction string) (string, error)

	// Plan sends an instruction requesting file edits and parses the
	// reply into an EditPlan. A reply with no usable edit fields yields
	// an empty (non-nil) plan, not an error.
	Plan(ctx context.Context, instruction string) (*EditPlan, error)

	// EditFile applies content to path through the agent, using the
	// partial-application marker convention.
	EditFile(ctx context.Context, path, content string) error

	// Close releases the session.
	Close() error
}

// EditFile is one path/content pair inside a multi-file plan.
type EditFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// EditPlan is the agent's reply to a per-unit planning call: either a
// single file edit (FilePath + Content) or a list of Files. Both may be
// absent, in which case the plan is empty and no edit is applied.
type EditPlan struct {
	FilePath string     `json:"file_path,omitempty"`
	Content  string     `json:"content,omitempty"`
	Files    []EditFile `json:"files,omitempty"`
}

// Empty reports whether the plan carries no applicable edit.
func (p *EditPlan) Empty() bool {
	if p == nil {
		return true
	}
	if p.FilePath != "" && p.Content != "" {
		return false
	}
	for _, f := range p.Files {
		if f.Path != "" && f.Content != "" {
			return false
		}
	}
	return true
}

// Edits returns the applicable path/content pairs in order, dropping
// entries missing either field.
func (p *EditPlan) Edits() []EditFile {
	if p == nil {
		return nil
	}
	var out []EditFile
	if p.FilePath != "" && p.Content != "" {
		out = append(out, EditFile{Path: p.FilePath, Content: p.Content})
	}
	for _, f := range p.Files {
		if f.Path != "" && f.Content != "" {
			out = append(out, f)
		}
	}
	return out
}

// Edit marker convention. The instruction wrapping an EditFile call tells
// the agent the block applies into the existing file, preserving
// surrounding code.
const (
	editMarkerOpen  = "<<<FORGE_EDIT %s>>>"
	editMarkerClose = "<<<END_FORGE_EDIT>>>"
)

// editInstruction builds the instruction for one file edit.
func editInstruction(path, content string) string {
	return fmt.Sprintf(`Apply the following change to %s. The block below is a partial edit: merge it into the existing file, preserving surrounding code that it does not touch. Create the file if it does not exist.

`+editMarkerOpen+`
%s
`+editMarkerClose, path, path, content)
}
