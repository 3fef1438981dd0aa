package spec

// FileMode indicates how a generated file applies to the project.
type FileMode string

const (
	// FileCreate writes a new file.
	FileCreate FileMode = "create"
	// FileModify updates an existing file in place.
	FileModify FileMode = "modify"
	// FileDelete removes an existing file.
	FileDelete FileMode = "delete"
)

// FileContent describes one file produced by a generation step.
type FileContent struct {
	Path    string   `json:"path"`
	Content string   `json:"content"`
	Mode    FileMode `json:"mode"`

	// ModifyStrategy hints how a modify should merge with existing
	// content (e.g. replace, append). Optional.
	ModifyStrategy string `json:"modify_strategy,omitempty"`
}

// GeneratedCode bundles the outcome of one generation run: the files to
// apply, package dependencies to install, and any errors the generator
// reported. Single-use within one run; nothing here persists.
type GeneratedCode struct {
	Files        []FileContent `json:"files"`
	Dependencies []string      `json:"dependencies"`
	Errors       []string      `json:"errors"`
}
