package spec

// Records exchanged with the verification and repair flow. The flow itself
// is stubbed (see internal/verify); these shapes are the contract it will
// consume and produce.

// BuildError is one error extracted from build or test output.
type BuildError struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}

// BuildErrorReport aggregates the errors from one build attempt.
type BuildErrorReport struct {
	Errors []BuildError `json:"errors"`
}

// ErrorAnalysis is a model-produced diagnosis of a build error.
type ErrorAnalysis struct {
	Cause           string   `json:"cause"`
	SuggestedFix    string   `json:"suggested_fix"`
	RequiredImports []string `json:"required_imports,omitempty"`
	Dependencies    []string `json:"dependencies,omitempty"`
}

// AgentAction is one tool invocation a repair agent wants to perform.
type AgentAction struct {
	Tool    string `json:"tool"`
	Input   string `json:"input"`
	Thought string `json:"thought"`
}

// AgentResponse is a repair agent's reply: its reasoning, an optional next
// action, and a terminal status once it is done.
type AgentResponse struct {
	Thought     string       `json:"thought"`
	Action      *AgentAction `json:"action,omitempty"`
	Status      string       `json:"status"`
	Explanation string       `json:"explanation,omitempty"`
}

// FileOperation is the result of applying one file action.
type FileOperation struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
	Content string `json:"content,omitempty"`
}
