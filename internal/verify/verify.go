// Package verify holds the post-generation verification and repair
// contracts. Neither flow is implemented yet; the interfaces pin the
// shapes a future implementation will fill so the rest of the pipeline
// can already reference them.
package verify

import (
	"context"
	"errors"

	"github.com/fyrsmithlabs/forge/internal/spec"
)

// ErrNotImplemented is returned by every stubbed operation.
var ErrNotImplemented = errors.New("verification is not implemented")

// Tester exercises a generated project's declared endpoints and reports
// build or runtime errors.
type Tester interface {
	Test(ctx context.Context, ps *spec.ProjectSpec, dir string) (*spec.BuildErrorReport, error)
}

// Repairer turns a build error report into a proposed fix.
type Repairer interface {
	// Analyze diagnoses the report against the failing source.
	Analyze(ctx context.Context, report *spec.BuildErrorReport, source string) (*spec.ErrorAnalysis, error)

	// Propose turns an analysis into the repair agent's next response.
	Propose(ctx context.Context, analysis *spec.ErrorAnalysis) (*spec.AgentResponse, error)
}

// Unimplemented satisfies both interfaces with ErrNotImplemented.
type Unimplemented struct{}

func (Unimplemented) Test(ctx context.Context, ps *spec.ProjectSpec, dir string) (*spec.BuildErrorReport, error) {
	return nil, ErrNotImplemented
}

func (Unimplemented) Analyze(ctx context.Context, report *spec.BuildErrorReport, source string) (*spec.ErrorAnalysis, error) {
	return nil, ErrNotImplemented
}

func (Unimplemented) Propose(ctx context.Context, analysis *spec.ErrorAnalysis) (*spec.AgentResponse, error) {
	return nil, ErrNotImplemented
}

var (
	_ Tester   = Unimplemented{}
	_ Repairer = Unimplemented{}
)
