// Package orchestrator runs the implementation pipeline that turns a
// project specification into file edits on the target project.
//
// A run walks six phases in a fixed order: analyze, plan, components,
// routes, database, integration. Analysis summarizes the existing project;
// the plan produced from it threads unchanged into every subsequent
// per-unit call. Each component, API route, and database table gets one
// planning call whose returned edits are applied immediately through the
// code-editing agent; the integration phase wires the generated pieces
// together.
//
// Execution is sequential and fail-fast. The first error from any model
// call or file edit aborts the run; edits already applied remain on disk
// and nothing is rolled back. Cancellation is honored between units.
package orchestrator
