// Package spec defines the project specification model and its on-disk
// persistence.
//
// A ProjectSpec describes one Next.js + Supabase application to scaffold:
// the feature list extracted from the user's request plus the structural
// breakdown (pages, components, API routes, database tables) that the
// implementation pipeline walks. Specs are persisted as indented JSON under
// a specs directory, one file per project, named after the normalized
// project name.
//
// The auxiliary file and repair records (FileContent, BuildError,
// AgentResponse, ...) describe generation results and the verification
// loop's data shapes. They are part of the persistence contract even where
// the verification flow itself is not yet wired.
package spec
