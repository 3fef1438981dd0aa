// Package services provides the central service registry for forge.
//
// The registry bundles the pipeline services (intent extraction, spec
// generation, spec store, scrubber, run history) built during startup so
// commands can share one wired instance set. Use NewRegistry() to create
// a registry with service instances, then accessor methods to retrieve
// individual services.
package services
