package services

import (
	"github.com/fyrsmithlabs/forge/internal/history"
	"github.com/fyrsmithlabs/forge/internal/intent"
	"github.com/fyrsmithlabs/forge/internal/llm"
	"github.com/fyrsmithlabs/forge/internal/secrets"
	"github.com/fyrsmithlabs/forge/internal/spec"
	"github.com/fyrsmithlabs/forge/internal/specgen"
)

// Registry provides access to the shared pipeline services.
// Use accessor methods to retrieve individual services.
type Registry interface {
	LLM() llm.Client
	Intents() *intent.Service
	Generator() *specgen.Service
	SpecStore() *spec.Store
	Scrubber() secrets.Scrubber

	// History may be nil when run recording is disabled.
	History() *history.Store
}

// Options configures the registry with service instances.
type Options struct {
	LLM       llm.Client
	Intents   *intent.Service
	Generator *specgen.Service
	SpecStore *spec.Store
	Scrubber  secrets.Scrubber
	History   *history.Store
}

// registry is the concrete implementation of Registry.
type registry struct {
	llm       llm.Client
	intents   *intent.Service
	generator *specgen.Service
	specStore *spec.Store
	scrubber  secrets.Scrubber
	history   *history.Store
}

// NewRegistry creates a new service registry.
func NewRegistry(opts Options) Registry {
	return &registry{
		llm:       opts.LLM,
		intents:   opts.Intents,
		generator: opts.Generator,
		specStore: opts.SpecStore,
		scrubber:  opts.Scrubber,
		history:   opts.History,
	}
}

func (r *registry) LLM() llm.Client             { return r.llm }
func (r *registry) Intents() *intent.Service    { return r.intents }
func (r *registry) Generator() *specgen.Service { return r.generator }
func (r *registry) SpecStore() *spec.Store      { return r.specStore }
func (r *registry) Scrubber() secrets.Scrubber  { return r.scrubber }
func (r *registry) History() *history.Store     { return r.history }
