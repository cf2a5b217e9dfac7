package fetcher

import (
	"fmt"

	"github.com/repozip/repozip/domain"
)

// Registry manages the registered archive retrieval strategies.
type Registry struct {
	strategies map[string]Factory
}

// Factory is a constructor function that creates a configured strategy.
type Factory func() domain.ArchiveFetcher

// NewRegistry creates an empty strategy registry.
func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[string]Factory),
	}
}

// Register adds a strategy factory under the given name (e.g. "direct").
func (r *Registry) Register(name string, factory Factory) {
	r.strategies[name] = factory
}

// Get returns a strategy instance for the given name.
func (r *Registry) Get(name string) (domain.ArchiveFetcher, error) {
	factory, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown retrieval strategy: %q", name)
	}
	return factory(), nil
}

// Names returns the list of registered strategy names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	return names
}
