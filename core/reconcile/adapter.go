package reconcile

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownSource is returned when a configured source has no registered adapter.
var ErrUnknownSource = errors.New("unknown source")

// Adapter produces ItemUpdates for one external source.
// Implementations translate their records into Candidates and feed them to a
// Batch over the shared Index, in source order.
type Adapter interface {
	// Name returns the unique source name (e.g., "rym", "lastfm").
	Name() Source

	// Run fetches or reads the source and returns the proposed changes.
	// Any matched item lacking the source's ID has it written during Run.
	Run(ctx context.Context, index *Index) (*ItemUpdates, error)
}

// Factory builds an adapter on demand, so disabled sources never need their
// credentials or files.
type Factory func() (Adapter, error)

// Registry maps source names to adapter factories.
type Registry struct {
	order     []Source
	factories map[Source]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Source]Factory)}
}

// Register adds a factory for name, replacing any previous one.
func (r *Registry) Register(name Source, factory Factory) {
	if _, exists := r.factories[name]; !exists {
		r.order = append(r.order, name)
	}
	r.factories[name] = factory
}

// Names returns registered source names in registration order.
func (r *Registry) Names() []Source {
	return append([]Source(nil), r.order...)
}

// Resolve builds the adapters for names in the given order. Every name is
// validated before any factory runs.
func (r *Registry) Resolve(names []Source) ([]Adapter, error) {
	for _, name := range names {
		if _, ok := r.factories[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
		}
	}

	adapters := make([]Adapter, 0, len(names))
	for _, name := range names {
		adapter, err := r.factories[name]()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize %s adapter: %w", name, err)
		}
		adapters = append(adapters, adapter)
	}
	return adapters, nil
}
