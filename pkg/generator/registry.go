package generator

import (
	"fmt"
	"sync"

	"github.com/goliatone/go-lowcodegen/pkg/artifact"
)

// Registry stores builders by kind, providing discovery and duplication
// safeguards.
type Registry struct {
	mu       sync.RWMutex
	builders map[artifact.Kind]Builder
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[artifact.Kind]Builder),
	}
}

// Default returns a registry holding the builder for every known kind.
func Default() *Registry {
	registry := NewRegistry()
	registry.MustRegister(EntityBuilder{})
	registry.MustRegister(EnumerationBuilder{})
	registry.MustRegister(MicroflowBuilder{})
	registry.MustRegister(PageBuilder{})
	registry.MustRegister(SecurityRoleBuilder{})
	registry.MustRegister(WorkflowBuilder{})
	return registry
}

// Register adds a builder by its Kind(). Duplicate kinds return an error.
func (r *Registry) Register(builder Builder) error {
	if builder == nil {
		return fmt.Errorf("generator: builder is required")
	}
	kind := builder.Kind()
	if _, ok := artifact.Lookup(kind); !ok {
		return fmt.Errorf("generator: unknown kind %q", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.builders[kind]; exists {
		return fmt.Errorf("generator: builder %q already registered", kind)
	}

	r.builders[kind] = builder
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(builder Builder) {
	if err := r.Register(builder); err != nil {
		panic(err)
	}
}

// Get retrieves a builder by kind.
func (r *Registry) Get(kind artifact.Kind) (Builder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	builder, ok := r.builders[kind]
	if !ok {
		return nil, fmt.Errorf("generator: builder %q not found", kind)
	}
	return builder, nil
}

// MustGet panics if the builder is missing.
func (r *Registry) MustGet(kind artifact.Kind) Builder {
	builder, err := r.Get(kind)
	if err != nil {
		panic(err)
	}
	return builder
}

// List returns the registered kinds in generation order.
func (r *Registry) List() []artifact.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]artifact.Kind, 0, len(r.builders))
	for _, kind := range artifact.Kinds() {
		if _, ok := r.builders[kind]; ok {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

// Has reports whether a builder is registered for kind.
func (r *Registry) Has(kind artifact.Kind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.builders[kind]
	return ok
}
