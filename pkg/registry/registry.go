// Package registry maps tool names to their schema and handler. It is
// populated once at startup and immutable afterward, so lookups need no
// locking.
package registry

import (
	"context"
	"fmt"

	"github.com/atelierlabs/workbench/pkg/domain"
	"github.com/atelierlabs/workbench/pkg/schema"
)

// Handler executes one tool with validated parameters. Handlers convert
// their own failures into error Results; a returned error means the tool
// could not produce a Result at all and is wrapped by the dispatcher.
type Handler func(ctx context.Context, args map[string]any) (domain.Result, error)

// Definition binds a tool name to its schema and handler.
type Definition struct {
	Name        string
	Description string
	Schema      schema.Schema
	Handler     Handler
}

// Registry holds tool definitions in registration order.
type Registry struct {
	defs  map[string]*Definition
	order []string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Register adds a definition. Names are unique within a registry.
func (r *Registry) Register(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if def.Handler == nil {
		return fmt.Errorf("tool %q: handler is required", def.Name)
	}
	if _, exists := r.defs[def.Name]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateName, def.Name)
	}
	r.defs[def.Name] = &def
	r.order = append(r.order, def.Name)
	return nil
}

// RegisterAll registers definitions in order, stopping at the first failure.
func (r *Registry) RegisterAll(defs ...Definition) error {
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the definition for name.
func (r *Registry) Lookup(name string) (*Definition, error) {
	def, ok := r.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrToolNotFound, name)
	}
	return def, nil
}

// List returns all definitions in registration order, for capability
// advertisement to the transport.
func (r *Registry) List() []*Definition {
	out := make([]*Definition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name])
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.order) }
