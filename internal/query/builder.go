// Package query turns raw topic text into executable index queries. Builder
// variants are selected by name through a registry populated at process start.
package query

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/vecrun/internal/domain"
	"github.com/kailas-cloud/vecrun/internal/index"
)

// Builder constructs an executable query against the named vector field from
// raw topic text, with ef as the search-breadth parameter.
type Builder interface {
	Build(ctx context.Context, field, text string, ef int) (index.Query, error)
}

// Registry maps variant names to builder factories.
type Registry struct {
	factories map[string]func() Builder
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]func() Builder)}
}

// Register adds a variant under name, replacing any previous registration.
func (r *Registry) Register(name string, f func() Builder) {
	r.factories[name] = f
}

// Lookup resolves a variant name to a builder instance.
func (r *Registry) Lookup(name string) (Builder, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownQueryBuilder, name)
	}
	return f(), nil
}

// Builtin returns a registry with the variants that need no external services.
// The "openai" variant is registered by the composition root when embedding
// credentials are configured.
func Builtin() *Registry {
	r := NewRegistry()
	r.Register("vector", func() Builder { return &VectorBuilder{} })
	return r
}
