// Package index defines the contract for read-only vector index access and the
// candidate ordering rules applied to search results.
package index

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/vecrun/internal/domain"
)

// VectorField is the name of the dense vector field in the index.
const VectorField = "vector"

// Query is an executable query against a named vector field. EF is the
// search-breadth parameter: how many candidates the index examines before
// returning the top k. Zero means the backend default.
type Query struct {
	Field  string
	Vector []float32
	EF     int
}

// Handle is an open read-only index. Search must be safe for concurrent use;
// the underlying index is immutable for the duration of a run.
type Handle interface {
	Search(ctx context.Context, q Query, k int) ([]domain.ScoredDoc, error)
	Close() error
}

// Opener opens an index at path. The mmap flag requests memory-mapped access
// where the backend distinguishes the two.
type Opener func(path string, mmap bool) (Handle, error)

// Registry maps backend names to openers. Lookup failure is a configuration
// error, reported before any search starts.
type Registry struct {
	openers map[string]Opener
}

// NewRegistry creates an empty backend registry.
func NewRegistry() *Registry {
	return &Registry{openers: make(map[string]Opener)}
}

// Register adds a backend under name, replacing any previous registration.
func (r *Registry) Register(name string, o Opener) {
	r.openers[name] = o
}

// Open opens an index using the named backend.
func (r *Registry) Open(name, path string, mmap bool) (Handle, error) {
	o, ok := r.openers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownIndexBackend, name)
	}
	return o(path, mmap)
}
