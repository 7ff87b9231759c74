// Package topics loads topic files into topic sets. Reader variants are
// selected by name through a registry populated at process start; an unknown
// name is a configuration error.
package topics

import (
	"fmt"

	"github.com/kailas-cloud/vecrun/internal/domain"
)

// Reader parses one topic file into a topic set.
type Reader interface {
	Read(path string) (*domain.TopicSet, error)
}

// Registry maps variant names to reader factories.
type Registry struct {
	factories map[string]func() Reader
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]func() Reader)}
}

// Register adds a variant under name, replacing any previous registration.
func (r *Registry) Register(name string, f func() Reader) {
	r.factories[name] = f
}

// Lookup resolves a variant name to a reader instance.
func (r *Registry) Lookup(name string) (Reader, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTopicReader, name)
	}
	return f(), nil
}

// Builtin returns a registry with the standard reader variants.
func Builtin() *Registry {
	r := NewRegistry()
	r.Register("tsv", func() Reader { return &TSVReader{} })
	r.Register("tsv-int", func() Reader { return &TSVReader{NumericIDs: true} })
	r.Register("trec", func() Reader { return &TRECReader{} })
	r.Register("jsonl-vector", func() Reader { return &JSONLVectorReader{} })
	return r
}
