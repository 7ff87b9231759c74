package query

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/vecrun/internal/index"
)

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingBuilder builds queries by embedding the topic text through an
// embedding provider, typically wrapped in a cache decorator.
type EmbeddingBuilder struct {
	embed Embedder
}

// NewEmbeddingBuilder creates a builder over an embedder chain.
func NewEmbeddingBuilder(embed Embedder) *EmbeddingBuilder {
	return &EmbeddingBuilder{embed: embed}
}

// Build embeds text into a query vector.
func (b *EmbeddingBuilder) Build(ctx context.Context, field, text string, ef int) (index.Query, error) {
	vec, err := b.embed.Embed(ctx, text)
	if err != nil {
		return index.Query{}, fmt.Errorf("embed query: %w", err)
	}
	return index.Query{Field: field, Vector: vec, EF: ef}, nil
}
