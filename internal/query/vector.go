package query

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/vecrun/internal/index"
)

// VectorBuilder parses topic text that already carries the query vector as a
// JSON float array, the layout produced by the jsonl-vector topic reader.
type VectorBuilder struct{}

// Build parses text into a query vector.
func (b *VectorBuilder) Build(_ context.Context, field, text string, ef int) (index.Query, error) {
	var vec []float32
	if err := json.Unmarshal([]byte(text), &vec); err != nil {
		return index.Query{}, fmt.Errorf("parse query vector: %w", err)
	}
	if len(vec) == 0 {
		return index.Query{}, fmt.Errorf("parse query vector: empty array")
	}
	return index.Query{Field: field, Vector: vec, EF: ef}, nil
}
