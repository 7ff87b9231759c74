// Package vecgo adapts a vecgo snapshot to the index access contract. The
// snapshot is a prebuilt, immutable index; vecgo's KNN search is safe for
// concurrent callers, which is what the batch scheduler relies on.
package vecgo

import (
	"context"
	"fmt"

	vg "github.com/hupe1980/vecgo"

	"github.com/kailas-cloud/vecrun/internal/domain"
	"github.com/kailas-cloud/vecrun/internal/index"
)

// Compile-time check: Store implements index.Handle.
var _ index.Handle = (*Store)(nil)

// Store is a read-only vecgo-backed index handle. Document identifiers are
// stored as the per-vector associated data in the snapshot.
type Store struct {
	db *vg.Vecgo[string]
}

// Open loads a vecgo snapshot from path. Snapshots always load zero-copy via
// mmap; the mmap flag is accepted for interface compatibility with backends
// that distinguish mapped and buffered access.
func Open(path string, _ bool) (index.Handle, error) {
	db, err := vg.NewFromFile[string](path)
	if err != nil {
		return nil, fmt.Errorf("open vecgo snapshot %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Search runs a KNN query and converts distances to similarity scores.
// Distance d maps to score 1/(1+d) so that smaller distances rank first under
// the descending-score contract.
func (s *Store) Search(ctx context.Context, q index.Query, k int) ([]domain.ScoredDoc, error) {
	// vecgo requires EF >= k when EF is set explicitly.
	ef := q.EF
	if ef > 0 && ef < k {
		ef = k
	}

	results, err := s.db.KNNSearch(ctx, q.Vector, k, func(o *vg.KNNSearchOptions) {
		o.EF = ef
	})
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}

	docs := make([]domain.ScoredDoc, 0, len(results))
	for _, r := range results {
		docs = append(docs, domain.ScoredDoc{
			DocID: r.Data,
			Score: 1.0 / (1.0 + float64(r.Distance)),
		})
	}
	return docs, nil
}

// Close unmaps the snapshot.
func (s *Store) Close() error {
	return s.db.Close()
}
