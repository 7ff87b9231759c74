package run

import (
	"sort"
	"sync"

	"github.com/kailas-cloud/vecrun/internal/domain"
)

// Results collects the formatted block for each completed topic. Workers
// insert concurrently, each qid exactly once; readers iterate only after the
// scheduler has drained.
type Results struct {
	mu     sync.Mutex
	blocks map[domain.TopicID]string
}

// NewResults creates an empty result collection.
func NewResults() *Results {
	return &Results{blocks: make(map[domain.TopicID]string)}
}

// Put stores the block for qid.
func (r *Results) Put(qid domain.TopicID, block string) {
	r.mu.Lock()
	r.blocks[qid] = block
	r.mu.Unlock()
}

// Get returns the block for qid.
func (r *Results) Get(qid domain.TopicID) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blocks[qid]
	return b, ok
}

// Len returns the number of completed topics.
func (r *Results) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.blocks)
}

// IDs returns all qids in ascending natural order, the order run files are
// written in regardless of completion order.
func (r *Results) IDs() []domain.TopicID {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]domain.TopicID, 0, len(r.blocks))
	for id := range r.blocks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}
