package run

import (
	"context"

	"github.com/kailas-cloud/vecrun/internal/domain"
	"github.com/kailas-cloud/vecrun/internal/index"
)

// Searcher executes a built query against the shared read-only index.
// Implementations must be safe for concurrent use.
type Searcher interface {
	Search(ctx context.Context, q index.Query, k int) ([]domain.ScoredDoc, error)
}

// QueryBuilder turns raw topic text into an executable query.
type QueryBuilder interface {
	Build(ctx context.Context, field, text string, ef int) (index.Query, error)
}

// TopicReader parses one topic file into a topic set.
type TopicReader interface {
	Read(path string) (*domain.TopicSet, error)
}

// Capabilities resolves pluggable variants by name. Lookup failure is a
// configuration error surfaced before any worker pool starts.
type Capabilities struct {
	TopicReader  func(name string) (TopicReader, error)
	QueryBuilder func(name string) (QueryBuilder, error)
}

// Config describes one run-file configuration: where the topics come from,
// how queries are built and executed, how results are post-processed, and
// where the run file goes.
type Config struct {
	Topics       []string
	TopicReader  string
	QueryBuilder string

	// TopicField is the topic field holding the query text.
	TopicField string

	Hits     int
	EFSearch int

	Output     string
	SkipExists bool

	// Parallelism bounds the per-query worker pool for this configuration.
	Parallelism int

	Post Options
}
