package run

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/vecrun/internal/domain"
	"github.com/kailas-cloud/vecrun/internal/index"
	"github.com/kailas-cloud/vecrun/internal/metrics"
)

// progressInterval is how many completions pass between progress log lines.
const progressInterval = 100

// Batch bundles the search parameters shared by every query of one run-file
// configuration.
type Batch struct {
	// TopicField is the topic field holding the query text.
	TopicField string
	Hits       int
	EFSearch   int
	TieBreak   index.TieBreak
	Post       Options
}

// Scheduler executes every topic in a set concurrently against the shared
// index, bounded by a fixed parallelism, and assembles the per-topic run-file
// blocks. One scheduler serves exactly one run-file configuration.
type Scheduler struct {
	searcher    Searcher
	builder     QueryBuilder
	parallelism int
	logger      *zap.Logger
}

// NewScheduler creates a scheduler. Parallelism below 1 is raised to 1.
func NewScheduler(searcher Searcher, builder QueryBuilder, parallelism int, logger *zap.Logger) *Scheduler {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Scheduler{
		searcher:    searcher,
		builder:     builder,
		parallelism: parallelism,
		logger:      logger,
	}
}

// Run executes all topics and returns the aggregated results. A single query
// failure cancels the remaining work and fails the whole batch: a run file
// with silently missing topics would be worse than no run file. Cancellation
// of ctx stops outstanding work and propagates to the caller.
func (s *Scheduler) Run(ctx context.Context, set *domain.TopicSet, b Batch) (*Results, error) {
	results := NewResults()
	var completed atomic.Int64
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)

	for _, qid := range set.IDs() {
		topic, _ := set.Get(qid)
		g.Go(func() error {
			if err := s.runQuery(ctx, qid, topic, b, results); err != nil {
				return err
			}
			if n := completed.Add(1); n%progressInterval == 0 {
				elapsed := time.Since(start)
				s.logger.Info("queries processed",
					zap.Int64("count", n),
					zap.Float64("qps", float64(n)/elapsed.Seconds()),
				)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	s.logger.Info("batch complete",
		zap.Int("queries", set.Len()),
		zap.Duration("elapsed", elapsed),
		zap.Float64("qps", float64(set.Len())/elapsed.Seconds()),
	)

	return results, nil
}

// runQuery executes one topic: build, search, order, post-process, aggregate.
func (s *Scheduler) runQuery(
	ctx context.Context, qid domain.TopicID, topic domain.Topic, b Batch, results *Results,
) error {
	text, ok := topic[b.TopicField]
	if !ok {
		return fmt.Errorf("topic %s: %w: %q", qid, domain.ErrTopicFieldMissing, b.TopicField)
	}

	q, err := s.builder.Build(ctx, index.VectorField, text, b.EFSearch)
	if err != nil {
		return fmt.Errorf("topic %s: %w", qid, err)
	}

	qstart := time.Now()
	docs, err := s.searcher.Search(ctx, q, b.Hits)
	metrics.QueryDuration.Observe(time.Since(qstart).Seconds())
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("topic %s: %w", qid, err)
	}
	metrics.QueriesTotal.WithLabelValues("success").Inc()

	index.SortCandidates(docs, b.TieBreak)
	results.Put(qid, Process(qid, docs, b.Post))
	return nil
}
