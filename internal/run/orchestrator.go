package run

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/vecrun/internal/domain"
	"github.com/kailas-cloud/vecrun/internal/index"
	"github.com/kailas-cloud/vecrun/internal/metrics"
)

// Orchestrator drives one or more run-file configurations over a shared index
// handle. Configurations run on an outer bounded pool, each with its own inner
// per-query pool, so one slow or failing run never stalls or kills a sibling.
type Orchestrator struct {
	searcher Searcher
	caps     Capabilities
	threads  int
	logger   *zap.Logger
}

// NewOrchestrator creates an orchestrator. Threads below 1 is raised to 1.
func NewOrchestrator(searcher Searcher, caps Capabilities, threads int, logger *zap.Logger) *Orchestrator {
	if threads < 1 {
		threads = 1
	}
	return &Orchestrator{
		searcher: searcher,
		caps:     caps,
		threads:  threads,
		logger:   logger,
	}
}

// Execute validates all configurations, then runs them on the outer pool.
// A configuration failure is logged and counted but does not cancel siblings;
// external cancellation stops everything and propagates. The returned error is
// nil only when every configuration succeeded or was skipped.
func (o *Orchestrator) Execute(ctx context.Context, configs []Config) error {
	if err := o.validate(configs); err != nil {
		return err
	}

	var failed atomic.Int64

	g := new(errgroup.Group)
	g.SetLimit(o.threads)

	for _, cfg := range configs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			log := o.logger.With(zap.String("output", cfg.Output))
			err := o.runOne(ctx, log, cfg)
			if err == nil {
				return nil
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			failed.Add(1)
			metrics.RunsTotal.WithLabelValues("error").Inc()
			log.Error("Run failed", zap.Error(err))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d runs failed", n, len(configs))
	}
	return nil
}

// validate resolves every capability by name and checks topic files up front,
// before any worker pool starts. Configuration errors abort the whole
// invocation with nothing written.
func (o *Orchestrator) validate(configs []Config) error {
	if len(configs) == 0 {
		return fmt.Errorf("no run configurations")
	}
	for _, cfg := range configs {
		if _, err := o.caps.TopicReader(cfg.TopicReader); err != nil {
			return err
		}
		if _, err := o.caps.QueryBuilder(cfg.QueryBuilder); err != nil {
			return err
		}
		if len(cfg.Topics) == 0 {
			return fmt.Errorf("run %s: no topic files", cfg.Output)
		}
		for _, p := range cfg.Topics {
			info, err := os.Stat(p)
			if err != nil {
				return fmt.Errorf("topics file %s: %w", p, err)
			}
			if info.IsDir() {
				return fmt.Errorf("topics file %s: is a directory", p)
			}
		}
		switch cfg.Post.Format {
		case FormatStandard, FormatMSMARCO:
		default:
			return fmt.Errorf("run %s: unknown output format %q", cfg.Output, cfg.Post.Format)
		}
	}
	return nil
}

// runOne executes a single configuration end to end.
func (o *Orchestrator) runOne(ctx context.Context, log *zap.Logger, cfg Config) error {
	if cfg.SkipExists {
		if _, err := os.Stat(cfg.Output); err == nil {
			log.Info("Run already exists, skipping")
			metrics.RunsTotal.WithLabelValues("skipped").Inc()
			return nil
		}
	}

	set, err := o.loadTopics(cfg)
	if err != nil {
		return err
	}
	log.Info("Topics loaded", zap.Int("count", set.Len()))

	builder, err := o.caps.QueryBuilder(cfg.QueryBuilder)
	if err != nil {
		return err
	}

	start := time.Now()
	sched := NewScheduler(o.searcher, builder, cfg.Parallelism, log)
	results, err := sched.Run(ctx, set, Batch{
		TopicField: cfg.TopicField,
		Hits:       cfg.Hits,
		EFSearch:   cfg.EFSearch,
		TieBreak:   index.TieBreakFor(set.Numeric()),
		Post:       cfg.Post,
	})
	if err != nil {
		return err
	}

	if err := WriteFile(cfg.Output, results); err != nil {
		return err
	}

	metrics.RunsTotal.WithLabelValues("success").Inc()
	metrics.RunDuration.Observe(time.Since(start).Seconds())
	log.Info("Run written", zap.Int("topics", results.Len()))
	return nil
}

// loadTopics merges all topic files of one configuration into a single set.
// Later files overwrite duplicate qids.
func (o *Orchestrator) loadTopics(cfg Config) (*domain.TopicSet, error) {
	reader, err := o.caps.TopicReader(cfg.TopicReader)
	if err != nil {
		return nil, err
	}

	set := domain.NewTopicSet()
	for _, path := range cfg.Topics {
		s, err := reader.Read(path)
		if err != nil {
			return nil, err
		}
		set.Merge(s)
	}
	if set.Len() == 0 {
		return nil, fmt.Errorf("run %s: topic files contained no topics", cfg.Output)
	}
	return set, nil
}
