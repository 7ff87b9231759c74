package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecrun/internal/cache"
	"github.com/kailas-cloud/vecrun/internal/config"
	"github.com/kailas-cloud/vecrun/internal/index"
	indexVecgo "github.com/kailas-cloud/vecrun/internal/index/vecgo"
	logpkg "github.com/kailas-cloud/vecrun/internal/logger"
	"github.com/kailas-cloud/vecrun/internal/metrics"
	"github.com/kailas-cloud/vecrun/internal/query"
	"github.com/kailas-cloud/vecrun/internal/run"
	"github.com/kailas-cloud/vecrun/internal/topics"
	"github.com/kailas-cloud/vecrun/internal/version"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		return 1
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting vecrun",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("index", cfg.Index.Path),
		zap.Int("runs", len(cfg.Runs)),
		zap.Int("threads", cfg.Search.Threads),
		zap.Int("parallelism", cfg.Search.Parallelism),
	)

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	var metricsSrv *metrics.Server
	if cfg.Metrics.Port > 0 {
		metricsSrv = metrics.NewServer(cfg.Metrics.Port, logger)
		metricsSrv.Start()
	}

	// Open the shared read-only index once; all workers search it concurrently.
	backends := index.NewRegistry()
	backends.Register("vecgo", indexVecgo.Open)

	handle, err := backends.Open(cfg.Index.Backend, cfg.Index.Path, cfg.Index.MMap)
	if err != nil {
		logger.Error("Failed to open index", zap.Error(err))
		return 1
	}
	defer func() {
		if err := handle.Close(); err != nil {
			logger.Error("Failed to close index", zap.Error(err))
		}
	}()
	logger.Info("Index opened", zap.String("backend", cfg.Index.Backend), zap.Bool("mmap", cfg.Index.MMap))

	builders, cleanup, err := buildQueryBuilders(cfg, logger)
	if err != nil {
		logger.Error("Failed to set up query builders", zap.Error(err))
		return 1
	}
	defer cleanup()

	readers := topics.Builtin()
	caps := run.Capabilities{
		TopicReader: func(name string) (run.TopicReader, error) {
			return readers.Lookup(name)
		},
		QueryBuilder: func(name string) (run.QueryBuilder, error) {
			return builders.Lookup(name)
		},
	}

	// Cancel the whole batch on SIGINT/SIGTERM; outstanding queries stop and
	// the cancellation propagates out of the orchestrator.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch := run.NewOrchestrator(handle, caps, cfg.Search.Threads, logger)

	start := time.Now()
	err = orch.Execute(ctx, runConfigs(cfg))
	elapsed := time.Since(start)

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		metricsSrv.Stop(shutdownCtx)
		cancel()
	}

	if err != nil {
		logger.Error("Batch failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return 1
	}

	logger.Info("Batch finished", zap.Duration("elapsed", elapsed))
	return 0
}

// buildQueryBuilders registers the builtin variants plus, when embedding
// credentials are configured, the "openai" variant with its optional
// Redis-backed cache. The returned cleanup closes the cache connection.
func buildQueryBuilders(cfg config.Config, logger *zap.Logger) (*query.Registry, func(), error) {
	reg := query.Builtin()
	cleanup := func() {}

	if cfg.Embedding.APIKey == "" {
		return reg, cleanup, nil
	}

	var embedder query.Embedder = query.NewOpenAIEmbedder(&query.OpenAIConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})

	if len(cfg.Embedding.CacheAddrs) > 0 {
		store, err := cache.New(cache.Config{
			Addrs:    cfg.Embedding.CacheAddrs,
			Password: cfg.Embedding.CachePass,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect embedding cache: %w", err)
		}
		cleanup = store.Close
		embedder = query.NewCachedEmbedder(embedder, store, logger)
		logger.Info("Embedding cache enabled", zap.Strings("addrs", cfg.Embedding.CacheAddrs))
	}

	reg.Register("openai", func() query.Builder {
		return query.NewEmbeddingBuilder(embedder)
	})
	logger.Info("Embedder created", zap.String("model", cfg.Embedding.Model), zap.Int("dimensions", cfg.Embedding.Dimensions))

	return reg, cleanup, nil
}

// runConfigs translates the YAML run list into orchestrator configurations.
func runConfigs(cfg config.Config) []run.Config {
	configs := make([]run.Config, 0, len(cfg.Runs))
	for _, r := range cfg.Runs {
		configs = append(configs, run.Config{
			Topics:       r.Topics,
			TopicReader:  r.TopicReader,
			QueryBuilder: r.QueryBuilder,
			TopicField:   r.TopicField,
			Hits:         r.Hits,
			EFSearch:     r.EFSearch,
			Output:       r.Output,
			SkipExists:   cfg.Search.SkipExists,
			Parallelism:  cfg.Search.Parallelism,
			Post: run.Options{
				Format:              run.Format(r.Format),
				RunTag:              r.RunTag,
				RemoveDuplicates:    r.RemoveDups,
				RemoveQuery:         r.RemoveQuery,
				MaxPassage:          r.MaxPassage,
				MaxPassageDelimiter: r.MaxPassageDelimiter,
				MaxPassageHits:      r.MaxPassageHits,
			},
		})
	}
	return configs
}
