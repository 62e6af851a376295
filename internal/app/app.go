package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"DigestCurator/internal/bucket"
	"DigestCurator/internal/config"
	"DigestCurator/internal/curator"
	"DigestCurator/internal/dedupe"
	"DigestCurator/internal/infrastructure/llm"
	"DigestCurator/internal/infrastructure/ml"
	"DigestCurator/internal/infrastructure/parser"
	"DigestCurator/internal/infrastructure/scheduler"
	"DigestCurator/internal/infrastructure/storage"
	"DigestCurator/internal/infrastructure/telegram"
	"DigestCurator/internal/logging"
	"DigestCurator/internal/metrics"
	"DigestCurator/internal/ports"
	"DigestCurator/internal/scanner"
	"DigestCurator/internal/scoring"
	"DigestCurator/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
	metrics   *metrics.Server
	db        *sql.DB
}

// New validates cfg and builds every adapter. Configuration problems, such
// as a missing completion key, are returned here rather than at run time.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	completer, err := NewCompleter(cfg.Completion)
	if err != nil {
		return nil, err
	}

	registry := scanner.NewRegistry()
	registry.Register(parser.NewArxivScanner(nil, logging.Component(baseLogger, "scanner.arxiv")))
	registry.Register(parser.NewRSSScanner(nil, logging.Component(baseLogger, "scanner.rss")))
	source := parser.NewStrategySource(registry, cfg.Sites, logging.Component(baseLogger, "source"))

	weights := scoring.DefaultWeights()
	if path := cfg.Curation.WeightsFile; path != "" {
		weights, err = scoring.LoadWeights(path)
		if err != nil {
			return nil, err
		}
	}
	weights.DecayDays = cfg.Curation.DecayDays

	application := &Application{cfg: cfg, logger: baseLogger}

	deps := usecase.PipelineDeps{
		Source:    source,
		Heuristic: scoring.NewHeuristicScorer(weights),
		Terms:     scoring.NewDefaultTermScorer(),
		Curator: curator.New(completer, curator.Config{
			BatchSize:   cfg.Curation.BatchSize,
			Concurrency: cfg.Curation.Concurrency,
		}, logging.Component(baseLogger, "curator"), curator.WithRouting(cfg.Curation.Routing)),
		Deduplicator: dedupe.New(cfg.Curation.SimilarityThreshold),
		Assembler:    bucket.NewAssembler(bucket.NewDirectory(cfg.Feeds), cfg.Bucket(), logging.Component(baseLogger, "assembler")),
		Logger:       logging.Component(baseLogger, "pipeline"),
		Options: usecase.Options{
			RecencyWindow:  cfg.Curation.RecencyWindow(),
			HybridScoring:  cfg.Curation.HybridScoring,
			MinHybridScore: cfg.Curation.MinHybridScore,
			DryRun:         cfg.Curation.DryRun,
		},
	}

	if cfg.Database.DSN != "" {
		db, err := storage.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		repo := storage.NewPostgresRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		application.db = db
		deps.Repository = repo
		deps.History = repo
	} else {
		baseLogger.Info("database dsn not set, selections will not be persisted")
	}

	if tg := cfg.Notifications.Telegram; tg.Enabled() {
		deps.Notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID)
	}

	application.pipeline = usecase.NewPipeline(deps)
	application.scheduler = usecase.NewScheduler(
		scheduler.NewCronScheduler(cfg.Scheduler.CronExpression, cfg.Scheduler.Location()),
		application.pipeline,
		logging.Component(baseLogger, "scheduler"),
	)
	application.metrics = metrics.NewServer(cfg.Metrics.Addr, logging.Component(baseLogger, "metrics"))

	return application, nil
}

// NewCompleter picks the completion adapter for the configured provider.
func NewCompleter(cfg config.CompletionConfig) (ports.Completer, error) {
	switch cfg.Provider {
	case config.ProviderGateway:
		return ml.NewClient(cfg), nil
	case config.ProviderOpenAI, "":
		c, err := llm.NewOpenAICompleter(cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.Provider)
	}
}

// Run performs a single pipeline execution at the current time.
func (a *Application) Run(ctx context.Context) (usecase.RunReport, error) {
	now := time.Now().In(a.cfg.Scheduler.Location())
	return a.pipeline.Run(ctx, now)
}

// Serve runs the pipeline on the configured schedule and exposes metrics
// until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	a.metrics.Start()
	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler started",
		"cron", a.cfg.Scheduler.CronExpression,
		"timezone", a.cfg.Scheduler.Location().String())

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return errors.Join(
		a.scheduler.Stop(shutdownCtx),
		a.metrics.Stop(shutdownCtx),
	)
}

// Close releases the database handle.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
