package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"newsdigest/internal/config"
	"newsdigest/internal/infrastructure/feed"
	"newsdigest/internal/infrastructure/llm"
	"newsdigest/internal/infrastructure/report"
	"newsdigest/internal/infrastructure/scheduler"
	"newsdigest/internal/infrastructure/storage"
	"newsdigest/internal/infrastructure/telegram"
	"newsdigest/internal/logging"
	"newsdigest/internal/ports"
	"newsdigest/internal/usecase"
)

// Application wires configuration to adapters and the pipeline. All
// handles are constructed once here and passed down explicitly.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	store    *storage.SQLiteStore
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := storage.Open(cfg.Database.Path, baseLogger.With("component", "storage"))
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	renderer, err := report.NewRenderer(cfg.Report.OutputDir, baseLogger.With("component", "report"))
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build renderer: %w", err)
	}

	var notifier ports.Notifier
	if tg := cfg.Notifications.Telegram; tg.BotToken != "" && tg.ChatID != "" {
		notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Fetcher:       feed.NewFetcher(nil),
		Store:         store,
		Enricher:      llm.NewGeminiEnricher(cfg.Gemini, baseLogger.With("component", "enricher")),
		Renderer:      renderer,
		Notifier:      notifier,
		Feeds:         cfg.Feeds,
		Logger:        baseLogger.With("component", "pipeline"),
		FeedDelay:     cfg.Pipeline.FeedDelay(),
		EnrichDelay:   cfg.Pipeline.EnrichDelay(),
		BatchLimit:    cfg.Pipeline.BatchLimit,
		RecencyWindow: cfg.Pipeline.RecencyWindow(),
		Location:      cfg.Scheduler.Location(),
	})

	return &Application{cfg: cfg, logger: baseLogger, store: store, pipeline: pipeline}, nil
}

// Run performs a single pipeline execution, or loops on the configured
// interval when daemon mode is enabled.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("close storage", "error", err)
		}
	}()

	if a.cfg.Scheduler.Enabled {
		driver := scheduler.NewIntervalScheduler(a.cfg.Scheduler.Interval())
		runner := usecase.NewRunner(driver, a.pipeline, a.logger.With("component", "runner"))
		return runner.Run(ctx)
	}

	now := time.Now().In(a.cfg.Scheduler.Location())
	return a.pipeline.Run(ctx, now)
}
