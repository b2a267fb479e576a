package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"newsdigest/internal/config"
	"newsdigest/internal/domain"
	"newsdigest/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Fetcher  ports.FeedFetcher
	Store    ports.ArticleStore
	Enricher ports.Enricher
	Renderer ports.ReportWriter
	Notifier ports.Notifier
	Feeds    []config.FeedConfig
	Logger   *slog.Logger

	FeedDelay     time.Duration
	EnrichDelay   time.Duration
	BatchLimit    int
	RecencyWindow time.Duration
	Location      *time.Location
}

// Pipeline runs the fetch, enrich, and render stages strictly in order.
// Stage-local failures degrade to "did less work"; only storage
// bootstrap failure aborts a run.
type Pipeline struct {
	fetcher  ports.FeedFetcher
	store    ports.ArticleStore
	enricher ports.Enricher
	renderer ports.ReportWriter
	notifier ports.Notifier
	feeds    []config.FeedConfig
	logger   *slog.Logger

	feedDelay     time.Duration
	enrichDelay   time.Duration
	batchLimit    int
	recencyWindow time.Duration
	location      *time.Location

	sleep func(time.Duration)
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	location := deps.Location
	if location == nil {
		location = time.Local
	}

	batchLimit := deps.BatchLimit
	if batchLimit <= 0 {
		batchLimit = 100
	}

	return &Pipeline{
		fetcher:       deps.Fetcher,
		store:         deps.Store,
		enricher:      deps.Enricher,
		renderer:      deps.Renderer,
		notifier:      deps.Notifier,
		feeds:         deps.Feeds,
		logger:        deps.Logger,
		feedDelay:     deps.FeedDelay,
		enrichDelay:   deps.EnrichDelay,
		batchLimit:    batchLimit,
		recencyWindow: deps.RecencyWindow,
		location:      location,
		sleep:         time.Sleep,
	}
}

// Run executes one full pass: Init -> Fetch -> Enrich -> Render -> Done.
// No state crosses stages except through the store.
func (p *Pipeline) Run(ctx context.Context, now time.Time) error {
	started := now.In(p.location)
	date := started.Format("2006-01-02")

	p.log().Info("pipeline started", "date", date)

	if err := p.store.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrap storage: %w", err)
	}

	ingested := p.runFetch(ctx, started)
	enriched := p.runEnrich(ctx)
	reportPath := p.runRender(ctx, date)
	p.notify(ctx, date, ingested, enriched, reportPath)

	p.log().Info("pipeline finished", "date", date,
		"ingested", ingested, "enriched", enriched, "report", reportPath)
	return nil
}

// runFetch walks the configured feeds sequentially. A feed that fails to
// fetch or parse is logged and skipped; the others continue unaffected.
func (p *Pipeline) runFetch(ctx context.Context, started time.Time) int {
	p.log().Info("fetch stage", "feeds", len(p.feeds))

	cutoff := started.Add(-p.recencyWindow)
	collectedDate := started.Format("2006-01-02")

	ingested := 0
	for i, feedCfg := range p.feeds {
		if i > 0 && p.feedDelay > 0 {
			p.log().Debug("waiting before next feed", "delay", p.feedDelay)
			p.sleep(p.feedDelay)
		}

		logger := p.log().With("feed", feedCfg.Name)

		sourceID, err := p.store.GetOrCreateSource(ctx, feedCfg.Name, feedCfg.URL, feedCfg.Language)
		if err != nil {
			logger.Warn("resolve source failed, skipping feed", "error", err)
			continue
		}

		entries, err := p.fetcher.Fetch(ctx, feedCfg.URL)
		if err != nil {
			logger.Warn("feed fetch failed, skipping feed", "error", err)
			continue
		}

		kept, skipped := 0, 0
		for _, entry := range entries {
			if entry.URL == "" {
				continue
			}
			// Dated entries older than the recency window are dropped;
			// undated entries are always kept.
			if p.recencyWindow > 0 && entry.PublishedAt != nil && entry.PublishedAt.Before(cutoff) {
				skipped++
				continue
			}

			err := p.store.InsertArticle(ctx, domain.NewArticle{
				SourceID:      sourceID,
				Title:         entry.Title,
				URL:           entry.URL,
				Summary:       entry.Summary,
				PublishedAt:   entry.PublishedAt,
				CollectedDate: collectedDate,
			})
			if err != nil {
				logger.Warn("store article failed", "url", entry.URL, "error", err)
				continue
			}
			kept++
		}

		logger.Info("feed processed", "entries", len(entries), "kept", kept, "skipped_old", skipped)
		ingested += kept
	}

	return ingested
}

// runEnrich drains the pending queue up to the batch limit. Queue
// membership is the status column; a failed item simply stays pending
// and becomes eligible again on the next run.
func (p *Pipeline) runEnrich(ctx context.Context) int {
	pending, err := p.store.PendingArticles(ctx, p.batchLimit)
	if err != nil {
		p.log().Warn("load pending articles failed, skipping enrich stage", "error", err)
		return 0
	}

	if len(pending) == 0 {
		p.log().Info("enrich stage: no pending articles")
		return 0
	}

	p.log().Info("enrich stage", "pending", len(pending))

	enriched := 0
	for i, article := range pending {
		if i > 0 && p.enrichDelay > 0 {
			p.log().Debug("waiting before next enrichment", "delay", p.enrichDelay)
			p.sleep(p.enrichDelay)
		}

		logger := p.log().With("article_id", article.ID)
		logger.Info("enriching article", "title", truncateForLog(article.Title))

		result, err := p.enricher.Enrich(ctx, article.Title, article.Summary, article.Language)
		if err != nil {
			logger.Warn("enrichment failed, article stays pending", "error", err)
			continue
		}

		if err := p.store.SaveEnrichment(ctx, article.ID, result); err != nil {
			logger.Warn("save enrichment failed", "error", err)
			continue
		}
		enriched++
	}

	return enriched
}

// runRender queries today's articles and writes the digest. Ordering by
// source priority happens inside the renderer.
func (p *Pipeline) runRender(ctx context.Context, date string) string {
	articles, err := p.store.CollectedOn(ctx, date)
	if err != nil {
		p.log().Warn("load daily articles failed, skipping render stage", "error", err)
		return ""
	}

	path, err := p.renderer.Write(date, articles)
	if err != nil {
		p.log().Warn("render failed", "error", err)
		return ""
	}

	return path
}

func (p *Pipeline) notify(ctx context.Context, date string, ingested, enriched int, reportPath string) {
	if p.notifier == nil {
		return
	}

	text := fmt.Sprintf("News digest %s: %d articles ingested, %d enriched.", date, ingested, enriched)
	if reportPath != "" {
		text += fmt.Sprintf(" Report: %s", reportPath)
	}

	if err := p.notifier.PublishSummary(ctx, text); err != nil {
		p.log().Warn("publish run summary failed", "error", err)
	}
}

func truncateForLog(text string) string {
	runes := []rune(text)
	if len(runes) <= 40 {
		return text
	}
	return string(runes[:40]) + "..."
}

func (p *Pipeline) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return slog.Default()
}
