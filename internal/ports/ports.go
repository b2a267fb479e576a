package ports

import (
	"context"
	"time"

	"newsdigest/internal/domain"
)

// FeedFetcher pulls and normalizes entries from one feed URL.
type FeedFetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]domain.FeedEntry, error)
}

// ArticleStore persists sources and articles and serves the pipeline queues.
type ArticleStore interface {
	Bootstrap(ctx context.Context) error
	GetOrCreateSource(ctx context.Context, name, feedURL, language string) (int64, error)
	InsertArticle(ctx context.Context, article domain.NewArticle) error
	PendingArticles(ctx context.Context, limit int) ([]domain.PendingArticle, error)
	SaveEnrichment(ctx context.Context, articleID int64, enrichment domain.Enrichment) error
	CollectedOn(ctx context.Context, date string) ([]domain.ReportArticle, error)
}

// Enricher turns a title/summary pair into translated and analyzed fields.
type Enricher interface {
	Enrich(ctx context.Context, title, summary, language string) (domain.Enrichment, error)
}

// ReportWriter renders the daily digest; returns the written path,
// or an empty path when there was nothing to render.
type ReportWriter interface {
	Write(date string, articles []domain.ReportArticle) (string, error)
}

// Notifier pushes the run summary to an outbound channel.
type Notifier interface {
	PublishSummary(ctx context.Context, text string) error
}

// Scheduler controls when pipeline runs execute in daemon mode.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
