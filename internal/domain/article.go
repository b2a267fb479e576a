package domain

import "time"

// Source is a configured feed the pipeline collects from.
type Source struct {
	ID       int64
	Name     string
	FeedURL  string
	Language string
}

// FeedEntry is one normalized entry coming out of a feed fetch.
// Summary is already plain text, truncated to the storage cap.
type FeedEntry struct {
	Title       string
	URL         string
	Summary     string
	PublishedAt *time.Time
}

// EnrichmentStatus tracks whether the generative pass ran for an article.
type EnrichmentStatus string

const (
	StatusPending  EnrichmentStatus = "pending"
	StatusEnriched EnrichmentStatus = "enriched"
)

// NewArticle carries everything ingestion knows about an entry at insert time.
type NewArticle struct {
	SourceID      int64
	Title         string
	URL           string
	Summary       string
	PublishedAt   *time.Time
	CollectedDate string
}

// PendingArticle is a queue row awaiting enrichment, joined with its
// source's language tag so the client can pick the right prompt.
type PendingArticle struct {
	ID       int64
	Title    string
	Summary  string
	Language string
}

// Enrichment holds the generated fields for one article.
type Enrichment struct {
	TranslatedTitle   string
	TranslatedSummary string
	Insight           string
	Example           string
	Explanation       []string
}

// ReportArticle is the denormalized view the renderer consumes.
type ReportArticle struct {
	ID                int64
	SourceName        string
	Language          string
	Title             string
	URL               string
	Summary           string
	PublishedAt       *time.Time
	Status            EnrichmentStatus
	TranslatedTitle   string
	TranslatedSummary string
	Insight           string
	Example           string
	Explanation       []string
}
