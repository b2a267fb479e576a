package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"newsdigest/internal/config"
	"newsdigest/internal/domain"
)

type fakeStore struct {
	sources     map[string]int64
	articles    map[string]domain.NewArticle
	order       []string
	enrichments map[string]domain.Enrichment
	insertErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sources:     map[string]int64{},
		articles:    map[string]domain.NewArticle{},
		enrichments: map[string]domain.Enrichment{},
	}
}

func (f *fakeStore) Bootstrap(ctx context.Context) error { return nil }

func (f *fakeStore) GetOrCreateSource(ctx context.Context, name, feedURL, language string) (int64, error) {
	if id, ok := f.sources[name]; ok {
		return id, nil
	}
	id := int64(len(f.sources) + 1)
	f.sources[name] = id
	return id, nil
}

func (f *fakeStore) InsertArticle(ctx context.Context, article domain.NewArticle) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if _, exists := f.articles[article.URL]; exists {
		return nil
	}
	f.articles[article.URL] = article
	f.order = append(f.order, article.URL)
	return nil
}

func (f *fakeStore) PendingArticles(ctx context.Context, limit int) ([]domain.PendingArticle, error) {
	var pending []domain.PendingArticle
	for i, url := range f.order {
		if len(pending) >= limit {
			break
		}
		if _, done := f.enrichments[url]; done {
			continue
		}
		art := f.articles[url]
		pending = append(pending, domain.PendingArticle{
			ID:      int64(i + 1),
			Title:   art.Title,
			Summary: art.Summary,
		})
	}
	return pending, nil
}

func (f *fakeStore) SaveEnrichment(ctx context.Context, articleID int64, enrichment domain.Enrichment) error {
	url := f.order[articleID-1]
	f.enrichments[url] = enrichment
	return nil
}

func (f *fakeStore) CollectedOn(ctx context.Context, date string) ([]domain.ReportArticle, error) {
	var out []domain.ReportArticle
	for _, url := range f.order {
		art := f.articles[url]
		if art.CollectedDate != date {
			continue
		}
		out = append(out, domain.ReportArticle{URL: url, Title: art.Title})
	}
	return out, nil
}

type fakeFetcher struct {
	entries map[string][]domain.FeedEntry
	errs    map[string]error
	calls   []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, feedURL string) ([]domain.FeedEntry, error) {
	f.calls = append(f.calls, feedURL)
	if err, ok := f.errs[feedURL]; ok {
		return nil, err
	}
	return f.entries[feedURL], nil
}

type fakeEnricher struct {
	calls int
	fail  bool
}

func (f *fakeEnricher) Enrich(ctx context.Context, title, summary, language string) (domain.Enrichment, error) {
	f.calls++
	if f.fail {
		return domain.Enrichment{}, fmt.Errorf("model unavailable")
	}
	return domain.Enrichment{TranslatedTitle: "t:" + title}, nil
}

type fakeRenderer struct {
	calls    int
	received []domain.ReportArticle
	path     string
}

func (f *fakeRenderer) Write(date string, articles []domain.ReportArticle) (string, error) {
	f.calls++
	f.received = articles
	if len(articles) == 0 {
		return "", nil
	}
	f.path = "output/report_" + date + ".html"
	return f.path, nil
}

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) PublishSummary(ctx context.Context, text string) error {
	f.messages = append(f.messages, text)
	return nil
}

func newTestPipeline(store *fakeStore, fetcher *fakeFetcher, enricher *fakeEnricher, renderer *fakeRenderer, notifier *fakeNotifier, feeds []config.FeedConfig) *Pipeline {
	deps := PipelineDeps{
		Fetcher:       fetcher,
		Store:         store,
		Enricher:      enricher,
		Renderer:      renderer,
		Feeds:         feeds,
		BatchLimit:    100,
		RecencyWindow: 4 * 24 * time.Hour,
		Location:      time.UTC,
	}
	// A nil *fakeNotifier wrapped in the interface would defeat the
	// pipeline's nil-notifier guard, so only set it when non-nil.
	if notifier != nil {
		deps.Notifier = notifier
	}
	pipeline := NewPipeline(deps)
	pipeline.sleep = func(time.Duration) {}
	return pipeline
}

func TestRunIngestsEnrichesAndRenders(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-3 * 24 * time.Hour)

	store := newFakeStore()
	fetcher := &fakeFetcher{entries: map[string][]domain.FeedEntry{
		"https://example.org/feed": {
			{Title: "A", URL: "https://example.org/a", Summary: "sa", PublishedAt: &recent},
		},
	}}
	enricher := &fakeEnricher{}
	renderer := &fakeRenderer{}
	notifier := &fakeNotifier{}

	pipeline := newTestPipeline(store, fetcher, enricher, renderer, notifier, []config.FeedConfig{
		{Name: "Example", URL: "https://example.org/feed", Language: "en"},
	})

	if err := pipeline.Run(context.Background(), now); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(store.articles) != 1 {
		t.Fatalf("expected 1 article stored, got %d", len(store.articles))
	}
	if enricher.calls != 1 {
		t.Fatalf("expected 1 enrichment call, got %d", enricher.calls)
	}
	if _, ok := store.enrichments["https://example.org/a"]; !ok {
		t.Fatalf("enrichment was not persisted")
	}
	if renderer.calls != 1 || len(renderer.received) != 1 {
		t.Fatalf("renderer not invoked with the day's articles")
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("expected one run summary, got %d", len(notifier.messages))
	}
}

func TestRunIsIdempotentAcrossRuns(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-24 * time.Hour)

	store := newFakeStore()
	fetcher := &fakeFetcher{entries: map[string][]domain.FeedEntry{
		"https://example.org/feed": {
			{Title: "A", URL: "https://example.org/a", Summary: "sa", PublishedAt: &recent},
		},
	}}
	enricher := &fakeEnricher{}

	pipeline := newTestPipeline(store, fetcher, enricher, &fakeRenderer{}, nil, []config.FeedConfig{
		{Name: "Example", URL: "https://example.org/feed", Language: "en"},
	})

	if err := pipeline.Run(context.Background(), now); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := pipeline.Run(context.Background(), now); err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(store.articles) != 1 {
		t.Fatalf("re-running with identical feed content duplicated rows: %d", len(store.articles))
	}
	if enricher.calls != 1 {
		t.Fatalf("already-enriched article must not be re-enriched, calls=%d", enricher.calls)
	}
}

func TestRecencyFilter(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	fiveDaysOld := now.Add(-5 * 24 * time.Hour)
	threeDaysOld := now.Add(-3 * 24 * time.Hour)

	store := newFakeStore()
	fetcher := &fakeFetcher{entries: map[string][]domain.FeedEntry{
		"https://example.org/feed": {
			{Title: "too old", URL: "https://example.org/old", Summary: "s", PublishedAt: &fiveDaysOld},
			{Title: "recent", URL: "https://example.org/recent", Summary: "s", PublishedAt: &threeDaysOld},
			{Title: "undated", URL: "https://example.org/undated", Summary: "s"},
		},
	}}

	pipeline := newTestPipeline(store, fetcher, &fakeEnricher{}, &fakeRenderer{}, nil, []config.FeedConfig{
		{Name: "Example", URL: "https://example.org/feed", Language: "en"},
	})

	if err := pipeline.Run(context.Background(), now); err != nil {
		t.Fatalf("run: %v", err)
	}

	if _, ok := store.articles["https://example.org/old"]; ok {
		t.Fatalf("entry older than the recency window must be rejected")
	}
	if _, ok := store.articles["https://example.org/recent"]; !ok {
		t.Fatalf("entry inside the recency window must be kept")
	}
	if _, ok := store.articles["https://example.org/undated"]; !ok {
		t.Fatalf("undated entry must be kept regardless of age")
	}
}

func TestFeedFailureIsIsolated(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-time.Hour)

	store := newFakeStore()
	fetcher := &fakeFetcher{
		entries: map[string][]domain.FeedEntry{
			"https://ok.example.org/feed": {
				{Title: "ok", URL: "https://ok.example.org/a", Summary: "s", PublishedAt: &recent},
			},
		},
		errs: map[string]error{
			"https://broken.example.org/feed": fmt.Errorf("parse failure"),
		},
	}

	pipeline := newTestPipeline(store, fetcher, &fakeEnricher{}, &fakeRenderer{}, nil, []config.FeedConfig{
		{Name: "Broken", URL: "https://broken.example.org/feed", Language: "en"},
		{Name: "OK", URL: "https://ok.example.org/feed", Language: "en"},
	})

	if err := pipeline.Run(context.Background(), now); err != nil {
		t.Fatalf("run must not fail on a single broken feed: %v", err)
	}

	if len(fetcher.calls) != 2 {
		t.Fatalf("both feeds must be attempted, got %d calls", len(fetcher.calls))
	}
	if _, ok := store.articles["https://ok.example.org/a"]; !ok {
		t.Fatalf("healthy feed must still be ingested")
	}
}

func TestEnrichmentFailureLeavesArticlePending(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-time.Hour)

	store := newFakeStore()
	fetcher := &fakeFetcher{entries: map[string][]domain.FeedEntry{
		"https://example.org/feed": {
			{Title: "A", URL: "https://example.org/a", Summary: "s", PublishedAt: &recent},
		},
	}}
	enricher := &fakeEnricher{fail: true}

	pipeline := newTestPipeline(store, fetcher, enricher, &fakeRenderer{}, nil, []config.FeedConfig{
		{Name: "Example", URL: "https://example.org/feed", Language: "en"},
	})

	if err := pipeline.Run(context.Background(), now); err != nil {
		t.Fatalf("enrichment failure must not abort the run: %v", err)
	}

	pending, err := store.PendingArticles(context.Background(), 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("failed article must stay in the queue, got %d rows", len(pending))
	}
}

func TestRenderSkippedWhenDayIsEmpty(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	store := newFakeStore()
	renderer := &fakeRenderer{}

	pipeline := newTestPipeline(store, &fakeFetcher{}, &fakeEnricher{}, renderer, nil, nil)

	if err := pipeline.Run(context.Background(), now); err != nil {
		t.Fatalf("run: %v", err)
	}

	if renderer.path != "" {
		t.Fatalf("no report path expected for an empty day, got %q", renderer.path)
	}
}
