package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"newsdigest/internal/domain"
	"newsdigest/internal/ports"
)

// Some feed hosts reject default Go user agents, so present a browser.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0.0.0 Safari/537.36"

// Fetcher pulls RSS/Atom feeds and normalizes their entries.
type Fetcher struct {
	parser *gofeed.Parser
}

var _ ports.FeedFetcher = (*Fetcher)(nil)

// NewFetcher wires an HTTP client; nil falls back to a 20s-timeout default.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}

	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = browserUserAgent

	return &Fetcher{parser: parser}
}

// Fetch downloads one feed and returns its entries with plain-text,
// length-capped summaries. Feed-level failures are returned to the
// caller; entry extraction itself does not fail.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) ([]domain.FeedEntry, error) {
	parsed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	entries := make([]domain.FeedEntry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, domain.FeedEntry{
			Title:       strings.TrimSpace(item.Title),
			URL:         strings.TrimSpace(item.Link),
			Summary:     NormalizeSummary(rawSummary(item)),
			PublishedAt: item.PublishedParsed,
		})
	}

	return entries, nil
}

// rawSummary picks the entry body in summary -> content -> description
// priority. gofeed folds RSS description and Atom summary into
// Description, and content:encoded / Atom content into Content.
func rawSummary(item *gofeed.Item) string {
	if strings.TrimSpace(item.Description) != "" {
		return item.Description
	}
	return item.Content
}
