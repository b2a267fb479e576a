package feed

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// summaryMaxRunes caps stored summaries; the generative model does
	// not need more than this to analyze an article.
	summaryMaxRunes  = 3000
	truncationMarker = "..."
)

// NormalizeSummary strips markup from a raw feed body and caps its length.
func NormalizeSummary(raw string) string {
	return truncateSummary(StripMarkup(raw))
}

// StripMarkup reduces an HTML fragment to its text content.
func StripMarkup(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return strings.TrimSpace(raw)
	}

	return strings.TrimSpace(doc.Text())
}

func truncateSummary(text string) string {
	runes := []rune(text)
	if len(runes) <= summaryMaxRunes {
		return text
	}
	return string(runes[:summaryMaxRunes]) + truncationMarker
}
