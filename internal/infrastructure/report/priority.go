package report

import (
	"sort"

	"newsdigest/internal/domain"
)

// sourceRank is the fixed display order of known sources. It is kept
// independent from the brand rule table on purpose; both key off the
// source name but serve different concerns.
var sourceRank = map[string]int{
	"OpenAI News":       0,
	"Google AI Blog":    1,
	"GitHub Changelog":  2,
	"Google Japan Blog": 3,
	"Zenn Trends":       4,
	"Qiita Trends":      5,
	"Zenn (Copilot)":    6,
	"Qiita (Copilot)":   7,
}

const unknownSourceRank = 1 << 10

func rankOf(sourceName string) int {
	if rank, ok := sourceRank[sourceName]; ok {
		return rank
	}
	return unknownSourceRank
}

// sortArticles orders by source rank, then published time descending
// with undated articles last. The sort is stable so equal keys keep
// their incoming order.
func sortArticles(articles []domain.ReportArticle) {
	sort.SliceStable(articles, func(i, j int) bool {
		left, right := articles[i], articles[j]

		leftRank, rightRank := rankOf(left.SourceName), rankOf(right.SourceName)
		if leftRank != rightRank {
			return leftRank < rightRank
		}

		switch {
		case left.PublishedAt == nil && right.PublishedAt == nil:
			return false
		case left.PublishedAt == nil:
			return false
		case right.PublishedAt == nil:
			return true
		default:
			return left.PublishedAt.After(*right.PublishedAt)
		}
	})
}
