package analytics

import (
	"sort"

	"github.com/feedback-insights/dashboard/internal/models"
)

const keywordLimit = 5

// TopKeywords ranks pre-attached keywords by frequency and returns up to the
// top 5, descending by count; equal counts keep first-occurrence order.
// Matching is case-sensitive and exact: keywords are pre-tagged strings, not
// extracted text, so no normalization is attempted.
func TopKeywords(events []models.FeedbackEvent) []models.KeywordCount {
	counts := make(map[string]int)
	var order []string

	for _, e := range events {
		for _, kw := range e.Keywords {
			if _, seen := counts[kw]; !seen {
				order = append(order, kw)
			}
			counts[kw]++
		}
	}

	ranked := make([]models.KeywordCount, 0, len(order))
	for _, kw := range order {
		ranked = append(ranked, models.KeywordCount{Word: kw, Count: counts[kw]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > keywordLimit {
		ranked = ranked[:keywordLimit]
	}
	return ranked
}
