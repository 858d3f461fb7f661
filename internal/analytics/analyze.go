package analytics

import (
	"time"

	"github.com/feedback-insights/dashboard/internal/models"
)

const sampleLimit = 5

// Analyze summarizes the last 24 hours of feedback: negative events feed
// topIssues, positive events feed topFeatures, each with a count, the ranked
// keywords of that slice and up to 5 sample events, most recent first.
// Neutral events are excluded from both buckets.
func Analyze(events []models.FeedbackEvent, now time.Time) models.Analysis {
	oneDayAgo := now.UnixMilli() - dayMillis

	var negative, positive []models.FeedbackEvent
	for _, e := range events {
		if e.Timestamp <= oneDayAgo {
			continue
		}
		switch e.Sentiment {
		case models.SentimentNegative:
			negative = append(negative, e)
		case models.SentimentPositive:
			positive = append(positive, e)
		}
	}

	return models.Analysis{
		TopIssues:   buildBucket(negative),
		TopFeatures: buildBucket(positive),
	}
}

func buildBucket(events []models.FeedbackEvent) models.AnalysisBucket {
	return models.AnalysisBucket{
		Count:    len(events),
		Keywords: TopKeywords(events),
		Samples:  MostRecent(events, sampleLimit),
	}
}
