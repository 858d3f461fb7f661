package analytics

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/feedback-insights/dashboard/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAnalyze_SplitsBySentimentWithin24h(t *testing.T) {
	now := time.Date(2026, 1, 18, 12, 0, 0, 0, time.UTC)

	events := []models.FeedbackEvent{
		{ID: "n1", Sentiment: models.SentimentNegative, Timestamp: ts(now, -2*time.Hour), Keywords: []string{"billing invoice"}},
		{ID: "n2", Sentiment: models.SentimentNegative, Timestamp: ts(now, -5*time.Hour), Keywords: []string{"billing invoice"}},
		{ID: "p1", Sentiment: models.SentimentPositive, Timestamp: ts(now, -1*time.Hour), Keywords: []string{"edge latency"}},
		{ID: "u1", Sentiment: models.SentimentNeutral, Timestamp: ts(now, -1*time.Hour)},
		// Outside the 24h window.
		{ID: "old", Sentiment: models.SentimentNegative, Timestamp: ts(now, -30*time.Hour), Keywords: []string{"stale"}},
	}

	analysis := Analyze(events, now)

	assert.Equal(t, 2, analysis.TopIssues.Count)
	assert.Equal(t, []models.KeywordCount{{Word: "billing invoice", Count: 2}}, analysis.TopIssues.Keywords)
	assert.Len(t, analysis.TopIssues.Samples, 2)
	assert.Equal(t, "n1", analysis.TopIssues.Samples[0].ID, "samples are most recent first")

	assert.Equal(t, 1, analysis.TopFeatures.Count)
	assert.Equal(t, "edge latency", analysis.TopFeatures.Keywords[0].Word)
}

func TestAnalyze_SampleLimit(t *testing.T) {
	now := time.Date(2026, 1, 18, 12, 0, 0, 0, time.UTC)

	var events []models.FeedbackEvent
	for i := 0; i < 9; i++ {
		events = append(events, models.FeedbackEvent{
			ID:        fmt.Sprintf("n%d", i),
			Sentiment: models.SentimentNegative,
			Timestamp: ts(now, -time.Duration(i+1)*time.Hour),
		})
	}

	analysis := Analyze(events, now)

	assert.Equal(t, 9, analysis.TopIssues.Count)
	assert.Len(t, analysis.TopIssues.Samples, 5)
	assert.Zero(t, analysis.TopFeatures.Count)
	assert.Empty(t, analysis.TopFeatures.Samples)
}

func TestAnalyze_Empty(t *testing.T) {
	now := time.Date(2026, 1, 18, 12, 0, 0, 0, time.UTC)

	analysis := Analyze(nil, now)

	assert.Zero(t, analysis.TopIssues.Count)
	assert.Zero(t, analysis.TopFeatures.Count)
	assert.Empty(t, analysis.TopIssues.Keywords)
	assert.Empty(t, analysis.TopFeatures.Samples)
}

func TestConfidenceFor_Ranges(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	tests := []struct {
		sentiment string
		min, max  int
	}{
		{models.SentimentPositive, 82, 97},
		{models.SentimentNegative, 80, 97},
		{models.SentimentNeutral, 65, 85},
		{"", 65, 85},
	}

	for _, tt := range tests {
		t.Run(tt.sentiment, func(t *testing.T) {
			for i := 0; i < 200; i++ {
				c := ConfidenceFor(tt.sentiment, rng)
				assert.GreaterOrEqual(t, c, tt.min)
				assert.LessOrEqual(t, c, tt.max)
			}
		})
	}
}
