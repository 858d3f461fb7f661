package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/feedback-insights/dashboard/internal/models"
)

const (
	// neutralWeight is the contribution of one neutral event to the rolling
	// sentiment score: positive = +1, negative = -1, neutral = +0.2.
	neutralWeight = 0.2

	// zeroBaselineChange is the percent change reported when yesterday's
	// score is zero but today's is not. The ratio is undefined in that case,
	// so a fixed sentinel magnitude is used with the sign of today's score.
	zeroBaselineChange = 150

	// maxScoreChange clamps day-over-day percent change to [-200, 200].
	maxScoreChange = 200

	recentLimit = 5
)

// ChannelStats computes the rolling summary for one channel's events.
// today covers (now-24h, now]; yesterday covers (now-48h, now-24h]. Events
// outside both windows still count toward Total. Total over any input: an
// empty slice yields zero scores, an upward trend and no recent items.
func ChannelStats(events []models.FeedbackEvent, now time.Time) models.ChannelStats {
	nowMs := now.UnixMilli()
	oneDayAgo := nowMs - dayMillis
	twoDaysAgo := nowMs - 2*dayMillis

	var today, yesterday sentimentCounts
	daily := 0
	for _, e := range events {
		switch {
		case e.Timestamp > oneDayAgo:
			today.add(e.Sentiment)
			daily++
		case e.Timestamp > twoDaysAgo:
			yesterday.add(e.Sentiment)
		}
	}

	todayScore := today.weighted()
	yesterdayScore := yesterday.weighted()

	var scoreChange int
	switch {
	case todayScore == 0 && yesterdayScore == 0:
		scoreChange = 0
	case yesterdayScore == 0:
		scoreChange = zeroBaselineChange
		if todayScore < 0 {
			scoreChange = -zeroBaselineChange
		}
	default:
		change := math.Round((todayScore - yesterdayScore) / math.Abs(yesterdayScore) * 100)
		change = math.Max(-maxScoreChange, math.Min(maxScoreChange, change))
		scoreChange = int(change)
	}

	return models.ChannelStats{
		Total:           len(events),
		Daily:           daily,
		Recent:          MostRecent(events, recentLimit),
		TodayScore:      todayScore,
		YesterdayScore:  yesterdayScore,
		ScoreChange:     scoreChange,
		IsPositiveTrend: todayScore >= yesterdayScore,
	}
}

// MostRecent returns up to limit events sorted by timestamp descending.
// The input slice is not modified.
func MostRecent(events []models.FeedbackEvent, limit int) []models.FeedbackEvent {
	sorted := make([]models.FeedbackEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp > sorted[j].Timestamp
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// FilterChannel returns the events belonging to one channel.
func FilterChannel(events []models.FeedbackEvent, channelID string) []models.FeedbackEvent {
	var out []models.FeedbackEvent
	for _, e := range events {
		if e.Channel == channelID {
			out = append(out, e)
		}
	}
	return out
}

type sentimentCounts struct {
	positive int
	negative int
	neutral  int
}

func (c *sentimentCounts) add(sentiment string) {
	switch sentiment {
	case models.SentimentPositive:
		c.positive++
	case models.SentimentNegative:
		c.negative++
	case models.SentimentNeutral:
		c.neutral++
	}
}

// weighted is the rolling score, rounded to one decimal place.
func (c sentimentCounts) weighted() float64 {
	score := float64(c.positive) - float64(c.negative) + float64(c.neutral)*neutralWeight
	return math.Round(score*10) / 10
}
