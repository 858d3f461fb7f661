// Package analytics derives dashboard structures from raw feedback events.
// Every function here is a pure, synchronous transform over in-memory slices:
// no state, no I/O, no randomness, total over any input including empty lists.
package analytics

import (
	"time"

	"github.com/feedback-insights/dashboard/internal/models"
)

const (
	dayMillis = 24 * 60 * 60 * 1000

	// timeSeriesDays is the width of the reporting window in buckets.
	timeSeriesDays = 7
)

// BuildTimeSeries buckets events into exactly 7 fixed 24-hour windows ending
// with the window that starts at now. Buckets are anchored to now, not to
// calendar midnight, so day boundaries drift with the moment the aggregation
// runs. Each bucket counts events with timestamp in [start, start+24h), split
// by sentiment, and carries the first deployment (in input order) whose date
// string equals the bucket's UTC date.
func BuildTimeSeries(events []models.FeedbackEvent, deployments []models.Deployment, now time.Time) []models.TimeSeriesPoint {
	nowMs := now.UnixMilli()
	points := make([]models.TimeSeriesPoint, 0, timeSeriesDays)

	for i := timeSeriesDays - 1; i >= 0; i-- {
		start := nowMs - int64(i)*dayMillis
		end := start + dayMillis
		startTime := time.UnixMilli(start).UTC()

		point := models.TimeSeriesPoint{
			Date:      startTime.Format("2006-01-02"),
			DateLabel: startTime.Format("Jan 2"),
		}

		for _, e := range events {
			if e.Timestamp < start || e.Timestamp >= end {
				continue
			}
			point.Total++
			switch e.Sentiment {
			case models.SentimentPositive:
				point.Positive++
			case models.SentimentNegative:
				point.Negative++
			case models.SentimentNeutral:
				point.Neutral++
			}
		}
		point.Score = point.Positive - point.Negative

		for di := range deployments {
			if deployments[di].Date == point.Date {
				d := deployments[di]
				point.Deployment = &d
				break
			}
		}

		points = append(points, point)
	}

	return points
}
