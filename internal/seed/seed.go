// Package seed populates an empty feedback store with a realistic demo
// corpus so the dashboard has something to show before real channels are
// wired up. All randomness comes from the injected rng; the aggregation
// engine itself never sees a random source.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/feedback-insights/dashboard/internal/analytics"
	"github.com/feedback-insights/dashboard/internal/models"
	"github.com/feedback-insights/dashboard/internal/storage"
)

type template struct {
	text     string
	channel  string
	keywords []string
}

var negativeTemplates = []template{
	{"Dashboard logs not showing up - can't debug my Workers", "github", []string{"dashboard logs", "debugging"}},
	{"Billing invoice calculation seems incorrect this month", "support", []string{"billing invoice", "calculation"}},
	{"Deployment failed with error 500, no helpful message", "github", []string{"deployment failed", "error message"}},
	{"Documentation for D1 migrations is missing key steps", "forum", []string{"D1 documentation", "migrations"}},
	{"Analytics dashboard takes 30+ seconds to load", "appstore", []string{"analytics loading", "performance"}},
	{"Can't figure out how to configure Workers routes properly", "support", []string{"Workers routes", "configuration"}},
	{"Error logs buried too deep in the dashboard UI", "x", []string{"error logs", "dashboard UI"}},
	{"Billing dashboard not reflecting current usage accurately", "email", []string{"billing accuracy", "usage tracking"}},
	{"Deployment timeout with no clear reason why it failed", "github", []string{"deployment timeout", "error clarity"}},
	{"Wrangler CLI documentation outdated for new D1 commands", "forum", []string{"CLI documentation", "D1 commands"}},
	{"Dashboard navigation confusing - can't find KV bindings", "support", []string{"dashboard navigation", "KV bindings"}},
	{"Logs panel empty even though Worker is throwing errors", "github", []string{"logs panel", "error visibility"}},
	{"Invoice breakdown doesn't show per-product costs clearly", "email", []string{"invoice breakdown", "cost clarity"}},
	{"Workers AI deployment keeps timing out after 2 minutes", "x", []string{"AI deployment", "timeout issue"}},
	{"Documentation examples don't match actual API responses", "forum", []string{"documentation accuracy", "API examples"}},
}

var positiveTemplates = []template{
	{"Workers AI inference speed is incredible - under 100ms!", "x", []string{"Workers AI speed", "inference time"}},
	{"D1 query performance after the update is blazing fast", "github", []string{"D1 performance", "query speed"}},
	{"Pages deployment workflow is so smooth and intuitive", "appstore", []string{"Pages deployment", "workflow"}},
	{"R2 pricing model is super competitive vs competitors", "forum", []string{"R2 pricing", "cost savings"}},
	{"Workers global edge network latency is outstanding", "x", []string{"edge latency", "global performance"}},
	{"KV storage replication speed across regions is impressive", "github", []string{"KV replication", "multi-region"}},
	{"Workers AI model selection keeps getting better", "appstore", []string{"AI model variety", "selection"}},
	{"CDN cache hit ratio is consistently above 95%", "email", []string{"CDN performance", "cache efficiency"}},
	{"Dashboard redesign makes finding features much easier", "forum", []string{"dashboard UX", "usability"}},
	{"Free tier limits are very generous for small projects", "x", []string{"free tier", "generous limits"}},
	{"Wrangler CLI makes deploying Workers super easy", "github", []string{"Wrangler CLI", "deployment ease"}},
	{"Pages build times improved dramatically this month", "appstore", []string{"Pages build speed", "CI/CD"}},
	{"Workers AI cost is fraction of what we paid elsewhere", "email", []string{"AI cost savings", "pricing"}},
	{"D1 SQL syntax support is comprehensive and reliable", "forum", []string{"D1 SQL support", "compatibility"}},
	{"R2 API compatibility with S3 made migration seamless", "github", []string{"R2 compatibility", "S3 migration"}},
}

var neutralTexts = []string{
	"Checking if Workers support WebSockets natively",
	"Would love to see more detailed metrics in Analytics",
	"Feature request: dark mode for the dashboard",
	"Is there a timeline for Durable Objects regional support?",
	"Documentation could use more real-world examples",
}

// How many templated items land in the last-24h window; the rest spread over
// the preceding six days.
const (
	recentNegative = 10
	recentPositive = 12
)

const dayMillis = 24 * 60 * 60 * 1000

// Generate builds the full demo corpus relative to now.
func Generate(rng *rand.Rand, now time.Time) []models.FeedbackEvent {
	nowMs := now.UnixMilli()
	oneDayAgo := nowMs - dayMillis
	sevenDaysAgo := nowMs - 7*dayMillis

	var events []models.FeedbackEvent

	for idx, tpl := range negativeTemplates {
		timestamp := spread(rng, sevenDaysAgo, oneDayAgo)
		if idx < recentNegative {
			timestamp = spread(rng, oneDayAgo, nowMs)
		}
		events = append(events, models.FeedbackEvent{
			ID:         fmt.Sprintf("neg-%d", idx),
			Channel:    tpl.channel,
			Text:       tpl.text,
			Sentiment:  models.SentimentNegative,
			Timestamp:  timestamp,
			Engagement: rng.Intn(100),
			Upvotes:    rng.Intn(50),
			Comments:   rng.Intn(20),
			Keywords:   tpl.keywords,
			Confidence: analytics.ConfidenceFor(models.SentimentNegative, rng),
		})
	}

	for idx, tpl := range positiveTemplates {
		timestamp := spread(rng, sevenDaysAgo, oneDayAgo)
		if idx < recentPositive {
			timestamp = spread(rng, oneDayAgo, nowMs)
		}
		events = append(events, models.FeedbackEvent{
			ID:         fmt.Sprintf("pos-%d", idx),
			Channel:    tpl.channel,
			Text:       tpl.text,
			Sentiment:  models.SentimentPositive,
			Timestamp:  timestamp,
			Engagement: rng.Intn(100),
			Upvotes:    rng.Intn(50),
			Comments:   rng.Intn(20),
			Keywords:   tpl.keywords,
			Confidence: analytics.ConfidenceFor(models.SentimentPositive, rng),
		})
	}

	// Neutral texts fan out across every channel.
	for idx, text := range neutralTexts {
		for _, channel := range models.Channels {
			events = append(events, models.FeedbackEvent{
				ID:         fmt.Sprintf("neutral-%s-%d", channel.ID, idx),
				Channel:    channel.ID,
				Text:       text,
				Sentiment:  models.SentimentNeutral,
				Timestamp:  spread(rng, sevenDaysAgo, nowMs),
				Engagement: rng.Intn(50),
				Upvotes:    rng.Intn(25),
				Comments:   rng.Intn(10),
				Keywords:   []string{},
				Confidence: analytics.ConfidenceFor(models.SentimentNeutral, rng),
			})
		}
	}

	return events
}

// Populate generates the corpus and inserts it. Returns the number of rows
// inserted.
func Populate(store storage.FeedbackStore, rng *rand.Rand, now time.Time) (int, error) {
	events := Generate(rng, now)
	for _, event := range events {
		if err := store.Insert(event); err != nil {
			return 0, fmt.Errorf("failed to seed feedback %s: %w", event.ID, err)
		}
	}
	logrus.Infof("Seeded %d mock feedback events", len(events))
	return len(events), nil
}

// spread picks a uniformly random instant in [from, to).
func spread(rng *rand.Rand, from, to int64) int64 {
	if to <= from {
		return from
	}
	return from + rng.Int63n(to-from)
}
