package models

// Sentiment labels attached to feedback events. Labels are fixed at creation
// and never recomputed by the analytics engine.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// FeedbackEvent is a single reported feedback item from one channel.
// Timestamp is milliseconds since epoch, matching the wire format consumed
// by the dashboard. Events are immutable once stored.
type FeedbackEvent struct {
	ID         string   `json:"id"`
	Channel    string   `json:"channel"`
	Text       string   `json:"text"`
	Sentiment  string   `json:"sentiment"` // "positive", "negative", "neutral"
	Timestamp  int64    `json:"timestamp"` // ms since epoch
	Engagement int      `json:"engagement"`
	Upvotes    int      `json:"upvotes"`
	Comments   int      `json:"comments"`
	Keywords   []string `json:"keywords"`
	Confidence int      `json:"confidence"` // 0-100
}

// Deployment is a dated release marker overlaid on the sentiment time series.
type Deployment struct {
	Date        string `json:"date"` // YYYY-MM-DD
	Feature     string `json:"feature"`
	Description string `json:"description"`
}

// TimeSeriesPoint is one 24-hour bucket of the 7-day sentiment series.
type TimeSeriesPoint struct {
	Date       string      `json:"date"`
	DateLabel  string      `json:"dateLabel"`
	Positive   int         `json:"positive"`
	Negative   int         `json:"negative"`
	Neutral    int         `json:"neutral"`
	Total      int         `json:"total"`
	Score      int         `json:"score"` // positive - negative
	Deployment *Deployment `json:"deployment,omitempty"`
}

// ChannelStats is the on-demand rolling summary for a single channel.
type ChannelStats struct {
	Total           int             `json:"total"`
	Daily           int             `json:"daily"`
	Recent          []FeedbackEvent `json:"recent"` // up to 5, timestamp desc
	TodayScore      float64         `json:"todayScore"`
	YesterdayScore  float64         `json:"yesterdayScore"`
	ScoreChange     int             `json:"scoreChange"` // percent, clamped
	IsPositiveTrend bool            `json:"isPositiveTrend"`
}

// KeywordCount is one ranked keyword with its frequency.
type KeywordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// AnalysisBucket summarizes one sentiment slice of the last-24h window.
type AnalysisBucket struct {
	Count    int             `json:"count"`
	Keywords []KeywordCount  `json:"keywords"`
	Samples  []FeedbackEvent `json:"samples"` // up to 5, timestamp desc
}

// Analysis is the response shape of the /api/feedback/analyze endpoint.
type Analysis struct {
	TopIssues   AnalysisBucket `json:"topIssues"`
	TopFeatures AnalysisBucket `json:"topFeatures"`
}

// Channel is a labeled feedback source.
type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Channels is the fixed catalog of feedback sources the dashboard tracks.
var Channels = []Channel{
	{ID: "github", Name: "GitHub"},
	{ID: "appstore", Name: "App Store"},
	{ID: "support", Name: "Support Tickets"},
	{ID: "email", Name: "Email"},
	{ID: "x", Name: "X/Twitter"},
	{ID: "forum", Name: "Community Forum"},
}

// ValidChannel reports whether id names a known channel.
func ValidChannel(id string) bool {
	for _, c := range Channels {
		if c.ID == id {
			return true
		}
	}
	return false
}

// ChannelName returns the display name for a channel id, or the id itself
// when unknown.
func ChannelName(id string) string {
	for _, c := range Channels {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}

// DefaultDeployments is the built-in deployment catalog, used when no
// deployments file is configured.
var DefaultDeployments = []Deployment{
	{Date: "2026-01-12", Feature: "Workers AI - New Models", Description: "Added Llama 3.1 and Claude support"},
	{Date: "2026-01-15", Feature: "D1 Performance Update", Description: "Improved query performance by 40%"},
	{Date: "2026-01-17", Feature: "Dashboard UI Refresh", Description: "New analytics dashboard with better UX"},
}

// Digest is a periodic summary shipped to the configured notification targets.
type Digest struct {
	GeneratedAt  int64                   `json:"generated_at"` // ms since epoch
	Period       string                  `json:"period"`       // "daily" or "weekly"
	TotalEvents  int                     `json:"total_events"`
	Analysis     Analysis                `json:"analysis"`
	ChannelStats map[string]ChannelStats `json:"channel_stats"`
	TimeSeries   []TimeSeriesPoint       `json:"time_series"`
}
