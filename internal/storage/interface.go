package storage

import "github.com/feedback-insights/dashboard/internal/models"

// FeedbackStore defines the contract for the feedback row store.
type FeedbackStore interface {
	Insert(event models.FeedbackEvent) error
	ListRecent(limit int) ([]models.FeedbackEvent, error)
	ListSince(sinceMillis int64) ([]models.FeedbackEvent, error)
	ListAll() ([]models.FeedbackEvent, error)
	Count() (int64, error)
	RecordDigestRun(run DigestRun) error
	Close() error
}

// DigestRun is one persisted digest execution record.
type DigestRun struct {
	RanAt      int64 `json:"ran_at"` // ms since epoch
	DurationMs int64 `json:"duration_ms"`
	Total      int   `json:"total"`
	Positive   int   `json:"positive"`
	Negative   int   `json:"negative"`
	Neutral    int   `json:"neutral"`
}
