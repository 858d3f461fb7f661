// Package digest runs the periodic reporting loop: load the window's
// feedback, derive the dashboard analytics, persist run metrics and hand the
// result to the notification service.
package digest

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/feedback-insights/dashboard/internal/analytics"
	"github.com/feedback-insights/dashboard/internal/config"
	"github.com/feedback-insights/dashboard/internal/models"
	"github.com/feedback-insights/dashboard/internal/notifications"
	"github.com/feedback-insights/dashboard/internal/storage"
)

// Service orchestrates digest runs.
type Service struct {
	config              *config.Config
	store               storage.FeedbackStore
	notificationService notifications.NotificationInterface
	deployments         []models.Deployment

	mu      sync.RWMutex
	metrics *Metrics
}

// Metrics holds digest run metrics
type Metrics struct {
	TotalEvents        int            `json:"total_events"`
	LastRun            time.Time      `json:"last_run"`
	LastRunDuration    string         `json:"last_run_duration"`
	ChannelBreakdown   map[string]int `json:"channel_breakdown"`
	SentimentBreakdown map[string]int `json:"sentiment_breakdown"`
	RunCount           int            `json:"run_count"`
}

// NewService creates a new digest service
func NewService(cfg *config.Config, store storage.FeedbackStore, notificationService notifications.NotificationInterface, deployments []models.Deployment) *Service {
	return &Service{
		config:              cfg,
		store:               store,
		notificationService: notificationService,
		deployments:         deployments,
		metrics: &Metrics{
			ChannelBreakdown:   make(map[string]int),
			SentimentBreakdown: make(map[string]int),
		},
	}
}

// Run performs one digest pass over the configured reporting window.
func (s *Service) Run() error {
	start := time.Now()
	logrus.Info("Starting digest run")

	window := 24 * time.Hour
	if s.config.DigestSchedule == config.ScheduleWeekly {
		window = 7 * 24 * time.Hour
	}

	events, err := s.store.ListSince(start.Add(-window).UnixMilli())
	if err != nil {
		logrus.Errorf("Failed to load feedback for digest: %v", err)
		return err
	}

	logrus.Infof("Loaded %d feedback events for the last %v", len(events), window)

	digest := s.buildDigest(events, start)

	s.updateMetrics(events, time.Since(start))

	positive, negative, neutral := sentimentTotals(events)
	run := storage.DigestRun{
		RanAt:      start.UnixMilli(),
		DurationMs: time.Since(start).Milliseconds(),
		Total:      len(events),
		Positive:   positive,
		Negative:   negative,
		Neutral:    neutral,
	}
	if err := s.store.RecordDigestRun(run); err != nil {
		logrus.Errorf("Failed to record digest run: %v", err)
		return err
	}

	if err := s.notificationService.SendDigest(digest); err != nil {
		logrus.Errorf("Failed to send digest: %v", err)
		return err
	}

	logrus.Infof("Digest run completed in %v", time.Since(start))
	return nil
}

func (s *Service) buildDigest(events []models.FeedbackEvent, now time.Time) *models.Digest {
	channelStats := make(map[string]models.ChannelStats, len(models.Channels))
	for _, channel := range models.Channels {
		channelStats[channel.ID] = analytics.ChannelStats(analytics.FilterChannel(events, channel.ID), now)
	}

	return &models.Digest{
		GeneratedAt:  now.UnixMilli(),
		Period:       s.config.DigestSchedule,
		TotalEvents:  len(events),
		Analysis:     analytics.Analyze(events, now),
		ChannelStats: channelStats,
		TimeSeries:   analytics.BuildTimeSeries(events, s.deployments, now),
	}
}

func (s *Service) updateMetrics(events []models.FeedbackEvent, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.TotalEvents = len(events)
	s.metrics.LastRun = time.Now()
	s.metrics.LastRunDuration = duration.String()
	s.metrics.RunCount++

	s.metrics.ChannelBreakdown = make(map[string]int)
	s.metrics.SentimentBreakdown = make(map[string]int)
	for _, event := range events {
		s.metrics.ChannelBreakdown[event.Channel]++
		s.metrics.SentimentBreakdown[event.Sentiment]++
	}
}

// Metrics returns current metrics as JSON
func (s *Service) Metrics() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, _ := json.MarshalIndent(s.metrics, "", "  ")
	return string(data)
}

func sentimentTotals(events []models.FeedbackEvent) (positive, negative, neutral int) {
	for _, e := range events {
		switch e.Sentiment {
		case models.SentimentPositive:
			positive++
		case models.SentimentNegative:
			negative++
		case models.SentimentNeutral:
			neutral++
		}
	}
	return positive, negative, neutral
}
