package digest

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/feedback-insights/dashboard/internal/config"
	"github.com/feedback-insights/dashboard/internal/models"
	"github.com/feedback-insights/dashboard/internal/storage"
)

// MockStore is a mock implementation of the feedback store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Insert(event models.FeedbackEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockStore) ListRecent(limit int) ([]models.FeedbackEvent, error) {
	args := m.Called(limit)
	return args.Get(0).([]models.FeedbackEvent), args.Error(1)
}

func (m *MockStore) ListSince(sinceMillis int64) ([]models.FeedbackEvent, error) {
	args := m.Called(sinceMillis)
	return args.Get(0).([]models.FeedbackEvent), args.Error(1)
}

func (m *MockStore) ListAll() ([]models.FeedbackEvent, error) {
	args := m.Called()
	return args.Get(0).([]models.FeedbackEvent), args.Error(1)
}

func (m *MockStore) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) RecordDigestRun(run storage.DigestRun) error {
	args := m.Called(run)
	return args.Error(0)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockNotificationService is a mock implementation of the notification service
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) SendDigest(digest *models.Digest) error {
	args := m.Called(digest)
	return args.Error(0)
}

func sampleEvents(now time.Time) []models.FeedbackEvent {
	return []models.FeedbackEvent{
		{ID: "1", Channel: "github", Sentiment: "negative", Timestamp: now.Add(-time.Hour).UnixMilli(), Keywords: []string{"dashboard logs"}},
		{ID: "2", Channel: "github", Sentiment: "positive", Timestamp: now.Add(-2 * time.Hour).UnixMilli(), Keywords: []string{"D1 performance"}},
		{ID: "3", Channel: "forum", Sentiment: "neutral", Timestamp: now.Add(-3 * time.Hour).UnixMilli()},
	}
}

func TestService_Run(t *testing.T) {
	cfg := &config.Config{DigestSchedule: config.ScheduleDaily}
	mockStore := &MockStore{}
	mockNotifications := &MockNotificationService{}

	now := time.Now()
	events := sampleEvents(now)

	mockStore.On("ListSince", mock.AnythingOfType("int64")).Return(events, nil)

	var recorded storage.DigestRun
	mockStore.On("RecordDigestRun", mock.AnythingOfType("storage.DigestRun")).
		Run(func(args mock.Arguments) { recorded = args.Get(0).(storage.DigestRun) }).
		Return(nil)

	var sent *models.Digest
	mockNotifications.On("SendDigest", mock.AnythingOfType("*models.Digest")).
		Run(func(args mock.Arguments) { sent = args.Get(0).(*models.Digest) }).
		Return(nil)

	service := NewService(cfg, mockStore, mockNotifications, models.DefaultDeployments)

	assert.NoError(t, service.Run())

	assert.Equal(t, 3, recorded.Total)
	assert.Equal(t, 1, recorded.Positive)
	assert.Equal(t, 1, recorded.Negative)
	assert.Equal(t, 1, recorded.Neutral)

	assert.NotNil(t, sent)
	assert.Equal(t, config.ScheduleDaily, sent.Period)
	assert.Equal(t, 3, sent.TotalEvents)
	assert.Equal(t, 1, sent.Analysis.TopIssues.Count)
	assert.Equal(t, "dashboard logs", sent.Analysis.TopIssues.Keywords[0].Word)
	assert.Len(t, sent.TimeSeries, 7)

	github := sent.ChannelStats["github"]
	assert.Equal(t, 2, github.Total)
	assert.Equal(t, 2, github.Daily)

	mockStore.AssertExpectations(t)
	mockNotifications.AssertExpectations(t)
}

func TestService_Run_StoreError(t *testing.T) {
	cfg := &config.Config{DigestSchedule: config.ScheduleDaily}
	mockStore := &MockStore{}
	mockNotifications := &MockNotificationService{}

	mockStore.On("ListSince", mock.AnythingOfType("int64")).
		Return([]models.FeedbackEvent(nil), fmt.Errorf("locked"))

	service := NewService(cfg, mockStore, mockNotifications, nil)

	assert.Error(t, service.Run())
	mockNotifications.AssertNotCalled(t, "SendDigest", mock.Anything)
}

func TestService_Run_NotifierError(t *testing.T) {
	cfg := &config.Config{DigestSchedule: config.ScheduleWeekly}
	mockStore := &MockStore{}
	mockNotifications := &MockNotificationService{}

	mockStore.On("ListSince", mock.AnythingOfType("int64")).Return([]models.FeedbackEvent{}, nil)
	mockStore.On("RecordDigestRun", mock.AnythingOfType("storage.DigestRun")).Return(nil)
	mockNotifications.On("SendDigest", mock.AnythingOfType("*models.Digest")).Return(fmt.Errorf("webhook down"))

	service := NewService(cfg, mockStore, mockNotifications, nil)

	assert.Error(t, service.Run())
}

func TestService_Metrics(t *testing.T) {
	cfg := &config.Config{DigestSchedule: config.ScheduleDaily}
	mockStore := &MockStore{}
	mockNotifications := &MockNotificationService{}

	now := time.Now()
	mockStore.On("ListSince", mock.AnythingOfType("int64")).Return(sampleEvents(now), nil)
	mockStore.On("RecordDigestRun", mock.AnythingOfType("storage.DigestRun")).Return(nil)
	mockNotifications.On("SendDigest", mock.AnythingOfType("*models.Digest")).Return(nil)

	service := NewService(cfg, mockStore, mockNotifications, nil)

	var empty Metrics
	assert.NoError(t, json.Unmarshal([]byte(service.Metrics()), &empty))
	assert.Zero(t, empty.RunCount)

	assert.NoError(t, service.Run())

	var metrics Metrics
	assert.NoError(t, json.Unmarshal([]byte(service.Metrics()), &metrics))
	assert.Equal(t, 3, metrics.TotalEvents)
	assert.Equal(t, 1, metrics.RunCount)
	assert.Equal(t, 2, metrics.ChannelBreakdown["github"])
	assert.Equal(t, 1, metrics.SentimentBreakdown["neutral"])
}
