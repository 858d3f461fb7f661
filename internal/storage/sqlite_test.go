package storage

import (
	"path/filepath"
	"testing"

	"github.com/feedback-insights/dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "feedback.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_InsertAndList(t *testing.T) {
	store := newTestStore(t)

	events := []models.FeedbackEvent{
		{ID: "a", Channel: "github", Text: "logs missing", Sentiment: "negative", Timestamp: 1000, Keywords: []string{"dashboard logs"}, Confidence: 90},
		{ID: "b", Channel: "forum", Text: "love it", Sentiment: "positive", Timestamp: 3000, Upvotes: 4},
		{ID: "c", Channel: "email", Text: "question", Sentiment: "neutral", Timestamp: 2000},
	}
	for _, e := range events {
		require.NoError(t, store.Insert(e))
	}

	all, err := store.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "b", all[0].ID, "most recent first")
	assert.Equal(t, "c", all[1].ID)
	assert.Equal(t, "a", all[2].ID)

	assert.Equal(t, []string{"dashboard logs"}, all[2].Keywords)
	assert.Equal(t, 90, all[2].Confidence)
	assert.Empty(t, all[0].Keywords)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestSQLiteStore_ListRecentLimit(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Insert(models.FeedbackEvent{
			ID:        string(rune('a' + i)),
			Channel:   "github",
			Sentiment: "neutral",
			Timestamp: int64(i * 100),
		}))
	}

	recent, err := store.ListRecent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, int64(400), recent[0].Timestamp)
	assert.Equal(t, int64(300), recent[1].Timestamp)
}

func TestSQLiteStore_ListSince(t *testing.T) {
	store := newTestStore(t)

	for i, ts := range []int64{100, 200, 300} {
		require.NoError(t, store.Insert(models.FeedbackEvent{
			ID:        string(rune('a' + i)),
			Channel:   "support",
			Sentiment: "neutral",
			Timestamp: ts,
		}))
	}

	since, err := store.ListSince(100)
	require.NoError(t, err)
	require.Len(t, since, 2, "boundary timestamp is excluded")
	assert.Equal(t, int64(300), since[0].Timestamp)

	empty, err := store.ListSince(300)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSQLiteStore_DuplicateID(t *testing.T) {
	store := newTestStore(t)

	event := models.FeedbackEvent{ID: "dup", Channel: "github", Sentiment: "neutral", Timestamp: 1}
	require.NoError(t, store.Insert(event))
	assert.Error(t, store.Insert(event))
}

func TestSQLiteStore_RecordDigestRun(t *testing.T) {
	store := newTestStore(t)

	err := store.RecordDigestRun(DigestRun{
		RanAt:      1700000000000,
		DurationMs: 12,
		Total:      10,
		Positive:   4,
		Negative:   3,
		Neutral:    3,
	})
	assert.NoError(t, err)
}

func TestSQLiteStore_SchemaIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "feedback.db")

	first, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Insert(models.FeedbackEvent{ID: "x", Channel: "github", Sentiment: "neutral", Timestamp: 1}))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	count, err := second.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
