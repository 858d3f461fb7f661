package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/feedback-insights/dashboard/internal/models"
)

const (
	feedbackTable   = "feedback"
	digestRunsTable = "digest_runs"
)

// SQLiteStore persists feedback events in a single SQLite table indexed by
// timestamp.
type SQLiteStore struct {
	db *sql.DB
}

// Ensure SQLiteStore implements FeedbackStore
var _ FeedbackStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database at %q: %w", path, err)
	}
	// Limit SQLite to a single open connection to avoid "database is locked" errors
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to SQLite database at %q: %w", path, err)
	}

	store := &SQLiteStore{db: db}
	if err := store.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) createTables() error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT PRIMARY KEY,
				channel TEXT NOT NULL,
				text TEXT NOT NULL,
				sentiment TEXT NOT NULL,
				timestamp INTEGER NOT NULL,
				engagement INTEGER NOT NULL DEFAULT 0,
				upvotes INTEGER NOT NULL DEFAULT 0,
				comments INTEGER NOT NULL DEFAULT 0,
				keywords TEXT NOT NULL DEFAULT '[]',
				confidence INTEGER NOT NULL DEFAULT 0
			);
		`, feedbackTable),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_timestamp ON %s (timestamp);`, feedbackTable, feedbackTable),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				ran_at INTEGER NOT NULL,
				duration_ms INTEGER NOT NULL,
				total INTEGER NOT NULL,
				positive INTEGER NOT NULL,
				negative INTEGER NOT NULL,
				neutral INTEGER NOT NULL
			);
		`, digestRunsTable),
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Insert stores one feedback event. Keywords are serialized as a JSON array.
func (s *SQLiteStore) Insert(event models.FeedbackEvent) error {
	keywords := event.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	keywordsJSON, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("failed to marshal keywords: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, channel, text, sentiment, timestamp, engagement, upvotes, comments, keywords, confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, feedbackTable)

	_, err = s.db.Exec(query,
		event.ID, event.Channel, event.Text, event.Sentiment, event.Timestamp,
		event.Engagement, event.Upvotes, event.Comments, string(keywordsJSON), event.Confidence,
	)
	if err != nil {
		return fmt.Errorf("failed to insert feedback %s: %w", event.ID, err)
	}

	logrus.Debugf("Stored feedback %s from channel %s", event.ID, event.Channel)
	return nil
}

// ListRecent returns up to limit events, most recent first.
func (s *SQLiteStore) ListRecent(limit int) ([]models.FeedbackEvent, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY timestamp DESC LIMIT ?`, feedbackColumns, feedbackTable)
	return s.queryEvents(query, limit)
}

// ListSince returns events with timestamp strictly after sinceMillis, most
// recent first.
func (s *SQLiteStore) ListSince(sinceMillis int64) ([]models.FeedbackEvent, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE timestamp > ? ORDER BY timestamp DESC`, feedbackColumns, feedbackTable)
	return s.queryEvents(query, sinceMillis)
}

// ListAll returns every stored event, most recent first.
func (s *SQLiteStore) ListAll() ([]models.FeedbackEvent, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY timestamp DESC`, feedbackColumns, feedbackTable)
	return s.queryEvents(query)
}

// Count returns the number of stored events.
func (s *SQLiteStore) Count() (int64, error) {
	var count int64
	row := s.db.QueryRow(fmt.Sprintf(`SELECT COUNT(*) FROM %s`, feedbackTable))
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count feedback: %w", err)
	}
	return count, nil
}

// RecordDigestRun appends one digest execution record.
func (s *SQLiteStore) RecordDigestRun(run DigestRun) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (ran_at, duration_ms, total, positive, negative, neutral)
		VALUES (?, ?, ?, ?, ?, ?)
	`, digestRunsTable)

	_, err := s.db.Exec(query, run.RanAt, run.DurationMs, run.Total, run.Positive, run.Negative, run.Neutral)
	if err != nil {
		return fmt.Errorf("failed to record digest run: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const feedbackColumns = "id, channel, text, sentiment, timestamp, engagement, upvotes, comments, keywords, confidence"

func (s *SQLiteStore) queryEvents(query string, args ...any) ([]models.FeedbackEvent, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []models.FeedbackEvent
	for rows.Next() {
		var event models.FeedbackEvent
		var keywordsJSON string
		if err := rows.Scan(
			&event.ID, &event.Channel, &event.Text, &event.Sentiment, &event.Timestamp,
			&event.Engagement, &event.Upvotes, &event.Comments, &keywordsJSON, &event.Confidence,
		); err != nil {
			return nil, fmt.Errorf("failed to scan feedback row: %w", err)
		}
		if err := json.Unmarshal([]byte(keywordsJSON), &event.Keywords); err != nil {
			return nil, fmt.Errorf("failed to parse keywords for %s: %w", event.ID, err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feedback rows: %w", err)
	}
	return events, nil
}
