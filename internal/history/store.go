package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store provides sqlite-backed persistence for insight records.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the history database and initializes the
// schema.
func NewStore(ctx context.Context, dbPath string) (*Store, error) {
	// Enable WAL mode for better concurrency and set busy timeout
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't support multiple writers well
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS chat_history (
		id            TEXT PRIMARY KEY,
		chat_id       TEXT NOT NULL,
		question      TEXT NOT NULL,
		insight       TEXT NOT NULL,
		visualization TEXT,
		filename      TEXT NOT NULL,
		timestamp     INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_chat_history_chat ON chat_history(chat_id);
	CREATE INDEX IF NOT EXISTS idx_chat_history_time ON chat_history(timestamp);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Append stores one answered question and returns the stored record.
func (s *Store) Append(ctx context.Context, rec InsightRecord) (InsightRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	query := `
		INSERT INTO chat_history (id, chat_id, question, insight, visualization, filename, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var viz sql.NullString
	if rec.Visualization != nil {
		viz = sql.NullString{String: *rec.Visualization, Valid: true}
	}

	// Nanosecond precision keeps turn ordering stable when two appends
	// land within the same second.
	_, err := s.db.ExecContext(ctx, query, rec.ID, rec.ChatID, rec.Question, rec.Insight, viz, rec.Filename, rec.Timestamp.UnixNano())
	if err != nil {
		return InsightRecord{}, fmt.Errorf("failed to append record: %w", err)
	}

	return rec, nil
}

// ListAll returns every record, newest first.
func (s *Store) ListAll(ctx context.Context) ([]InsightRecord, error) {
	query := `
		SELECT id, chat_id, question, insight, visualization, filename, timestamp
		FROM chat_history
		ORDER BY timestamp DESC
	`
	return s.queryRecords(ctx, query)
}

// ListByChat returns one conversation's records, oldest first.
func (s *Store) ListByChat(ctx context.Context, chatID string) ([]InsightRecord, error) {
	query := `
		SELECT id, chat_id, question, insight, visualization, filename, timestamp
		FROM chat_history
		WHERE chat_id = ?
		ORDER BY timestamp ASC
	`
	return s.queryRecords(ctx, query, chatID)
}

// DeleteByChat removes one conversation. Returns the number of records
// deleted.
func (s *Store) DeleteByChat(ctx context.Context, chatID string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM chat_history WHERE chat_id = ?`, chatID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete chat: %w", err)
	}
	affected, _ := result.RowsAffected()
	return affected, nil
}

// DeleteAll removes every record.
func (s *Store) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM chat_history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (s *Store) queryRecords(ctx context.Context, query string, args ...any) ([]InsightRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []InsightRecord
	for rows.Next() {
		var rec InsightRecord
		var viz sql.NullString
		var ts int64
		if err := rows.Scan(&rec.ID, &rec.ChatID, &rec.Question, &rec.Insight, &viz, &rec.Filename, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if viz.Valid {
			v := viz.String
			rec.Visualization = &v
		}
		rec.Timestamp = time.Unix(0, ts).UTC()
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}
