package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rebeliceyang/lazycodex/internal/models"
)

//go:embed schema.sql
var schemaSQL string

const timeLayout = "2006-01-02 15:04:05"

// Entry is one executed search
type Entry struct {
	ID           int             `json:"id"`
	Resource     models.Resource `json:"resource"`
	Query        string          `json:"query"` // URL-encoded query parameters
	Count        int             `json:"count"`
	ExecutedAt   time.Time       `json:"executed_at"`
	Duration     time.Duration   `json:"duration_ns"`
	Success      bool            `json:"success"`
	ErrorMessage string          `json:"error,omitempty"`
}

// Store manages search history persistence
type Store struct {
	db *sql.DB
}

// NewStore opens (and if needed creates) the history database at path
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	s, err := NewStoreWithDB(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewStoreWithDB wraps an open database and creates the schema
func NewStoreWithDB(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schemaSQL); err != nil {
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Add adds a search to history
func (s *Store) Add(ctx context.Context, entry Entry) error {
	executedAt := entry.ExecutedAt
	if executedAt.IsZero() {
		executedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO search_history
		(resource, query, result_count, executed_at, duration_ms, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(entry.Resource),
		entry.Query,
		entry.Count,
		executedAt.UTC().Format(timeLayout),
		entry.Duration.Milliseconds(),
		entry.Success,
		entry.ErrorMessage,
	)
	return err
}

const selectColumns = `SELECT id, resource, query, result_count, executed_at,
		       duration_ms, success, error_message
		FROM search_history`

// GetRecent retrieves the most recent searches
func (s *Store) GetRecent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+`
		ORDER BY executed_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// GetRecentFor retrieves the most recent searches of one resource
func (s *Store) GetRecentFor(ctx context.Context, resource models.Resource, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+`
		WHERE resource = ?
		ORDER BY executed_at DESC, id DESC
		LIMIT ?`, string(resource), limit)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// Search searches history by encoded query text
func (s *Store) Search(ctx context.Context, text string, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+`
		WHERE query LIKE ?
		ORDER BY executed_at DESC, id DESC
		LIMIT ?`, "%"+text+"%", limit)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// Prune keeps the newest keep entries and deletes the rest
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM search_history
		WHERE id NOT IN (
			SELECT id FROM search_history ORDER BY executed_at DESC, id DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Clear removes every entry
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM search_history`)
	return err
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var resource string
		var durationMs int64
		var executedAt string

		err := rows.Scan(
			&e.ID,
			&resource,
			&e.Query,
			&e.Count,
			&executedAt,
			&durationMs,
			&e.Success,
			&e.ErrorMessage,
		)
		if err != nil {
			return nil, err
		}

		e.Resource = models.Resource(resource)
		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.ExecutedAt, _ = time.Parse(timeLayout, executedAt)

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
