package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Delivery is one successfully posted movie, kept for the operator's
// benefit. The dedup id list stays in the sent file; this log is
// informational only.
type Delivery struct {
	MovieID int
	Title   string
	Rating  float64
	Caption string
	SentAt  time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS deliveries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	movie_id INTEGER NOT NULL,
	title TEXT NOT NULL,
	rating REAL NOT NULL,
	caption TEXT NOT NULL,
	sent_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_deliveries_sent_at ON deliveries(sent_at);
`

// SQLiteStore records delivered movies in a local sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &SQLiteStore{db: db}
	if err := store.init(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends one delivery to the log.
func (s *SQLiteStore) Record(ctx context.Context, d Delivery) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO deliveries (movie_id, title, rating, caption, sent_at) VALUES (?, ?, ?, ?, ?)`,
		d.MovieID, d.Title, d.Rating, d.Caption, d.SentAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record delivery: %w", err)
	}
	return nil
}

// Recent returns up to limit deliveries, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Delivery, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT movie_id, title, rating, caption, sent_at FROM deliveries ORDER BY id DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("query deliveries: %w", err)
	}
	defer rows.Close()

	var out []Delivery
	for rows.Next() {
		var d Delivery
		var sentAt string
		if err := rows.Scan(&d.MovieID, &d.Title, &d.Rating, &d.Caption, &sentAt); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, sentAt); err == nil {
			d.SentAt = t
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
