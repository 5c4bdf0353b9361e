// Package history caches the bulk-ingested glucose series from the external
// monitor in SQLite. It is an independent read path: only the pattern
// analyzer consumes it, and it is rebuilt from the monitor at any time.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mrcode/diabefit/internal/models"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS readings (
    timestamp INTEGER PRIMARY KEY, -- unix milliseconds
    value     REAL NOT NULL        -- mmol/L
);
`

// Store is a SQLite-backed glucose history cache.
type Store struct {
	db *sql.DB
}

// NewMemoryStore creates an in-memory history store, used in tests.
func NewMemoryStore() (*Store, error) {
	return newStore(":memory:")
}

// NewFileStore creates a file-backed history store.
func NewFileStore(path string) (*Store, error) {
	return newStore(path)
}

func newStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Upsert stores history points, replacing any existing point with the same
// timestamp, so repeated ingestion of overlapping ranges is idempotent.
func (s *Store) Upsert(ctx context.Context, points []models.GlucoseHistoryPoint) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO readings (timestamp, value) VALUES (?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, p.Timestamp.UnixMilli(), p.Value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Points returns all cached points in the range, ordered by time.
func (s *Store) Points(ctx context.Context, since, until time.Time) ([]models.GlucoseHistoryPoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, value FROM readings
		WHERE timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`, since.UnixMilli(), until.UnixMilli())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []models.GlucoseHistoryPoint
	for rows.Next() {
		var ms int64
		var value float64
		if err := rows.Scan(&ms, &value); err != nil {
			return nil, err
		}
		points = append(points, models.GlucoseHistoryPoint{
			Timestamp: time.UnixMilli(ms),
			Value:     value,
		})
	}
	return points, rows.Err()
}

// Count returns the number of cached points.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM readings").Scan(&count)
	return count, err
}

// DeleteBefore drops points older than the cutoff.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM readings WHERE timestamp < ?", before.UnixMilli())
	return err
}
