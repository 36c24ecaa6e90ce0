// Package sqlite persists report snapshots in a single SQLite file, one row
// per day with the report serialized as JSON.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/trendops/trendpulse/pkg/trendpulse/internalerr"
	"github.com/trendops/trendpulse/pkg/trendpulse/report"
	"github.com/trendops/trendpulse/pkg/trendpulse/store"
)

// sqliteStore implements store.Store using SQLite.
type sqliteStore struct {
	db *sql.DB
}

// Open opens (creating if needed) a snapshot database with WAL mode enabled.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL keeps the fetch tool and the compare tool from blocking each other.
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS reports (
	day_key TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	saved_at TEXT NOT NULL
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveReport upserts the report for its day.
func (s *sqliteStore) SaveReport(ctx context.Context, r report.TrendsReport) error {
	if r.DayKey == "" {
		return fmt.Errorf("save report: %w: empty day key", internalerr.ErrInvalidInput)
	}

	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("save report %s: %w", r.DayKey, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (day_key, payload, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(day_key) DO UPDATE SET payload=excluded.payload, saved_at=excluded.saved_at
	`, r.DayKey, string(payload), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save report %s: %w", r.DayKey, err)
	}
	return nil
}

// ReportByDay fetches one day's report.
func (s *sqliteStore) ReportByDay(ctx context.Context, dayKey string) (report.TrendsReport, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM reports WHERE day_key = ?", dayKey).Scan(&payload)
	if err == sql.ErrNoRows {
		return report.TrendsReport{}, false, nil
	}
	if err != nil {
		return report.TrendsReport{}, false, fmt.Errorf("report %s: %w", dayKey, err)
	}

	var r report.TrendsReport
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return report.TrendsReport{}, false, fmt.Errorf("report %s: %w", dayKey, err)
	}
	return r, true, nil
}

// RecentReports returns up to limit reports, newest day first. Day keys are
// date strings, so lexical descending order is chronological descending.
func (s *sqliteStore) RecentReports(ctx context.Context, limit int) ([]report.TrendsReport, error) {
	query := "SELECT payload FROM reports ORDER BY day_key DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("recent reports: %w", err)
	}
	defer rows.Close()

	var out []report.TrendsReport
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("recent reports: %w", err)
		}
		var r report.TrendsReport
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, fmt.Errorf("recent reports: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Days lists stored day keys, newest first.
func (s *sqliteStore) Days(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT day_key FROM reports ORDER BY day_key DESC")
	if err != nil {
		return nil, fmt.Errorf("days: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("days: %w", err)
		}
		out = append(out, day)
	}
	return out, rows.Err()
}
