// Package store keeps a history of acquisition runs in SQLite so that
// successive scrapes of the same site can be compared later.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"lurl/internal/extract"
)

// Run describes one recorded acquisition session.
type Run struct {
	ID        int64
	Site      string
	URL       string
	StartedAt time.Time
	Duration  time.Duration
	Converged bool
	Attempts  int
	ItemCount int
}

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path and
// applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// RecordRun persists a finished session and its records in one
// transaction, returning the run id.
func (s *Store) RecordRun(ctx context.Context, run Run, rs *extract.ResultSet) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (site, url, started_at, duration_ms, converged, attempts, item_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.Site, run.URL, run.StartedAt.Unix(), run.Duration.Milliseconds(),
		run.Converged, run.Attempts, len(rs.Records))
	if err != nil {
		return 0, fmt.Errorf("store: insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_records (run_id, seq, fields) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("store: prepare records: %w", err)
	}
	defer stmt.Close()

	for i, rec := range rs.Records {
		fields, err := json.Marshal(rec)
		if err != nil {
			return 0, fmt.Errorf("store: marshal record %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, id, i, string(fields)); err != nil {
			return 0, fmt.Errorf("store: insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: commit: %w", err)
	}
	return id, nil
}

// Runs lists recorded sessions for a site, newest first.
func (s *Store) Runs(ctx context.Context, site string) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, site, url, started_at, duration_ms, converged, attempts, item_count
		 FROM runs WHERE site = ? ORDER BY started_at DESC`, site)
	if err != nil {
		return nil, fmt.Errorf("store: query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, durationMS int64
		if err := rows.Scan(&r.ID, &r.Site, &r.URL, &started, &durationMS,
			&r.Converged, &r.Attempts, &r.ItemCount); err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		r.StartedAt = time.Unix(started, 0)
		r.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Records loads the records of a run in their original order. Column
// order is not persisted; callers that need it keep their own schema.
func (s *Store) Records(ctx context.Context, runID int64) ([]extract.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT fields FROM run_records WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("store: query records: %w", err)
	}
	defer rows.Close()

	var records []extract.Record
	for rows.Next() {
		var fields string
		if err := rows.Scan(&fields); err != nil {
			return nil, fmt.Errorf("store: scan record: %w", err)
		}
		var rec extract.Record
		if err := json.Unmarshal([]byte(fields), &rec); err != nil {
			return nil, fmt.Errorf("store: unmarshal record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
