// Package sqlite indexes solve requests in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"eveanchor/internal/app/ports"
)

// createdLayout is fixed width so created_at sorts as text.
const createdLayout = "2006-01-02T15:04:05.000000000Z"

type History struct {
	db *sql.DB
}

func Open(path string) (*History, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS solves (
			id TEXT PRIMARY KEY,
			signature TEXT NOT NULL,
			days REAL NOT NULL,
			groupings TEXT NOT NULL,
			materials INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			objective REAL NOT NULL,
			arrays REAL NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS solves_created ON solves(created_at);`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return &History{db: db}, nil
}

func (h *History) Close() error {
	return h.db.Close()
}

func (h *History) Append(ctx context.Context, r ports.SolveRecord) error {
	_, err := h.db.ExecContext(ctx,
		`INSERT INTO solves(id, signature, days, groupings, materials, outcome, objective, arrays, elapsed_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Signature, r.Days, r.Groupings, r.Materials, string(r.Outcome), r.Objective, r.Arrays,
		r.Elapsed.Milliseconds(), r.CreatedAt.UTC().Format(createdLayout))
	return err
}

// Recent returns up to limit records, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]ports.SolveRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, signature, days, groupings, materials, outcome, objective, arrays, elapsed_ms, created_at
		 FROM solves ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ports.SolveRecord
	for rows.Next() {
		var (
			r         ports.SolveRecord
			outcome   string
			elapsedMS int64
			createdAt string
		)
		if err := rows.Scan(&r.ID, &r.Signature, &r.Days, &r.Groupings, &r.Materials, &outcome, &r.Objective, &r.Arrays, &elapsedMS, &createdAt); err != nil {
			return nil, err
		}
		r.Outcome = ports.SolveOutcome(outcome)
		r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		r.CreatedAt, err = time.Parse(createdLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("solve %s: created_at: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
