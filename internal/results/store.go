// Package results persists and exports opening-search runs.
package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cthoyt/pyrdle/internal/sim"
)

// ErrNotFound is returned for an unknown run id.
var ErrNotFound = errors.New("results: run not found")

// Row is one ranked opening of a run.
type Row struct {
	Rank     int      `json:"rank"`
	Words    []string `json:"words"`
	Score    float64  `json:"score"`
	Success  float64  `json:"success"`
	Speed    float64  `json:"speed"`
	Failures int      `json:"failures"`
}

// FromOpenings converts search output to rows, ranked from 1.
func FromOpenings(openings []sim.Opening) []Row {
	out := make([]Row, len(openings))
	for i, o := range openings {
		out[i] = Row{
			Rank:     i + 1,
			Words:    append([]string(nil), o.Words...),
			Score:    o.Score,
			Success:  o.Success,
			Speed:    o.Speed,
			Failures: o.Histogram.Failures,
		}
	}
	return out
}

// Run describes one opening search and its parameters.
type Run struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Locale    string    `json:"locale"`
	Length    int       `json:"length"`
	Height    int       `json:"height"`
	K         int       `json:"k"`
	N         int       `json:"n"`
	Player    string    `json:"player"`
	Rows      []Row     `json:"rows,omitempty"`
}

// Store is the SQLite-backed run archive.
type Store struct{ db *sql.DB }

// NewStore wraps a migrated database.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Save inserts run and its rows in one transaction and returns the run id.
// A zero CreatedAt is set to now.
func (s *Store) Save(ctx context.Context, run Run) (int64, error) {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
        INSERT INTO search_runs (created_at, locale, length, height, k, n, player)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.CreatedAt.UTC().Format(time.RFC3339Nano), run.Locale, run.Length, run.Height, run.K, run.N, run.Player,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO search_rows (run_id, rank, words, score, success, speed, failures)
        VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	for _, r := range run.Rows {
		if _, err := stmt.ExecContext(ctx, id, r.Rank, strings.Join(r.Words, ","), r.Score, r.Success, r.Speed, r.Failures); err != nil {
			return 0, fmt.Errorf("insert row %d: %w", r.Rank, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// List returns the most recent runs (without rows), newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, created_at, locale, length, height, k, n, player
        FROM search_runs
        ORDER BY id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get loads a run with its rows in rank order.
func (s *Store) Get(ctx context.Context, id int64) (Run, error) {
	r, err := scanRun(s.db.QueryRowContext(ctx, `
        SELECT id, created_at, locale, length, height, k, n, player
        FROM search_runs WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return Run{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
        SELECT rank, words, score, success, speed, failures
        FROM search_rows WHERE run_id=? ORDER BY rank`, id)
	if err != nil {
		return Run{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var row Row
		var joined string
		if err := rows.Scan(&row.Rank, &joined, &row.Score, &row.Success, &row.Speed, &row.Failures); err != nil {
			return Run{}, err
		}
		row.Words = strings.Split(joined, ",")
		r.Rows = append(r.Rows, row)
	}
	return r, rows.Err()
}

type scanner interface{ Scan(dest ...any) error }

func scanRun(sc scanner) (Run, error) {
	var r Run
	var created string
	if err := sc.Scan(&r.ID, &created, &r.Locale, &r.Length, &r.Height, &r.K, &r.N, &r.Player); err != nil {
		return Run{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Run{}, fmt.Errorf("run %d: created_at: %w", r.ID, err)
	}
	r.CreatedAt = t
	return r, nil
}
