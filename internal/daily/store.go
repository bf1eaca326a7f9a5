package daily

import (
	"context"
	"database/sql"
	"fmt"
)

// Result is a finished daily game.
type Result struct {
	GameID    string `json:"gameId"`
	Date      string `json:"date"`
	Locale    string `json:"locale"`
	WordIndex int    `json:"wordIndex"`
	Guesses   int    `json:"guesses"`
	Won       bool   `json:"won"`
}

// Stats aggregates the results of one date.
type Stats struct {
	Date     string      `json:"date"`
	Locale   string      `json:"locale"`
	Played   int         `json:"played"`
	Won      int         `json:"won"`
	Guesses  map[int]int `json:"guesses"` // winning games by guess count
	Failures int         `json:"failures"`
}

// Store records daily results in the daily_results table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// InsertResult records r. A game id is recorded at most once; repeats are
// ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO daily_results (game_id, date, locale, word_index, guesses, won)
        VALUES (?, ?, ?, ?, ?, ?)`,
		r.GameID, r.Date, r.Locale, r.WordIndex, r.Guesses, r.Won,
	)
	if err != nil {
		return fmt.Errorf("insert daily result: %w", err)
	}
	return nil
}

// Stats returns the guess distribution of the date.
func (s *Store) Stats(ctx context.Context, date, locale string) (Stats, error) {
	out := Stats{Date: date, Locale: locale, Guesses: map[int]int{}}
	rows, err := s.db.QueryContext(ctx, `
        SELECT guesses, won, COUNT(1)
        FROM daily_results
        WHERE date=? AND locale=?
        GROUP BY guesses, won`, date, locale)
	if err != nil {
		return out, err
	}
	defer rows.Close()
	for rows.Next() {
		var guesses, n int
		var won bool
		if err := rows.Scan(&guesses, &won, &n); err != nil {
			return out, err
		}
		out.Played += n
		if won {
			out.Won += n
			out.Guesses[guesses] += n
		} else {
			out.Failures += n
		}
	}
	return out, rows.Err()
}
