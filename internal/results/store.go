// Package results persists finished rounds to SQLite.
package results

import (
	"context"
	"database/sql"
	"time"

	"github.com/robalobadob/wordsearch/internal/game"
)

// Row is one finished round as returned to the player.
type Row struct {
	GameID     string `json:"gameId"`
	Difficulty string `json:"difficulty"`
	TimeLimit  int    `json:"timeLimit"`
	Daily      string `json:"daily,omitempty"`
	Score      int    `json:"score"`
	Found      int    `json:"found"`
	Total      int    `json:"total"`
	Oranges    int    `json:"oranges"`
	Bonus      bool   `json:"bonus"`
	Rank       string `json:"rank"`
	Won        bool   `json:"won"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Insert records a finished round. A second daily result for the same
// player and date is ignored.
func (s *Store) Insert(ctx context.Context, sum game.Summary) error {
	var daily any
	if sum.Daily != "" {
		daily = sum.Daily
	}
	r := sum.Results
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO results
			(game_id, player_id, player_name, difficulty, time_limit,
			 score, found, total, oranges, bonus, rank, won,
			 started_at, finished_at, daily_date)
		VALUES (?,?,?,?,?, ?,?,?,?,?,?,?, ?,?,?)`,
		sum.GameID, sum.PlayerID, sum.PlayerName, string(sum.Difficulty), int(sum.TimeLimit/time.Second),
		r.Score, r.Found, r.Total, r.Oranges, r.Bonus, r.Rank, r.Won,
		sum.StartedAt.UTC().Format(time.RFC3339), sum.FinishedAt.UTC().Format(time.RFC3339), daily,
	)
	return err
}

// DailyPlayed reports whether the player already finished the daily puzzle
// for date.
func (s *Store) DailyPlayed(ctx context.Context, playerID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM results WHERE player_id=? AND daily_date=?`,
		playerID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// ForPlayer lists the player's most recent rounds, newest first.
func (s *Store) ForPlayer(ctx context.Context, playerID string, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT game_id, difficulty, time_limit, COALESCE(daily_date,''),
		       score, found, total, oranges, bonus, rank, won,
		       started_at, finished_at
		FROM results
		WHERE player_id=?
		ORDER BY finished_at DESC, id DESC
		LIMIT ?`, playerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.GameID, &r.Difficulty, &r.TimeLimit, &r.Daily,
			&r.Score, &r.Found, &r.Total, &r.Oranges, &r.Bonus, &r.Rank, &r.Won,
			&r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
