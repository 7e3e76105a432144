// Package stats persists finalized session results and answers the
// aggregate queries the stats and leaderboard endpoints need.
package stats

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/arcadeworks/arcade-go/internal/session"
)

// Result is one finalized session as recorded for aggregation.
type Result struct {
	ID          int64     `json:"id"`
	SessionID   string    `json:"session_id"`
	UserID      string    `json:"user_id,omitempty"`
	Game        string    `json:"game"`
	Difficulty  string    `json:"difficulty"`
	Score       int       `json:"score"`
	Moves       int       `json:"moves"`
	Attempts    int       `json:"attempts"`
	DurationMs  int64     `json:"duration_ms"`
	CompletedAt time.Time `json:"completed_at"`
}

// GameStats aggregates one player's results for one game.
type GameStats struct {
	Game      string  `json:"game"`
	Played    int     `json:"played"`
	BestScore int     `json:"best_score"`
	AvgScore  float64 `json:"avg_score"`
}

// UserStats is the full per-user aggregate.
type UserStats struct {
	UserID string      `json:"user_id"`
	Games  []GameStats `json:"games"`
}

// LeaderboardEntry is one row of a per-game leaderboard.
type LeaderboardEntry struct {
	UserID      string    `json:"user_id"`
	Score       int       `json:"score"`
	Difficulty  string    `json:"difficulty"`
	CompletedAt time.Time `json:"completed_at"`
}

// Store is a SQLite-backed results store.
type Store struct {
	db *sql.DB
}

// New opens/creates a SQLite database at path and runs migrations.
func New(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&cache=shared", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite is not concurrent for writes

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL UNIQUE,
			user_id TEXT NOT NULL DEFAULT '',
			game TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			score INTEGER NOT NULL,
			moves INTEGER NOT NULL,
			attempts INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			completed_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_user_game ON results(user_id, game)`,
		`CREATE INDEX IF NOT EXISTS idx_results_game_score ON results(game, score DESC)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// Record stores a finalized session. The unique session_id column makes
// recording idempotent: a finalize replay inserts nothing.
func (s *Store) Record(ctx context.Context, sess *session.Session) error {
	completedAt := time.Now().UTC()
	if sess.EndTime != nil {
		completedAt = *sess.EndTime
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO results
			(session_id, user_id, game, difficulty, score, moves, attempts, duration_ms, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.UserID, sess.Config.Game, string(sess.Config.Difficulty),
		sess.Score, sess.Progress.Moves, sess.Progress.Attempts,
		sess.Progress.ElapsedMs, completedAt)
	if err != nil {
		return fmt.Errorf("failed to record result: %w", err)
	}
	return nil
}

// UserStats aggregates a player's results per game.
func (s *Store) UserStats(ctx context.Context, userID string) (*UserStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT game, COUNT(*), MAX(score), AVG(score)
		FROM results WHERE user_id = ?
		GROUP BY game ORDER BY game`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user stats: %w", err)
	}
	defer rows.Close()

	stats := &UserStats{UserID: userID}
	for rows.Next() {
		var gs GameStats
		if err := rows.Scan(&gs.Game, &gs.Played, &gs.BestScore, &gs.AvgScore); err != nil {
			return nil, fmt.Errorf("failed to scan user stats: %w", err)
		}
		stats.Games = append(stats.Games, gs)
	}
	return stats, rows.Err()
}

// Leaderboard returns the top scores for a game, best first.
func (s *Store) Leaderboard(ctx context.Context, game string, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, score, difficulty, completed_at
		FROM results WHERE game = ?
		ORDER BY score DESC, completed_at ASC
		LIMIT ?`, game, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Score, &e.Difficulty, &e.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
